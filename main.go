package main

import (
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"subgate/app"
	"subgate/bot"
	"subgate/config"
)

func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENVIRONMENT") {
	default:
		return zap.NewDevelopment()

	case "production":
		logCfg := zap.NewProductionConfig()
		logCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			t = t.UTC()
			zapcore.ISO8601TimeEncoder(t, enc)
		}
		return logCfg.Build()
	}
}

func main() {
	fx.New(
		fx.Provide(NewLogger),
		fx.Provide(config.NewConfig),

		fx.Provide(app.NewDatabase),
		fx.Provide(app.NewTransport),
		fx.Provide(app.NewRegistry),
		fx.Provide(app.NewConfirmations),
		fx.Provide(app.NewContentStore),
		fx.Provide(app.NewUsers),
		fx.Provide(app.NewOracle),
		fx.Provide(app.NewVerifier),
		fx.Provide(app.NewAccess),
		fx.Provide(app.NewService),
		fx.Provide(app.NewHTTPServer),

		fx.Provide(bot.NewBot),

		fx.Invoke(func(*bot.Bot) {}),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}
