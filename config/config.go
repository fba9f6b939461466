package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Env      string `env:"ENVIRONMENT"`
	BotToken string `env:"BOT_TOKEN"`
	AdminID  int64  `env:"ADMIN_ID"`

	DBPath     string `env:"DB_PATH" envDefault:"subgate.sqlite"`
	ServerPort int    `env:"SERVER_PORT" envDefault:"8443"`

	OracleTimeoutSecs int `env:"ORACLE_TIMEOUT_SECS" envDefault:"10"`

	// Strict re-attestation mode: an explicit re-check wipes the user's
	// private-channel confirmations before verifying.
	ResetConfirmations bool `env:"VERIFY_RESET_CONFIRMATIONS" envDefault:"false"`

	log *zap.Logger
}

func NewConfig(lc fx.Lifecycle, log *zap.Logger) (*Config, error) {
	cfg := &Config{log: log}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		if cfg.Env == "development" {
			cfg.log.Sugar().Warnf("%s (continuing in development env)", err)
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.BotToken == "" {
		return errors.New("BOT_TOKEN envvar must be populated -- get one from @BotFather")
	}
	if cfg.AdminID == 0 {
		return errors.New("ADMIN_ID envvar must be populated with the administrator's numeric Telegram id")
	}
	return nil
}

func (cfg *Config) OracleTimeout() time.Duration {
	return time.Duration(cfg.OracleTimeoutSecs) * time.Second
}
