package bot

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"subgate/app"
	"subgate/config"
)

// pendingInput tracks which admin add flow is waiting for a one-line text
// message.
type pendingInput int

const (
	pendingNone pendingInput = iota
	pendingPublicChannel
	pendingChannelByID
	pendingPrivateChannel
	pendingFinalContent
)

const updateTimeout = 30 * time.Second

// Bot is the Telegram transport: it receives updates, routes them into the
// service layer and renders decisions back as messages and keyboards.
type Bot struct {
	api *tgbotapi.BotAPI
	svc *app.Service
	log *zap.Logger

	mu      sync.Mutex
	pending map[int64]pendingInput
}

func NewBot(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *app.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		api:     api,
		svc:     svc,
		log:     log,
		pending: make(map[int64]pendingInput),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Sugar().Infof("Bot started as @%s", api.Self.UserName)
			bot.registerCommands()
			go bot.run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Sugar().Info("Stopping bot update loop")
			api.StopReceivingUpdates()
			return nil
		},
	})

	return bot, nil
}

func (b *Bot) registerCommands() {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start the bot"},
		tgbotapi.BotCommand{Command: "check", Description: "Check your subscriptions"},
		tgbotapi.BotCommand{Command: "admin", Description: "Admin panel"},
	)
	if _, err := b.api.Request(cmds); err != nil {
		b.log.Sugar().Warnw("Failed to register commands", "err", err)
	}
}

func (b *Bot) run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	for update := range b.api.GetUpdatesChan(u) {
		update := update
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
			defer cancel()
			b.handleUpdate(ctx, update)
		}()
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Sugar().Errorw("Panic while handling update", "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) setPending(userID int64, p pendingInput) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p == pendingNone {
		delete(b.pending, userID)
	} else {
		b.pending[userID] = p
	}
}

func (b *Bot) takePending(userID int64) pendingInput {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.pending[userID]
	delete(b.pending, userID)
	return p
}
