package app

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"subgate/config"
)

func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Sugar().Panicw("failed to connect database", "err", err)
	}
	log.Info("Database started")

	log.Info("Starting migrations")
	db.AutoMigrate(
		&User{},
		&Channel{},
		&Confirmation{},
		&FinalContent{},
	)
	return db
}

// Kind distinguishes requirements the bot can check against the Telegram API
// from private channels that rely on user attestation.
type Kind string

const (
	KindPublic  Kind = "public"
	KindPrivate Kind = "private"
)

// User mirrors a Telegram identity. ID is the platform's numeric user id.
type User struct {
	ID           int64 `gorm:"primaryKey"`
	Username     string
	FullName     string
	Interactions int64
	JoinedAt     time.Time
}

// Channel is a subscription requirement. For public channels exactly one of
// Username (without the leading @) or ChatID identifies the chat; private
// channels carry neither, only the invite URL.
type Channel struct {
	gorm.Model
	Kind     Kind
	Username string
	ChatID   int64
	URL      string
	Name     string
}

// Confirmation records a user's attestation for a private channel. Absence of
// a row means not confirmed; no false row is ever written.
type Confirmation struct {
	UserID      int64 `gorm:"primaryKey;autoIncrement:false"`
	ChannelID   uint  `gorm:"primaryKey;autoIncrement:false"`
	ConfirmedAt time.Time
}

// FinalContent is the reward unlocked once every requirement is satisfied.
// Exactly one row is active at a time.
type FinalContent struct {
	gorm.Model
	URL         string
	Name        string
	Description string
	Active      bool
}

// Ref builds the oracle reference for a public channel row.
func (c *Channel) Ref() ChannelRef {
	if c.ChatID != 0 {
		return RefByID(c.ChatID)
	}
	if c.Username != "" {
		return RefByHandle(c.Username)
	}
	return ChannelRef{}
}
