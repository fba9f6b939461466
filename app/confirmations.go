package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Confirmations is the per-user attestation store for private channels.
type Confirmations struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewConfirmations(lc fx.Lifecycle, db *gorm.DB, log *zap.Logger) *Confirmations {
	return &Confirmations{db, log}
}

// IsConfirmed never errors on absence; a missing row simply means false.
func (c *Confirmations) IsConfirmed(ctx context.Context, userID int64, channelID uint) (bool, error) {
	var row Confirmation
	tx := c.db.WithContext(ctx).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		First(&row)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// Confirm is idempotent; re-confirming refreshes the timestamp.
func (c *Confirmations) Confirm(ctx context.Context, userID int64, channelID uint) error {
	row := Confirmation{UserID: userID, ChannelID: channelID, ConfirmedAt: time.Now().UTC()}
	tx := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row)
	if err := tx.Error; err != nil {
		return err
	}
	c.log.Sugar().Infow("Confirmed private channel", "user_id", userID, "channel_id", channelID)
	return nil
}

func (c *Confirmations) Clear(ctx context.Context, userID int64, channelID uint) error {
	tx := c.db.WithContext(ctx).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		Delete(&Confirmation{})
	return tx.Error
}

// ClearAll wipes every attestation a user has given. Used by the strict
// re-attestation mode.
func (c *Confirmations) ClearAll(ctx context.Context, userID int64) error {
	tx := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Confirmation{})
	return tx.Error
}
