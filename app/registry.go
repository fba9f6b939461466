package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrRegistryUnavailable marks a storage failure while loading requirements.
// Callers must surface a generic unavailable response instead of claiming
// zero channels are required.
var ErrRegistryUnavailable = errors.New("channel registry unavailable")

var ErrNotFound = errors.New("not found")

// Registry stores channel requirements in creation order. Requirements are
// immutable once created; to change one, delete and re-add.
type Registry struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRegistry(lc fx.Lifecycle, db *gorm.DB, log *zap.Logger) *Registry {
	return &Registry{db, log}
}

func (r *Registry) List(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	tx := r.db.WithContext(ctx).Order("id").Find(&channels)
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	return channels, nil
}

func (r *Registry) Get(ctx context.Context, id uint) (*Channel, error) {
	var ch Channel
	tx := r.db.WithContext(ctx).First(&ch, id)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *Registry) Add(ctx context.Context, ch *Channel) (uint, error) {
	tx := r.db.WithContext(ctx).Create(ch)
	if err := tx.Error; err != nil {
		return 0, err
	}
	r.log.Sugar().Infow("Added channel requirement", "id", ch.ID, "kind", ch.Kind, "name", ch.Name)
	return ch.ID, nil
}

// Remove deletes a requirement together with every confirmation that
// references it, so no orphaned attestation survives.
func (r *Registry) Remove(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&Channel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("channel_id = ?", id).Delete(&Confirmation{}).Error
	})
	if err != nil {
		return err
	}
	r.log.Sugar().Infow("Removed channel requirement", "id", id)
	return nil
}
