package app

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentStore holds the reward entries. Exactly one entry is active; the
// first insert becomes active and deleting the active entry promotes the
// oldest remaining one.
type ContentStore struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewContentStore(lc fx.Lifecycle, db *gorm.DB, log *zap.Logger) *ContentStore {
	return &ContentStore{db, log}
}

func (s *ContentStore) Active(ctx context.Context) (*FinalContent, error) {
	var fc FinalContent
	tx := s.db.WithContext(ctx).Where("active = ?", true).First(&fc)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &fc, nil
}

func (s *ContentStore) List(ctx context.Context) ([]FinalContent, error) {
	var all []FinalContent
	tx := s.db.WithContext(ctx).Order("id").Find(&all)
	return all, tx.Error
}

func (s *ContentStore) Add(ctx context.Context, fc *FinalContent) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&FinalContent{}).Where("active = ?", true).Count(&active).Error; err != nil {
			return err
		}
		fc.Active = active == 0
		return tx.Create(fc).Error
	})
	if err != nil {
		return err
	}
	s.log.Sugar().Infow("Added final content", "id", fc.ID, "name", fc.Name, "active", fc.Active)
	return nil
}

func (s *ContentStore) Remove(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fc FinalContent
		if err := tx.First(&fc, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		if err := tx.Delete(&fc).Error; err != nil {
			return err
		}
		if !fc.Active {
			return nil
		}

		var next FinalContent
		err := tx.Order("id").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		return tx.Model(&next).Update("active", true).Error
	})
	if err != nil {
		return err
	}
	s.log.Sugar().Infow("Removed final content", "id", id)
	return nil
}
