package app

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Users mirrors Telegram identities into local rows, upserted on every
// interaction.
type Users struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUsers(lc fx.Lifecycle, db *gorm.DB, log *zap.Logger) *Users {
	return &Users{db, log}
}

func (u *Users) Upsert(ctx context.Context, userID int64, username, fullName string) error {
	row := User{
		ID:           userID,
		Username:     username,
		FullName:     fullName,
		Interactions: 1,
		JoinedAt:     time.Now().UTC(),
	}
	tx := u.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"username":     username,
				"full_name":    fullName,
				"interactions": gorm.Expr("interactions + 1"),
			}),
		}).
		Create(&row)
	return tx.Error
}

func (u *Users) Count(ctx context.Context) (int64, error) {
	var n int64
	tx := u.db.WithContext(ctx).Model(&User{}).Count(&n)
	return n, tx.Error
}
