package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Channel{}, &Confirmation{}, &FinalContent{}))
	return db
}

func newTestStores(t *testing.T) (*Registry, *Confirmations, *ContentStore, *Users) {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()
	return &Registry{db, log}, &Confirmations{db, log}, &ContentStore{db, log}, &Users{db, log}
}

// fakeOracle resolves membership from a fixed map keyed by the chat_id the
// Bot API would receive. Unknown refs are unreachable, with an optional
// injected error per ref; calls records every probed ref in order.
type fakeOracle struct {
	statuses map[string]MembershipStatus
	errs     map[string]error
	calls    []string
}

func (o *fakeOracle) ChatMember(ctx context.Context, ref ChannelRef, userID int64) (MembershipStatus, error) {
	o.calls = append(o.calls, ref.Recipient())
	if err, ok := o.errs[ref.Recipient()]; ok {
		return "", err
	}
	status, ok := o.statuses[ref.Recipient()]
	if !ok {
		return "", fmt.Errorf("getChatMember %s: chat not found", ref.Recipient())
	}
	return status, nil
}
