package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"subgate/config"
)

// Service is the in-process boundary the presentation layer talks to. It owns
// the check/confirm flows and the admin operations; it performs no
// authentication, only an identity check against the configured admin.
type Service struct {
	cfg           *config.Config
	log           *zap.Logger
	registry      *Registry
	confirmations *Confirmations
	content       *ContentStore
	users         *Users
	verifier      *Verifier
	access        *Access
}

func NewService(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, registry *Registry, confirmations *Confirmations, content *ContentStore, users *Users, verifier *Verifier, access *Access) *Service {
	return &Service{cfg, log, registry, confirmations, content, users, verifier, access}
}

func (svc *Service) IsAdmin(userID int64) bool {
	return userID == svc.cfg.AdminID
}

func (svc *Service) TouchUser(ctx context.Context, userID int64, username, fullName string) {
	if err := svc.users.Upsert(ctx, userID, username, fullName); err != nil {
		svc.log.Sugar().Warnw("Failed to upsert user", "user_id", userID, "err", err)
	}
}

// CheckAccess runs an explicit verification pass and turns it into a decision.
func (svc *Service) CheckAccess(ctx context.Context, userID int64) (*Decision, error) {
	res, err := svc.verifier.Recheck(ctx, userID)
	if err != nil {
		return nil, err
	}
	return svc.access.Decide(ctx, res)
}

// ConfirmAndCheck records an attestation for a private channel, then
// immediately re-verifies. Confirming a public or unknown requirement is
// rejected; an attestation only has meaning for a private channel.
func (svc *Service) ConfirmAndCheck(ctx context.Context, userID int64, channelID uint) (*Decision, error) {
	ch, err := svc.registry.Get(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("confirm channel %d: %w", channelID, err)
	}
	if ch.Kind != KindPrivate {
		return nil, fmt.Errorf("confirm channel %d: %w", channelID, ErrNotConfirmable)
	}

	if err := svc.confirmations.Confirm(ctx, userID, channelID); err != nil {
		return nil, err
	}

	res, err := svc.verifier.Verify(ctx, userID)
	if err != nil {
		return nil, err
	}
	return svc.access.Decide(ctx, res)
}

// ErrNotConfirmable rejects attestation against a non-private requirement.
var ErrNotConfirmable = errors.New("requirement does not take confirmations")

// Admin operations. Gating against the admin identity happens in the
// presentation layer via IsAdmin before these are invoked.

func (svc *Service) AddChannelRequirement(ctx context.Context, ch *Channel) (uint, error) {
	return svc.registry.Add(ctx, ch)
}

func (svc *Service) RemoveChannelRequirement(ctx context.Context, id uint) error {
	return svc.registry.Remove(ctx, id)
}

func (svc *Service) ListChannelRequirements(ctx context.Context) ([]Channel, error) {
	return svc.registry.List(ctx)
}

func (svc *Service) AddFinalContent(ctx context.Context, fc *FinalContent) error {
	return svc.content.Add(ctx, fc)
}

func (svc *Service) RemoveFinalContent(ctx context.Context, id uint) error {
	return svc.content.Remove(ctx, id)
}

func (svc *Service) ListFinalContent(ctx context.Context) ([]FinalContent, error) {
	return svc.content.List(ctx)
}

type Stats struct {
	Users        int64
	Channels     int
	FinalContent int
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	users, err := svc.users.Count(ctx)
	if err != nil {
		return stats, err
	}
	channels, err := svc.registry.List(ctx)
	if err != nil {
		return stats, err
	}
	content, err := svc.content.List(ctx)
	if err != nil {
		return stats, err
	}

	stats.Users = users
	stats.Channels = len(channels)
	stats.FinalContent = len(content)
	return stats, nil
}
