package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"subgate/config"
)

// UnmetRequirement describes one requirement the user has not satisfied.
// Accessible and ErrorReason are meaningful for public channels only: a
// private channel is never inaccessible, just not yet confirmed.
type UnmetRequirement struct {
	ChannelID   uint
	Kind        Kind
	Name        string
	URL         string
	Accessible  bool
	ErrorReason string
}

type VerificationResult struct {
	AllSatisfied bool
	Unmet        []UnmetRequirement
}

// Verifier runs the subscription check: public channels against the
// membership oracle, private channels against the attestation store. A single
// failing requirement never aborts the pass; only the registry itself being
// unreachable does.
type Verifier struct {
	log           *zap.Logger
	registry      *Registry
	confirmations *Confirmations
	oracle        MembershipOracle
	resetOnCheck  bool
}

func NewVerifier(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, registry *Registry, confirmations *Confirmations, oracle MembershipOracle) *Verifier {
	return &Verifier{
		log:           log,
		registry:      registry,
		confirmations: confirmations,
		oracle:        oracle,
		resetOnCheck:  cfg.ResetConfirmations,
	}
}

// Verify evaluates every requirement in registry order. The returned unmet
// list keeps that order regardless of which checks failed.
func (v *Verifier) Verify(ctx context.Context, userID int64) (*VerificationResult, error) {
	passID := uuid.NewString()
	log := v.log.Sugar().With("pass_id", passID, "user_id", userID)

	channels, err := v.registry.List(ctx)
	if err != nil {
		log.Errorw("Verification aborted, registry unreachable", "err", err)
		return nil, err
	}

	result := &VerificationResult{}
	for i := range channels {
		ch := &channels[i]
		switch ch.Kind {
		case KindPrivate:
			if unmet, err := v.checkPrivate(ctx, userID, ch); err != nil {
				return nil, err
			} else if unmet != nil {
				result.Unmet = append(result.Unmet, *unmet)
			}

		default:
			if unmet := v.checkPublic(ctx, log, userID, ch); unmet != nil {
				result.Unmet = append(result.Unmet, *unmet)
			}
		}
	}

	result.AllSatisfied = len(result.Unmet) == 0
	log.Infow("Verification pass finished", "channels", len(channels), "unmet", len(result.Unmet))
	return result, nil
}

// Recheck is the entry point for an explicit user-triggered check. Under the
// strict re-attestation policy it first wipes the user's confirmations so
// every private channel must be re-confirmed.
func (v *Verifier) Recheck(ctx context.Context, userID int64) (*VerificationResult, error) {
	if v.resetOnCheck {
		if err := v.confirmations.ClearAll(ctx, userID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
		}
	}
	return v.Verify(ctx, userID)
}

func (v *Verifier) checkPrivate(ctx context.Context, userID int64, ch *Channel) (*UnmetRequirement, error) {
	confirmed, err := v.confirmations.IsConfirmed(ctx, userID, ch.ID)
	if err != nil {
		// Attestation store and registry share the same storage; treat a
		// read failure the same way as a registry outage.
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	if confirmed {
		return nil, nil
	}
	return &UnmetRequirement{
		ChannelID: ch.ID,
		Kind:      KindPrivate,
		Name:      ch.Name,
		URL:       ch.URL,
	}, nil
}

func (v *Verifier) checkPublic(ctx context.Context, log *zap.SugaredLogger, userID int64, ch *Channel) *UnmetRequirement {
	unmet := &UnmetRequirement{
		ChannelID: ch.ID,
		Kind:      KindPublic,
		Name:      ch.Name,
		URL:       ch.URL,
	}

	ref := ch.Ref()
	if ref.IsZero() {
		unmet.ErrorReason = "invalid handle"
		return unmet
	}

	status, err := v.oracle.ChatMember(ctx, ref, userID)
	if err != nil {
		// Channel gone, bot lacks permission, timeout -- all degrade to
		// unmet+inaccessible and the pass continues. Transport errors can
		// carry the full request URL, so the token is masked before the
		// reason is stored or logged.
		reason := redactToken(err.Error())
		log.Warnw("Membership check failed", "channel_id", ch.ID, "ref", ref.Recipient(), "err", reason)
		unmet.ErrorReason = reason
		return unmet
	}

	if status.Subscribed() {
		return nil
	}
	unmet.Accessible = true
	return unmet
}
