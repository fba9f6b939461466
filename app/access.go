package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Decision is what the presentation layer renders: either unlocked content or
// the remediation list, never both.
type Decision struct {
	Unlocked    bool
	Reward      *FinalContent
	Remediation []UnmetRequirement
}

// Access turns a verification result into an access decision.
type Access struct {
	log     *zap.Logger
	content *ContentStore
}

func NewAccess(lc fx.Lifecycle, log *zap.Logger, content *ContentStore) *Access {
	return &Access{log, content}
}

// Decide unlocks when all requirements are satisfied. With no reward
// configured the decision is still unlocked, just without content; the caller
// shows a generic congratulations.
func (a *Access) Decide(ctx context.Context, res *VerificationResult) (*Decision, error) {
	if !res.AllSatisfied {
		return &Decision{Remediation: res.Unmet}, nil
	}

	reward, err := a.content.Active(ctx)
	if err != nil {
		return nil, err
	}
	return &Decision{Unlocked: true, Reward: reward}, nil
}
