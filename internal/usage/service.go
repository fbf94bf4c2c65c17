package usage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

// Accounts is the slice of the user store the gate needs. IncrementUsage must
// be a single atomic update in the store.
type Accounts interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
	IncrementUsage(ctx context.Context, userID string) error
}

// Gate enforces the per-user analysis ceiling. Checking and consuming are
// separate steps so the counter only moves after the AI round has completed.
type Gate struct {
	accounts Accounts
	logger   *zap.Logger
}

func NewGate(accounts Accounts, logger *zap.Logger) *Gate {
	return &Gate{accounts: accounts, logger: telemetry.OrNop(logger)}
}

// Check loads the user and reports ErrLimitReached when a non-premium user
// has used >= limit analyses. It never mutates the counter.
func (g *Gate) Check(ctx context.Context, userID string) (users.User, error) {
	user, err := g.accounts.GetByID(ctx, userID)
	if err != nil {
		return users.User{}, err
	}
	if Allowed(user) {
		return user, nil
	}
	metrics.IncAnalysisDenied()
	g.logger.Info("analysis denied",
		zap.String("user_id", user.ID),
		zap.Int("used", user.UsageCount),
		zap.Int("limit", user.UsageLimit),
	)
	return user, ErrLimitReached
}

// Consume records one completed analysis for the user.
func (g *Gate) Consume(ctx context.Context, userID string) error {
	if err := g.accounts.IncrementUsage(ctx, userID); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

// Get returns the current usage snapshot.
func (g *Gate) Get(ctx context.Context, userID string) (Usage, error) {
	user, err := g.accounts.GetByID(ctx, userID)
	if err != nil {
		return Usage{}, err
	}
	return FromUser(user), nil
}

// Allowed reports whether the user may start another analysis.
func Allowed(u users.User) bool {
	return u.IsPremium || u.UsageCount < u.UsageLimit
}
