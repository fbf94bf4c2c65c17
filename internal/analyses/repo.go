package analyses

import "context"

// Repo persists analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	Get(ctx context.Context, userID, analysisID string) (Analysis, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error)
	StatsByUser(ctx context.Context, userID string) (Stats, error)
}
