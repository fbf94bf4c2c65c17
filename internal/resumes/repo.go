package resumes

import "context"

// Repo persists resumes. Every read and write is scoped to the owning user;
// a resume owned by someone else behaves as missing.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	// CreateMany stores all resumes or none.
	CreateMany(ctx context.Context, resumes []Resume) error
	Get(ctx context.Context, userID, resumeID string) (Resume, error)
	List(ctx context.Context, userID string, limit int) ([]Resume, error)
	Update(ctx context.Context, resume Resume) error
	Delete(ctx context.Context, userID, resumeID string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
