package payments

import "context"

// Repo persists transactions.
type Repo interface {
	Create(ctx context.Context, tx Transaction) error
	GetBySession(ctx context.Context, sessionID string) (Transaction, error)
	UpdateStatus(ctx context.Context, sessionID, status, paymentStatus string) error
	// MarkPaidAndUpgrade flips the transaction to paid and grants premium to
	// its user as one unit. It reports false, and changes nothing, when the
	// transaction was already paid.
	MarkPaidAndUpgrade(ctx context.Context, sessionID string) (bool, error)
}
