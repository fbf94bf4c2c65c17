package payments

import (
	"errors"
	"time"
)

const (
	StatusInitiated = "initiated"
	StatusCompleted = "completed"

	PaymentPending = "pending"
	PaymentPaid    = "paid"

	ProductPremium = "premium_subscription"
)

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrNotConfigured    = errors.New("payments not configured")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Transaction records one checkout attempt. PaymentStatus only moves to
// paid once; that flip is what grants premium.
type Transaction struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	SessionID     string            `json:"session_id"`
	AmountCents   int64             `json:"amount_cents"`
	Currency      string            `json:"currency"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
