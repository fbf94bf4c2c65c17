package payments

import "context"

// CheckoutParams describes a one-off hosted checkout.
type CheckoutParams struct {
	AmountCents   int64
	Currency      string
	ProductName   string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	ClientRef     string
	Metadata      map[string]string
}

// CheckoutSession is the provider's view of a session.
type CheckoutSession struct {
	ID            string            `json:"session_id"`
	URL           string            `json:"url,omitempty"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

// Paid reports whether the provider considers the session paid.
func (s CheckoutSession) Paid() bool { return s.PaymentStatus == PaymentPaid }

// WebhookEvent is a verified provider event.
type WebhookEvent struct {
	ID      string
	Type    string
	Session *CheckoutSession
}

// Checkout is the payment provider.
type Checkout interface {
	CreateSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (CheckoutSession, error)
	// ParseWebhook verifies the signature header and decodes the event.
	ParseWebhook(payload []byte, signature string) (WebhookEvent, error)
}
