package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

const (
	DefaultPriceCents = 1999
	DefaultCurrency   = "usd"
	productName       = "Premium"
)

type Service struct {
	Repo       Repo
	Checkout   Checkout
	PriceCents int64
	Currency   string
	// PublicURL is the UI origin for redirect URLs; the request origin is used when empty.
	PublicURL string
	Logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repo, checkout Checkout, priceCents int64, currency, publicURL string, logger *zap.Logger) *Service {
	if priceCents <= 0 {
		priceCents = DefaultPriceCents
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Service{
		Repo:       repo,
		Checkout:   checkout,
		PriceCents: priceCents,
		Currency:   strings.ToLower(currency),
		PublicURL:  strings.TrimRight(publicURL, "/"),
		Logger:     telemetry.OrNop(logger),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CheckoutResult is returned to the client to redirect to the hosted page.
type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// CreateCheckout opens a checkout session for the premium package and records
// a pending transaction for it.
func (s *Service) CreateCheckout(ctx context.Context, user users.User, origin string) (CheckoutResult, error) {
	if s.Checkout == nil {
		return CheckoutResult{}, ErrNotConfigured
	}
	base := s.PublicURL
	if base == "" {
		base = strings.TrimRight(origin, "/")
	}
	metadata := map[string]string{
		"user_id": user.ID,
		"product": ProductPremium,
	}
	sess, err := s.Checkout.CreateSession(ctx, CheckoutParams{
		AmountCents:   s.PriceCents,
		Currency:      s.Currency,
		ProductName:   productName,
		SuccessURL:    base + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     base + "/pricing",
		CustomerEmail: user.Email,
		ClientRef:     user.ID,
		Metadata:      metadata,
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	now := s.now()
	if err := s.Repo.Create(ctx, Transaction{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		SessionID:     sess.ID,
		AmountCents:   s.PriceCents,
		Currency:      s.Currency,
		Status:        StatusInitiated,
		PaymentStatus: PaymentPending,
		Metadata:      metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		return CheckoutResult{}, fmt.Errorf("save transaction: %w", err)
	}
	s.Logger.Info("checkout created", zap.String("user_id", user.ID), zap.String("session_id", sess.ID))
	return CheckoutResult{URL: sess.URL, SessionID: sess.ID}, nil
}

// Status polls the provider for a session owned by the user and applies the
// upgrade when it is paid.
func (s *Service) Status(ctx context.Context, userID, sessionID string) (CheckoutSession, error) {
	if s.Checkout == nil {
		return CheckoutSession{}, ErrNotConfigured
	}
	tx, err := s.Repo.GetBySession(ctx, sessionID)
	if err != nil {
		return CheckoutSession{}, err
	}
	if tx.UserID != userID {
		return CheckoutSession{}, ErrNotFound
	}
	sess, err := s.Checkout.GetSession(ctx, sessionID)
	if err != nil {
		return CheckoutSession{}, err
	}
	if sess.Paid() {
		if _, err := s.applyPaid(ctx, sessionID, "status"); err != nil {
			return CheckoutSession{}, err
		}
	} else if sess.Status == "expired" {
		if err := s.Repo.UpdateStatus(ctx, sessionID, "expired", tx.PaymentStatus); err != nil {
			return CheckoutSession{}, err
		}
	}
	return sess, nil
}

// HandleWebhook verifies and applies a provider event. Events for sessions
// that are not paid, or that this service never created, are acknowledged
// without effect.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.Checkout == nil {
		return ErrNotConfigured
	}
	event, err := s.Checkout.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	if event.Session == nil || !event.Session.Paid() {
		s.Logger.Debug("webhook ignored", zap.String("event_id", event.ID), zap.String("type", event.Type))
		return nil
	}
	_, err = s.applyPaid(ctx, event.Session.ID, "webhook")
	if errors.Is(err, ErrNotFound) {
		s.Logger.Warn("webhook for unknown session", zap.String("event_id", event.ID), zap.String("session_id", event.Session.ID))
		return nil
	}
	return err
}

func (s *Service) applyPaid(ctx context.Context, sessionID, source string) (bool, error) {
	if _, err := s.Repo.GetBySession(ctx, sessionID); err != nil {
		return false, err
	}
	won, err := s.Repo.MarkPaidAndUpgrade(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("apply premium upgrade: %w", err)
	}
	if won {
		metrics.IncPremiumUpgrade()
		s.Logger.Info("premium upgrade applied", zap.String("session_id", sessionID), zap.String("source", source))
	}
	return won, nil
}
