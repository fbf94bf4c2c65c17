package payments

import (
	"context"
	"sync"
	"time"
)

// PremiumSetter grants premium to a user.
type PremiumSetter interface {
	ApplyPremium(ctx context.Context, userID string) error
}

type MemoryRepo struct {
	mu      sync.Mutex
	txs     map[string]Transaction
	premium PremiumSetter
}

func NewMemoryRepo(premium PremiumSetter) *MemoryRepo {
	return &MemoryRepo{txs: make(map[string]Transaction), premium: premium}
}

func (r *MemoryRepo) Create(ctx context.Context, tx Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs[tx.SessionID] = tx
	return nil
}

func (r *MemoryRepo) GetBySession(ctx context.Context, sessionID string) (Transaction, error) {
	if err := ctx.Err(); err != nil {
		return Transaction{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[sessionID]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, sessionID, status, paymentStatus string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[sessionID]
	if !ok {
		return ErrNotFound
	}
	if tx.PaymentStatus == PaymentPaid {
		return nil
	}
	tx.Status = status
	tx.PaymentStatus = paymentStatus
	tx.UpdatedAt = time.Now().UTC()
	r.txs[sessionID] = tx
	return nil
}

func (r *MemoryRepo) MarkPaidAndUpgrade(ctx context.Context, sessionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[sessionID]
	if !ok {
		return false, ErrNotFound
	}
	if tx.PaymentStatus == PaymentPaid {
		return false, nil
	}
	if err := r.premium.ApplyPremium(ctx, tx.UserID); err != nil {
		return false, err
	}
	tx.Status = StatusCompleted
	tx.PaymentStatus = PaymentPaid
	tx.UpdatedAt = time.Now().UTC()
	r.txs[sessionID] = tx
	return true, nil
}
