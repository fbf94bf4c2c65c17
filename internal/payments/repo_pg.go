package payments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, tx Transaction) error {
	metadata, err := json.Marshal(tx.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	const query = `
INSERT INTO payment_transactions (id, user_id, session_id, amount_cents, currency, status, payment_status, metadata, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.DB.ExecContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.SessionID,
		tx.AmountCents,
		tx.Currency,
		tx.Status,
		tx.PaymentStatus,
		metadata,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetBySession(ctx context.Context, sessionID string) (Transaction, error) {
	const query = `
SELECT id, user_id, session_id, amount_cents, currency, status, payment_status, metadata, created_at, updated_at
FROM payment_transactions
WHERE session_id = $1`
	var tx Transaction
	var metadata []byte
	err := r.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&tx.ID,
		&tx.UserID,
		&tx.SessionID,
		&tx.AmountCents,
		&tx.Currency,
		&tx.Status,
		&tx.PaymentStatus,
		&metadata,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
			return Transaction{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return tx, nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, sessionID, status, paymentStatus string) error {
	const query = `
UPDATE payment_transactions SET status = $2, payment_status = $3, updated_at = now()
WHERE session_id = $1 AND payment_status <> 'paid'`
	_, err := r.DB.ExecContext(ctx, query, sessionID, status, paymentStatus)
	return err
}

// MarkPaidAndUpgrade runs the conditional flip and the user upgrade in one
// transaction. Concurrent deliveries of the same event serialize on the
// transaction row; only the one that flips it upgrades the user.
func (r *PGRepo) MarkPaidAndUpgrade(ctx context.Context, sessionID string) (bool, error) {
	won := false
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		const flip = `
UPDATE payment_transactions SET status = 'completed', payment_status = 'paid', updated_at = now()
WHERE session_id = $1 AND payment_status <> 'paid'
RETURNING user_id`
		var userID string
		if err := tx.QueryRowContext(ctx, flip, sessionID).Scan(&userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		const upgrade = `UPDATE users SET is_premium = TRUE, usage_count = 0, updated_at = now() WHERE id = $1`
		if _, err := tx.ExecContext(ctx, upgrade, userID); err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}
