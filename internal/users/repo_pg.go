package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PGRepo stores users in Postgres.
type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, full_name, picture_url, google_sub, password_hash, is_premium, usage_count, usage_limit, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, picture_url, google_sub, password_hash, is_premium, usage_count, usage_limit, created_at, updated_at)
VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		nullableString(user.PictureURL),
		nullableString(user.GoogleSub),
		nullableString(user.PasswordHash),
		user.IsPremium,
		user.UsageCount,
		user.UsageLimit,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) UpsertGoogle(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, full_name, picture_url, google_sub, is_premium, usage_count, usage_limit, created_at, updated_at)
VALUES ($1, lower($2), $3, $4, $5, FALSE, 0, $6, now(), now())
ON CONFLICT (email) DO UPDATE SET
  google_sub = EXCLUDED.google_sub,
  picture_url = EXCLUDED.picture_url,
  full_name = CASE WHEN users.full_name = '' THEN EXCLUDED.full_name ELSE users.full_name END,
  updated_at = now()
RETURNING ` + userColumns
	row := r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		nullableString(user.PictureURL),
		nullableString(user.GoogleSub),
		user.UsageLimit,
	)
	return scanUser(row)
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1) LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) IncrementUsage(ctx context.Context, userID string) error {
	const query = `UPDATE users SET usage_count = usage_count + 1, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, userID)
}

func (r *PGRepo) ApplyPremium(ctx context.Context, userID string) error {
	const query = `UPDATE users SET is_premium = TRUE, usage_count = 0, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, userID)
}

func (r *PGRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var pictureURL, googleSub, passwordHash sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&pictureURL,
		&googleSub,
		&passwordHash,
		&user.IsPremium,
		&user.UsageCount,
		&user.UsageLimit,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.PictureURL = pictureURL.String
	user.GoogleSub = googleSub.String
	user.PasswordHash = passwordHash.String
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
