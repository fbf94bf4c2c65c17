package users

import (
	"context"
	"errors"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
)

// Repo persists accounts. IncrementUsage and ApplyPremium are single atomic
// updates so concurrent requests serialize in the store.
type Repo interface {
	Create(ctx context.Context, user User) error
	UpsertGoogle(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	IncrementUsage(ctx context.Context, userID string) error
	ApplyPremium(ctx context.Context, userID string) error
}
