package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/telemetry"
)

const (
	minPasswordLen    = 8
	DefaultUsageLimit = 10
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Sign(sub, email, name string) (string, error)
}

// Session is returned on successful sign-in.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Service struct {
	Repo       Repo
	Tokens     TokenIssuer
	UsageLimit int
	Logger     *zap.Logger
}

func NewService(repo Repo, tokens TokenIssuer, usageLimit int, logger *zap.Logger) *Service {
	if usageLimit <= 0 {
		usageLimit = DefaultUsageLimit
	}
	return &Service{Repo: repo, Tokens: tokens, UsageLimit: usageLimit, Logger: telemetry.OrNop(logger)}
}

// RegisterInput carries a new account's credentials.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// Register creates a free-tier account and signs the user in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return Session{}, err
	}
	if len(in.Password) < minPasswordLen {
		return Session{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		UsageLimit:   s.UsageLimit,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return Session{}, err
	}
	s.Logger.Info("user registered", zap.String("user_id", user.ID))

	created, err := s.Repo.GetByID(ctx, user.ID)
	if err != nil {
		return Session{}, err
	}
	return s.session(created)
}

// Login verifies credentials and signs the user in.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	user, err := s.Repo.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if user.PasswordHash == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(user)
}

// SignInWithGoogle links or creates the account for a verified Google identity.
func (s *Service) SignInWithGoogle(ctx context.Context, sub, email, name, picture string) (Session, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(sub) == "" {
		return Session{}, fmt.Errorf("%w: google subject is required", ErrInvalidInput)
	}
	user, err := s.Repo.UpsertGoogle(ctx, User{
		ID:         uuid.NewString(),
		Email:      normalized,
		FullName:   strings.TrimSpace(name),
		PictureURL: picture,
		GoogleSub:  sub,
		UsageLimit: s.UsageLimit,
	})
	if err != nil {
		return Session{}, err
	}
	return s.session(user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) session(user User) (Session, error) {
	token, err := s.Tokens.Sign(user.ID, user.Email, user.FullName)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: user}, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return strings.ToLower(addr.Address), nil
}
