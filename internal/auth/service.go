package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/modern-studios/accounts/internal/shared"
)

const passwordResetMessage = "Password has been successfully reset"

// TokenInvalidator covers the token operations logout depends on.
type TokenInvalidator interface {
	Validate(ctx context.Context, raw string) (*shared.Identity, error)
	Invalidate(ctx context.Context, raw string) error
}

// EventCounter is the narrow counting surface a prometheus.Counter satisfies.
type EventCounter interface {
	Inc()
}

// Service orchestrates signup, login, password reset, and logout.
type Service struct {
	logger        *slog.Logger
	repo          Repository
	hasher        Hasher
	tokens        TokenInvalidator
	registrations EventCounter
}

// NewService constructs a new Service.
func NewService(logger *slog.Logger, repo Repository, hasher Hasher, tokens TokenInvalidator) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, repo: repo, hasher: hasher, tokens: tokens}
}

// SetRegistrationCounter installs a counter incremented on each successful
// signup. A nil counter disables counting.
func (s *Service) SetRegistrationCounter(c EventCounter) {
	s.registrations = c
}

// SignUp registers a new user. The email comparison is case-sensitive exact
// match; the existence pre-check is only an optimisation and the store's
// unique constraint remains the authoritative duplicate signal.
func (s *Service) SignUp(ctx context.Context, email, password, firstName, lastName string) (*User, error) {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("check email existence", slog.String("email", email), slog.Any("error", err))
		return nil, shared.ErrStore
	}
	if exists {
		return nil, shared.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrDuplicateEmail) {
			return nil, shared.ErrDuplicateEmail
		}
		s.logger.Error("create user", slog.String("email", email), slog.Any("error", err))
		return nil, shared.ErrStore
	}
	if s.registrations != nil {
		s.registrations.Inc()
	}
	return user, nil
}

// Authenticate verifies email/password credentials and returns the stored
// user. Token minting is a separate step performed by the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, shared.ErrInvalidCredentials
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		s.logger.Error("find user", slog.String("email", email), slog.Any("error", err))
		return nil, shared.ErrStore
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// ResetPassword re-hashes and persists a new password for the user. Knowledge
// of the account email is the only proof required, mirroring the product's
// current forgot-password behaviour.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.ErrNotFound
		}
		s.logger.Error("find user for reset", slog.String("email", email), slog.Any("error", err))
		return "", shared.ErrStore
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdatePassword(ctx, email, hash); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.ErrNotFound
		}
		s.logger.Error("update password", slog.String("email", email), slog.Any("error", err))
		return "", shared.ErrStore
	}
	return passwordResetMessage, nil
}

// Logout invalidates the presented bearer token. The token is an explicit
// argument; there is no ambient session state.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return shared.ErrUnauthenticated
	}
	if _, err := s.tokens.Validate(ctx, rawToken); err != nil {
		if errors.Is(err, shared.ErrUnauthenticated) {
			return shared.ErrUnauthenticated
		}
		s.logger.Error("validate token for logout", slog.Any("error", err))
		return shared.ErrStore
	}
	if err := s.tokens.Invalidate(ctx, rawToken); err != nil {
		s.logger.Error("invalidate token", slog.Any("error", err))
		return shared.ErrStore
	}
	return nil
}
