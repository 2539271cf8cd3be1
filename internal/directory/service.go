package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modern-studios/accounts/internal/shared"
)

// Service handles the administrative user directory.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, repo RepositoryPort) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, repo: repo}
}

// List returns the profile of every user. Store failures are logged and
// surfaced as a store error, never retried here.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.logger.Error("list users", slog.Any("error", err))
		return nil, shared.ErrStore
	}
	profiles := make([]Profile, len(users))
	for i := range users {
		profiles[i] = ProfileOf(&users[i])
	}
	return profiles, nil
}

// GetByEmail returns the full administrative record for the given email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: no user with email %s", shared.ErrNotFound, email)
		}
		s.logger.Error("find user", slog.String("email", email), slog.Any("error", err))
		return nil, shared.ErrStore
	}
	return user, nil
}

// Update applies a partial update to the user identified by email. Email and
// creation timestamp are immutable. Only name fields that are present,
// non-blank, and different from the stored value are written; if nothing
// changes the current profile is returned without a store write.
func (s *Service) Update(ctx context.Context, email string, patch *Patch) (*Profile, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if patch == nil {
		return nil, fmt.Errorf("%w: user details are required", shared.ErrValidation)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: no user with email %s", shared.ErrNotFound, email)
		}
		s.logger.Error("find user for update", slog.String("email", email), slog.Any("error", err))
		return nil, shared.ErrStore
	}

	if patch.Email != nil && strings.TrimSpace(*patch.Email) != "" && *patch.Email != user.Email {
		s.logger.Warn("rejected email change", slog.String("from", user.Email), slog.String("to", *patch.Email))
		return nil, shared.ErrEmailImmutable
	}
	if patch.CreatedAt != nil {
		s.logger.Warn("rejected created-at change", slog.String("email", email))
		return nil, shared.ErrCreatedAtImmutable
	}

	firstName := user.FirstName
	lastName := user.LastName
	changed := false
	if patch.FirstName != nil && strings.TrimSpace(*patch.FirstName) != "" && *patch.FirstName != user.FirstName {
		firstName = *patch.FirstName
		changed = true
	}
	if patch.LastName != nil && strings.TrimSpace(*patch.LastName) != "" && *patch.LastName != user.LastName {
		lastName = *patch.LastName
		changed = true
	}

	if !changed {
		profile := ProfileOf(user)
		return &profile, nil
	}

	updated, err := s.repo.UpdateNames(ctx, email, firstName, lastName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: no user with email %s", shared.ErrNotFound, email)
		}
		s.logger.Error("update user", slog.String("email", email), slog.Any("error", err))
		return nil, shared.ErrStore
	}
	profile := ProfileOf(updated)
	return &profile, nil
}
