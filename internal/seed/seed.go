// Package seed loads sample users on application startup. Registration goes
// through the authentication service so hashing and duplicate checks apply.
package seed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modern-studios/accounts/internal/auth"
	"github.com/modern-studios/accounts/internal/shared"
)

type sampleUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

var sampleUsers = []sampleUser{
	{Email: "admin@todolist.com", Password: "admin123", FirstName: "Admin", LastName: "User"},
	{Email: "john.doe@todolist.com", Password: "password123", FirstName: "John", LastName: "Doe"},
}

// Registrar covers the signup operation the loader depends on.
type Registrar interface {
	SignUp(ctx context.Context, email, password, firstName, lastName string) (*auth.User, error)
}

// Run registers the sample users, skipping accounts that already exist.
func Run(ctx context.Context, logger *slog.Logger, registrar Registrar) {
	if logger == nil {
		logger = slog.Default()
	}

	created, skipped := 0, 0
	for _, sample := range sampleUsers {
		_, err := registrar.SignUp(ctx, sample.Email, sample.Password, sample.FirstName, sample.LastName)
		switch {
		case err == nil:
			logger.Info("sample user created", slog.String("email", sample.Email))
			created++
		case errors.Is(err, shared.ErrDuplicateEmail):
			logger.Info("sample user already exists, skipping", slog.String("email", sample.Email))
			skipped++
		default:
			logger.Error("create sample user", slog.String("email", sample.Email), slog.Any("error", err))
		}
	}
	logger.Info("sample data loading complete", slog.Int("created", created), slog.Int("skipped", skipped))
}
