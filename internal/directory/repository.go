package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modern-studios/accounts/internal/platform/db"
	"github.com/modern-studios/accounts/internal/shared"
)

// RepositoryPort defines data access methods for the directory.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateNames(ctx context.Context, email, firstName, lastName string) (*User, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns all users ordered by creation time.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, first_name, last_name, created_at, updated_at
		FROM users ORDER BY created_at, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByEmail fetches a user by exact email match.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, created_at, updated_at
		FROM users WHERE email = $1`, email)
	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateNames persists new name fields and bumps the update timestamp. The
// row is locked and rewritten inside one transaction so concurrent updates
// to the same user serialize instead of overwriting each other.
func (r *Repository) UpdateNames(ctx context.Context, email, firstName, lastName string) (*User, error) {
	var user User
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1 FOR UPDATE`, email).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		row := tx.QueryRow(ctx, `
			UPDATE users SET first_name = $1, last_name = $2, updated_at = now()
			WHERE id = $3
			RETURNING id, email, first_name, last_name, created_at, updated_at`,
			firstName, lastName, id)
		return row.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

var _ RepositoryPort = (*Repository)(nil)
