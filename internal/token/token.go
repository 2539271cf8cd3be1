// Package token mints and validates the signed bearer tokens handed out at
// login, and tracks tokens revoked ahead of their natural expiry.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/modern-studios/accounts/internal/shared"
)

const issuerName = "accounts"

// Claims carries the identity bound to a token alongside the registered claim set.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues, validates, and invalidates signed bearer tokens.
type Service struct {
	secret  []byte
	ttl     time.Duration
	revoked *RevocationSet
	now     func() time.Time
}

// NewService constructs a Service. The revocation set may be nil, in which
// case tokens can only expire naturally.
func NewService(secret string, ttl time.Duration, revoked *RevocationSet) *Service {
	return &Service{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue produces a signed token binding the given user identity to an expiry.
func (s *Service) Issue(userID, email string) (string, error) {
	now := s.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Validate checks signature, expiry, and revocation, returning the identity
// the token proves. Any verification failure maps to ErrUnauthenticated.
func (s *Service) Validate(ctx context.Context, raw string) (*shared.Identity, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	if s.revoked != nil {
		revoked, err := s.revoked.Contains(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("token: revocation lookup: %w", err)
		}
		if revoked {
			return nil, shared.ErrUnauthenticated
		}
	}
	return &shared.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// Invalidate marks the token as revoked until its natural expiry. Invalidating
// twice, or invalidating an already-expired token, is a no-op.
func (s *Service) Invalidate(ctx context.Context, raw string) error {
	claims, err := s.parse(raw)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return shared.ErrUnauthenticated
	}
	if s.revoked == nil || claims.ExpiresAt == nil {
		return nil
	}
	remaining := claims.ExpiresAt.Time.Sub(s.now())
	if remaining <= 0 {
		return nil
	}
	if err := s.revoked.Add(ctx, claims.ID, remaining); err != nil {
		return fmt.Errorf("token: revoke: %w", err)
	}
	return nil
}

func (s *Service) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
