package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modern-studios/accounts/internal/platform/httpx"
	"github.com/modern-studios/accounts/internal/shared"
)

// TokenValidator checks a bearer token and returns the identity it proves.
type TokenValidator interface {
	Validate(ctx context.Context, raw string) (*shared.Identity, error)
}

// RequireToken guards routes behind bearer-token authentication. The token is
// extracted here and the resulting identity injected into the request context;
// downstream code never reads ambient request state.
func RequireToken(logger *slog.Logger, tokens TokenValidator) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			identity, err := tokens.Validate(r.Context(), raw)
			if err != nil {
				if !errors.Is(err, shared.ErrUnauthenticated) {
					logger.Error("validate token", slog.Any("error", err))
				}
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			ctx := shared.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
