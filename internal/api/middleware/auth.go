package middleware

import (
	"context"
	"net/http"

	"github.com/pankhokiudaan/server/internal/api/respond"
	"github.com/pankhokiudaan/server/internal/auth"
	"github.com/pankhokiudaan/server/internal/domain/admins"
)

const adminKey contextKey = "admin"

// TokenVerifier resolves a bearer token to an active admin.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (admins.Summary, error)
}

// RequireAdmin rejects requests without a valid bearer token for an active
// admin. The handler is never called on failure.
func RequireAdmin(verifier TokenVerifier, responder respond.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _ := auth.TokenFromHeader(r.Header.Get("Authorization"))
			admin, err := verifier.Verify(r.Context(), token)
			if err != nil {
				responder.Error(w, r, err, "Token verification failed")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), admin)))
		})
	}
}

// OptionalAdmin attaches the admin when a valid token is present and lets
// the request through either way.
func OptionalAdmin(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err == nil {
				if admin, err := verifier.Verify(r.Context(), token); err == nil {
					r = r.WithContext(WithAdmin(r.Context(), admin))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithAdmin(ctx context.Context, admin admins.Summary) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

// AdminFromContext returns the admin attached by RequireAdmin or
// OptionalAdmin.
func AdminFromContext(ctx context.Context) (admins.Summary, bool) {
	admin, ok := ctx.Value(adminKey).(admins.Summary)
	return admin, ok
}
