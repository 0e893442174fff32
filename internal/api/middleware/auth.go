package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jpmelanson/turnbase/internal/api/apierr"
	"github.com/jpmelanson/turnbase/internal/model"
	"github.com/jpmelanson/turnbase/internal/token"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Auth creates authentication middleware for state-mutating routes.
// An unverifiable credential is treated the same as an absent one: the
// caller is anonymous, and anonymous callers may not mutate state.
func Auth(verifier *token.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractCredential(r)
			if raw == "" {
				apierr.WriteError(w, apierr.NewForbiddenError())
				return
			}

			identity, err := verifier.Verify(raw)
			if err != nil {
				apierr.WriteError(w, apierr.NewForbiddenError())
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the identity if a valid credential is present,
// degrading anything else to anonymous.
func OptionalAuth(verifier *token.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := extractCredential(r); raw != "" {
				if identity, err := verifier.Verify(raw); err == nil {
					ctx := context.WithValue(r.Context(), identityContextKey, identity)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractCredential extracts the bearer credential from the request
func extractCredential(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetIdentity returns the authenticated identity from the request context,
// or nil for anonymous callers
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}

// MustGetIdentity returns the authenticated identity or panics
func MustGetIdentity(ctx context.Context) *model.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - auth middleware not applied?")
	}
	return identity
}
