package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/todolist/internal/domain"
	"github.com/msomdec/todolist/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// OptionalAuth resolves the bearer credential, if any, and injects the user
// into the request context. Anonymous requests pass through unchanged; only
// a failing user lookup stops the request.
func OptionalAuth(accounts *service.AccountService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := accounts.ResolveIdentity(r.Context(), bearerToken(r))
		if err != nil {
			slog.ErrorContext(r.Context(), "resolve identity", "error", err, "request_id", RequestIDFromContext(r.Context()))
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
			return
		}
		if user != nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth protects routes requiring authentication. It answers 401 when
// the request carries no credential that resolves to a user.
func RequireAuth(accounts *service.AccountService, next http.Handler) http.Handler {
	return OptionalAuth(accounts, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// bearerToken returns the credential from an "Authorization: Bearer" header,
// or "" when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
