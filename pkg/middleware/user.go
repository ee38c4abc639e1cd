package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/chris/expense-ledger/pkg/response"
)

type contextKey string

// UserIDKey holds the acting user's id in the request context.
const UserIDKey contextKey = "user_id"

// UserIDHeader carries the acting user. Authentication happens upstream.
const UserIDHeader = "X-User-ID"

// RequireUser rejects requests without an acting user and stores it in the context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			response.Unauthorized(w, UserIDHeader+" header is required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID returns a copy of ctx carrying the acting user.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts the acting user from ctx.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// ActingUser returns the acting user, writing a 401 when the request carries none.
func ActingUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, UserIDHeader+" header is required")
	}
	return userID, ok
}
