package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ashishkaushik/leazzy/internal/common"
)

type contextKey int

const userIDKey contextKey = iota

// UserID returns the authenticated user id stored in ctx by RequireAuth,
// or "" when the request was not authenticated.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID returns a child context carrying the user id. Exposed for
// handler tests that bypass the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireAuth verifies the bearer token on every request and stores the user
// id in the request context. Requests without a valid token get 401; expired
// tokens get a distinguishable message so clients know to refresh.
func RequireAuth(secretKey string, unauthorized func(w http.ResponseWriter, msg string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)
			if !strings.HasPrefix(header, common.BearerPrefix) {
				unauthorized(w, common.ErrorUnauthorized.Error())
				return
			}

			userID, err := GetUserIDFromToken(secretKey, strings.TrimPrefix(header, common.BearerPrefix))
			if err != nil {
				unauthorized(w, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
