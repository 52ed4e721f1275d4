package core

import (
	"context"
	"net/http"

	"github.com/margdarshak/margdarshak/db"
)

// contextKey is a type for context keys
type contextKey string

const userKey contextKey = "user"

// UserFromContext returns the authenticated user stored by RequireAuth.
func UserFromContext(ctx context.Context) (*db.User, bool) {
	user, ok := ctx.Value(userKey).(*db.User)
	return user, ok
}

// RequireAuth middleware authenticates the request and stores the user in
// the request context. Unauthenticated requests never reach the handler.
func (a *App) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err, resp := a.authenticator.Authenticate(r)
		if err != nil {
			writeJsonError(w, resp)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
