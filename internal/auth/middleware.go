package auth

import (
	"context"
	"net/http"
)

type contextKey string

const adminKey contextKey = "admin"

// Middleware guards admin routes: a valid session token must be presented
// as a bearer token.
func (a *Admin) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			subject, err := a.VerifyToken(tokenString)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminUser returns the authenticated admin username, if any.
func AdminUser(ctx context.Context) string {
	if admin, ok := ctx.Value(adminKey).(string); ok {
		return admin
	}
	return ""
}
