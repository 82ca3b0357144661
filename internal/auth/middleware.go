package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/httputil"
)

type contextKey string

const (
	AdminIDKey contextKey = "admin_id"
	EmailKey   contextKey = "email"
)

// Middleware rejects requests without a valid "Authorization: Bearer" token and
// stores the token claims in the request context.
func Middleware(issuer *TokenIssuer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(r.Context(), "no bearer token", "path", r.URL.Path)
				httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := issuer.Validate(token)
			if err != nil {
				logger.WarnContext(r.Context(), "invalid token", "error", err)
				httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			adminID, err := claims.AdminID()
			if err != nil {
				httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), AdminIDKey, adminID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetAdminID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(AdminIDKey).(int64)
	return id, ok
}

func GetEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}
