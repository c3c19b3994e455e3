package appMiddleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rmarques/go-rest-starter/internal/api"
	"github.com/rmarques/go-rest-starter/internal/api/auth"
)

// Authenticate extracts the bearer token, verifies it through the token
// issuer and attaches the subject, email and role to the request context.
// Every verification failure is a plain 401.
func Authenticate(issuer auth.TokenIssuer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				http.Error(w, "Authorization header format must be Bearer {token}", http.StatusUnauthorized)
				return
			}

			claims, err := issuer.Verify(headerParts[1])
			if err != nil {
				logger.DebugContext(r.Context(), "Token verification failed", slog.Any("error", err))
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), api.UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, api.UserEmailKey, claims.Email)
			ctx = context.WithValue(ctx, api.UserRoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose token role does not
// match. Must run after Authenticate.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := api.GetUserRoleFromContext(r.Context())
			if !ok || userRole != role {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
