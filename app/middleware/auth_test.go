package appMiddleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rmarques/go-rest-starter/internal/api"
	"github.com/rmarques/go-rest-starter/internal/api/auth"
)

func TestAuthenticate(t *testing.T) {
	issuer := auth.NewJWTIssuer("test-secret", time.Hour)
	logger := slog.Default()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := api.GetUserIDFromContext(r.Context())
		email, _ := api.GetUserEmailFromContext(r.Context())
		role, _ := api.GetUserRoleFromContext(r.Context())
		w.Header().Set("X-User-ID", userID)
		w.Header().Set("X-User-Email", email)
		w.Header().Set("X-User-Role", role)
		w.WriteHeader(http.StatusOK)
	})
	protected := Authenticate(issuer, logger)(okHandler)

	t.Run("ValidToken", func(t *testing.T) {
		token, err := issuer.Sign("user-id-123", "a@x.com", "user")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-id-123", w.Header().Get("X-User-ID"))
		assert.Equal(t, "a@x.com", w.Header().Get("X-User-Email"))
		assert.Equal(t, "user", w.Header().Get("X-User-Role"))
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("BadHeaderFormat", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		shortLived := auth.NewJWTIssuer("test-secret", time.Millisecond)
		token, err := shortLived.Sign("user-id-123", "a@x.com", "user")
		assert.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		Authenticate(shortLived, logger)(okHandler).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	issuer := auth.NewJWTIssuer("test-secret", time.Hour)
	logger := slog.Default()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminOnly := Authenticate(issuer, logger)(RequireRole("admin")(okHandler))

	t.Run("AdminAllowed", func(t *testing.T) {
		token, err := issuer.Sign("admin-id", "admin@x.com", "admin")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		adminOnly.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("UserForbidden", func(t *testing.T) {
		token, err := issuer.Sign("user-id", "a@x.com", "user")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		adminOnly.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
