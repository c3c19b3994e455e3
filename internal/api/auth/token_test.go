package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rmarques/go-rest-starter/internal/api"
)

func TestJWTIssuer(t *testing.T) {
	issuer := NewJWTIssuer("test-secret", time.Hour)

	t.Run("SignVerifyRoundTrip", func(t *testing.T) {
		token, err := issuer.Sign("user-id-123", "test@example.com", "user")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := issuer.Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, "user-id-123", claims.Subject)
		assert.Equal(t, "test@example.com", claims.Email)
		assert.Equal(t, "user", claims.Role)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
	})

	t.Run("ExpiredTokenFails", func(t *testing.T) {
		shortLived := NewJWTIssuer("test-secret", time.Millisecond)
		token, err := shortLived.Sign("user-id-123", "test@example.com", "user")
		assert.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = shortLived.Verify(token)
		assert.Error(t, err)
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})

	t.Run("WrongSecretFails", func(t *testing.T) {
		token, err := issuer.Sign("user-id-123", "test@example.com", "user")
		assert.NoError(t, err)

		other := NewJWTIssuer("different-secret", time.Hour)
		_, err = other.Verify(token)
		assert.Error(t, err)
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})

	t.Run("MalformedTokenFails", func(t *testing.T) {
		_, err := issuer.Verify("not.a.token")
		assert.Error(t, err)
		assert.ErrorIs(t, err, api.ErrUnauthenticated)
	})

	t.Run("ZeroExpiryDefaultsToSevenDays", func(t *testing.T) {
		defaulted := NewJWTIssuer("test-secret", 0)
		token, err := defaulted.Sign("user-id-123", "test@example.com", "user")
		assert.NoError(t, err)

		claims, err := defaulted.Verify(token)
		assert.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
	})
}
