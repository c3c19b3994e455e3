package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("HashAndVerify", func(t *testing.T) {
		digest, err := hasher.Hash("secret123")
		assert.NoError(t, err)
		assert.NotEqual(t, "secret123", digest)
		assert.True(t, hasher.Verify("secret123", digest))
	})

	t.Run("WrongPasswordFails", func(t *testing.T) {
		digest, err := hasher.Hash("secret123")
		assert.NoError(t, err)
		assert.False(t, hasher.Verify("wrong", digest))
	})

	t.Run("HashIsSalted", func(t *testing.T) {
		first, err := hasher.Hash("secret123")
		assert.NoError(t, err)
		second, err := hasher.Hash("secret123")
		assert.NoError(t, err)

		// Distinct salts make the digests differ while both still verify.
		assert.NotEqual(t, first, second)
		assert.True(t, hasher.Verify("secret123", first))
		assert.True(t, hasher.Verify("secret123", second))
	})

	t.Run("MalformedDigestFails", func(t *testing.T) {
		assert.False(t, hasher.Verify("secret123", "not-a-bcrypt-digest"))
	})

	t.Run("OutOfRangeCostFallsBack", func(t *testing.T) {
		h := NewBcryptHasher(99)
		digest, err := h.Hash("secret123")
		assert.NoError(t, err)
		assert.True(t, h.Verify("secret123", digest))
	})
}
