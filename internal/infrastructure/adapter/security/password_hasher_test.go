package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func legacy(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, false)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	ok, err := h.Verify(hash, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(hash, "secret2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, false)

	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_Legacy(t *testing.T) {
	stored := legacy("secret1")

	t.Run("accepted when enabled", func(t *testing.T) {
		h := NewBcryptHasher(bcrypt.MinCost, true)

		ok, err := h.Verify(stored, "secret1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = h.Verify(stored, "wrong!")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejected when disabled", func(t *testing.T) {
		h := NewBcryptHasher(bcrypt.MinCost, false)

		ok, err := h.Verify(stored, "secret1")
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrUnsupportedHash)
	})
}

func TestBcryptHasher_NeedsRehash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, true)

	current, err := h.Hash("secret1")
	require.NoError(t, err)
	older, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost+1)
	require.NoError(t, err)

	assert.False(t, h.NeedsRehash(current))
	assert.True(t, h.NeedsRehash(string(older)))
	assert.True(t, h.NeedsRehash(legacy("secret1")))
	assert.False(t, h.NeedsRehash("garbage"))
}

func TestNewBcryptHasher_InvalidCost(t *testing.T) {
	h := NewBcryptHasher(99, false).(*BcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}

func TestBcryptHasher_HashRejectsOverlongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, false)

	_, err := h.Hash(strings.Repeat("a", 73))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValidation)

	hash, err := h.Hash(strings.Repeat("a", 72))
	require.NoError(t, err)
	ok, err := h.Verify(hash, strings.Repeat("a", 72))
	require.NoError(t, err)
	assert.True(t, ok)
}
