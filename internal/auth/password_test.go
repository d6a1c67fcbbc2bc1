package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	// Low costs keep the suite fast; the digest format is identical at
	// every supported work factor.
	for _, cost := range []int{bcrypt.MinCost, bcrypt.MinCost + 1, bcrypt.MinCost + 2} {
		hash, err := HashPassword("sw0rdfish", cost)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"), "digest should be self-describing bcrypt")
		assert.True(t, VerifyPassword(hash, "sw0rdfish"))
		assert.False(t, VerifyPassword(hash, "sw0rdfish "))
		assert.False(t, VerifyPassword(hash, "SW0RDFISH"))
		assert.False(t, VerifyPassword(hash, ""))
	}
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	a, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "each digest embeds a fresh salt")
	assert.True(t, VerifyPassword(a, "same-password"))
	assert.True(t, VerifyPassword(b, "same-password"))
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	// A malformed digest is a verification failure, never a panic or an
	// error the caller has to handle.
	assert.False(t, VerifyPassword("", "pw"))
	assert.False(t, VerifyPassword("not-a-bcrypt-digest", "pw"))
	assert.False(t, VerifyPassword("$2a$10$tooshort", "pw"))
}
