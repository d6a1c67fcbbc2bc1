package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jondawson917/snappycamper/internal/apperr"
)

func TestTokenRoundTrip(t *testing.T) {
	ts := NewTokenService("test-secret", 15)

	for _, tc := range []struct {
		username string
		isAdmin  bool
	}{
		{"alice", false},
		{"bulworth", true},
	} {
		token, err := ts.Issue(tc.username, tc.isAdmin)
		require.NoError(t, err)

		claims, err := ts.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, tc.username, claims.Username)
		assert.Equal(t, tc.isAdmin, claims.IsAdmin)
		assert.NotNil(t, claims.ExpiresAt)
		assert.NotNil(t, claims.IssuedAt)
	}
}

func TestTokenTampered(t *testing.T) {
	ts := NewTokenService("test-secret", 15)
	token, err := ts.Issue("alice", false)
	require.NoError(t, err)

	// Every possible substitution of the last signature byte must fail,
	// including alphabet characters that differ from the original only in the
	// unused trailing bits of the final base64url group.
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	b := []byte(token)
	last := b[len(b)-1]
	for _, r := range alphabet + "!=." {
		if byte(r) == last {
			continue
		}
		b[len(b)-1] = byte(r)
		claims, err := ts.Verify(string(b))
		require.Error(t, err, "last byte %q -> %q must not verify", last, r)
		assert.Nil(t, claims)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-one", 15)
	verifier := NewTokenService("secret-two", 15)

	token, err := issuer.Issue("alice", true)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "signature")
}

func TestTokenExpired(t *testing.T) {
	ts := NewTokenService("test-secret", -1) // already expired at issue time
	token, err := ts.Issue("alice", false)
	require.NoError(t, err)

	_, err = ts.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenMalformed(t *testing.T) {
	ts := NewTokenService("test-secret", 15)
	for _, garbage := range []string{"", "not.a.jwt", "abc"} {
		_, err := ts.Verify(garbage)
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	}
}
