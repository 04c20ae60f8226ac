package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, IsBcryptHash(hash))

	ok, upgrade := VerifyPassword(hash, "secret1")
	assert.True(t, ok)
	assert.False(t, upgrade)

	ok, _ = VerifyPassword(hash, "wrong")
	assert.False(t, ok)

	ok, upgrade = VerifyPassword("legacy-plain", "legacy-plain")
	assert.True(t, ok)
	assert.True(t, upgrade)

	ok, _ = VerifyPassword("", "")
	assert.False(t, ok)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, exp, err := NewSessionToken("s3cret", "sess-1", "admin@wizhomes.com", "Admin", true, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := ParseSessionToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, "admin@wizhomes.com", claims.Subject)
	assert.True(t, claims.IsAdmin)

	_, err = ParseSessionToken("other", tok)
	assert.Error(t, err)
}

func TestExpiredSessionToken(t *testing.T) {
	tok, _, err := NewSessionToken("s3cret", "sess-1", "a@b.co", "A", false, -time.Minute)
	require.NoError(t, err)
	claims, err := ParseSessionToken("s3cret", tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
	require.NotNil(t, claims)
	assert.Equal(t, "sess-1", claims.ID)

	claims, err = ParseSessionToken("forged", tok)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a*a@e******.com", MaskEmail("ada@example.com"))
	assert.Equal(t, "j*@w*******.co.uk", MaskEmail(" jo@wizhomes.co.uk "))
	assert.Equal(t, "x@h***.io", MaskEmail("x@host.io"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
}
