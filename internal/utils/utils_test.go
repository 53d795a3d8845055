package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	at, err := NewAccessToken("secret", "operator@cinema.local", "OPERATOR", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)

	claims, err := ParseAccessToken("secret", at.Token)
	require.NoError(t, err)
	assert.Equal(t, "operator@cinema.local", claims.Subject)
	assert.Equal(t, "OPERATOR", claims.Role)
	assert.WithinDuration(t, at.Exp, claims.ExpiresAt.Time, 1e9)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	at, err := NewAccessToken("secret", "op", "OPERATOR", 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("other-secret", at.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewAccessToken("secret", "op", "OPERATOR", -1)
	require.NoError(t, err)
	_, err = ParseAccessToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("secret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_RejectsNoneAlgorithm(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "op", "role": "OPERATOR", "exp": 4102444800})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter2"))

	_, err = HashPassword("", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}
