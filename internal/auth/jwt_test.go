package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	Configure("test-secret", 60)

	token, err := GenerateToken("user-123", "member")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "user-123", claims.Subject)
}

func TestParseTokenWrongSecret(t *testing.T) {
	Configure("secret-one", 60)
	token, err := GenerateToken("user-123", "admin")
	require.NoError(t, err)

	Configure("secret-two", 60)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	Configure("test-secret", 0)
	token, err := GenerateToken("user-123", "member")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseTokenGarbage(t *testing.T) {
	Configure("test-secret", 60)
	_, err := ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenTTL(t *testing.T) {
	Configure("test-secret", 45)
	assert.Equal(t, 45*time.Minute, TokenTTL())
}
