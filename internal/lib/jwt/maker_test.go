package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaker() *MakerImpl {
	return NewMaker("test-secret-key", time.Hour, 24*time.Hour)
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	maker := newTestMaker()

	token, err := maker.GenerateAccessToken("550e8400-e29b-41d4-a716-446655440000", "testuser", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", claims.Subject)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestGenerateRefreshToken_Type(t *testing.T) {
	maker := newTestMaker()

	token, err := maker.GenerateRefreshToken("550e8400-e29b-41d4-a716-446655440000", "testuser", "user")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestParseToken_Expired(t *testing.T) {
	maker := NewMaker("test-secret-key", -time.Minute, 24*time.Hour)

	token, err := maker.GenerateAccessToken("uid", "testuser", "user")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	maker := newTestMaker()
	other := NewMaker("another-secret", time.Hour, 24*time.Hour)

	token, err := maker.GenerateAccessToken("uid", "testuser", "user")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseToken_Garbage(t *testing.T) {
	maker := newTestMaker()

	_, err := maker.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
