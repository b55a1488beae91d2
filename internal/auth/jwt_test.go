package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-key-32-characters"

func newService() *JWTService {
	return NewJWTService(testSecret, 15*time.Minute, 7*24*time.Hour)
}

// ============================================================
// Access tokens
// ============================================================

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newService()

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "user@example.com", "ADMIN")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	token, _, err := newService().GenerateAccessToken("user-1", "user@example.com", "USER")
	require.NoError(t, err)

	other := NewJWTService("a-different-secret-key-32-chars-xx", 15*time.Minute, time.Hour)
	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_Expired(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute, time.Hour)
	token, _, err := svc.GenerateAccessToken("user-1", "user@example.com", "USER")
	require.NoError(t, err)

	_, err = newService().ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAccessToken_Garbage(t *testing.T) {
	_, err := newService().ValidateAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// ============================================================
// Refresh tokens
// ============================================================

func TestRefreshToken_RoundTrip(t *testing.T) {
	svc := newService()

	token, expiresAt, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, 5*time.Second)

	userID, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestRefreshToken_Expired(t *testing.T) {
	svc := NewJWTService(testSecret, 15*time.Minute, -time.Minute)
	token, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = newService().ValidateRefreshToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

// ============================================================
// Passwords
// ============================================================

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("password124", hash))
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
