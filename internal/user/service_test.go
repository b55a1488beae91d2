package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/auth"
	"github.com/example/storefront-api/internal/store/mocks"
)

func newTestService() (*Service, *mocks.MockGateway) {
	gw := mocks.NewMockGateway()
	tokens := auth.NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(gw, tokens), gw
}

// ============================================================
// Registration and login
// ============================================================

func TestRegister(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.Register(context.Background(), "Buyer@Example.com", "correct horse", "Buyer")
	require.NoError(t, err)

	assert.Equal(t, "buyer@example.com", u.Email, "email must be normalized")
	assert.Equal(t, "USER", u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "correct horse", u.PasswordHash)
}

func TestRegister_DuplicateEmailIsConflict(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), "buyer@example.com", "correct horse", "Buyer")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "buyer@example.com", "other password", "Impostor")
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestRegister_ShortPasswordIsRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), "buyer@example.com", "short", "Buyer")
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), "buyer@example.com", "correct horse", "Buyer")
	require.NoError(t, err)

	u, pair, err := svc.Login(context.Background(), "buyer@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", u.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessExpiresAt.After(time.Now()))
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), "buyer@example.com", "correct horse", "Buyer")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "buyer@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperr.Authentication, apperr.KindOf(err))
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever1")
	require.Error(t, err)
	assert.Equal(t, apperr.Authentication, apperr.KindOf(err))
	assert.Equal(t, "invalid email or password", apperr.Message(err))
}

func TestRefresh(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), "buyer@example.com", "correct horse", "Buyer")
	require.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), "buyer@example.com", "correct horse")
	require.NoError(t, err)

	u, next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", u.Email)
	assert.NotEmpty(t, next.AccessToken)
}

func TestRefresh_GarbageTokenIsRejected(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Refresh(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperr.Authentication, apperr.KindOf(err))
}

// ============================================================
// Profile and password
// ============================================================

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.Register(context.Background(), "buyer@example.com", "correct horse", "Buyer")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), u.ID, "correct horse", "battery staple"))

	_, _, err = svc.Login(context.Background(), "buyer@example.com", "correct horse")
	require.Error(t, err)
	_, _, err = svc.Login(context.Background(), "buyer@example.com", "battery staple")
	require.NoError(t, err)
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.Register(context.Background(), "buyer@example.com", "correct horse", "Buyer")
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, "wrong", "battery staple")
	require.Error(t, err)
	assert.Equal(t, apperr.Authentication, apperr.KindOf(err))
}

// ============================================================
// Addresses
// ============================================================

func validAddress() AddressInput {
	return AddressInput{
		Line1:      "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
		IsDefault:  true,
	}
}

func TestAddAndListAddresses(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.Register(context.Background(), "buyer@example.com", "correct horse", "Buyer")
	require.NoError(t, err)

	a, err := svc.AddAddress(context.Background(), u.ID, validAddress())
	require.NoError(t, err)
	assert.Equal(t, u.ID, a.UserID)

	addresses, err := svc.ListAddresses(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, "1 Main St", addresses[0].Line1)
}

func TestAddAddress_MissingFields(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddAddress(context.Background(), "user-1", AddressInput{Line1: "1 Main St"})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Len(t, apperr.DetailsOf(err), 3)
}

func TestDeleteAddress_OtherUsersAddressIsForbidden(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.Register(context.Background(), "buyer@example.com", "correct horse", "Buyer")
	require.NoError(t, err)
	a, err := svc.AddAddress(context.Background(), u.ID, validAddress())
	require.NoError(t, err)

	err = svc.DeleteAddress(context.Background(), "someone-else", a.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))

	addresses, err := svc.ListAddresses(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Len(t, addresses, 1)
}
