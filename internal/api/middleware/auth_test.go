package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-api/internal/auth"
	"github.com/example/storefront-api/internal/authz"
)

const testJWTSecret = "test-secret-key-at-least-32-chars-long"

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(testJWTSecret, 15*time.Minute, 24*time.Hour)
}

func accessToken(t *testing.T, svc *auth.JWTService, role string) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken("user-1", "user@example.com", role)
	require.NoError(t, err)
	return token
}

// okHandler records that the chain reached the protected handler.
func okHandler(reached *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusOK)
	})
}

// ============================================================
// AuthMiddleware
// ============================================================

func TestAuthMiddleware_ValidBearerToken(t *testing.T) {
	svc := newTestJWTService()
	var reached bool
	var gotUserID string
	handler := AuthMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		gotUserID = GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, svc, "USER"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, reached)
	assert.Equal(t, "user-1", gotUserID)
}

func TestAuthMiddleware_ValidCookieToken(t *testing.T) {
	svc := newTestJWTService()
	var reached bool
	handler := AuthMiddleware(svc)(okHandler(&reached))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: accessToken(t, svc, "USER")})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	svc := newTestJWTService()
	var reached bool
	handler := AuthMiddleware(svc)(okHandler(&reached))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	svc := newTestJWTService()
	var reached bool
	handler := AuthMiddleware(svc)(okHandler(&reached))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_TokenSignedWithWrongSecret(t *testing.T) {
	other := auth.NewJWTService("another-secret-key-also-32-chars-xx", 15*time.Minute, 24*time.Hour)
	token, _, err := other.GenerateAccessToken("user-1", "user@example.com", "USER")
	require.NoError(t, err)

	var reached bool
	handler := AuthMiddleware(newTestJWTService())(okHandler(&reached))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := auth.NewJWTService(testJWTSecret, -time.Minute, 24*time.Hour)
	token, _, err := svc.GenerateAccessToken("user-1", "user@example.com", "USER")
	require.NoError(t, err)

	var reached bool
	handler := AuthMiddleware(newTestJWTService())(okHandler(&reached))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ============================================================
// RequireCapability
// ============================================================

func requireChain(svc *auth.JWTService, cap authz.Capability, reached *bool) http.Handler {
	return AuthMiddleware(svc)(RequireCapability(cap)(okHandler(reached)))
}

func TestRequireCapability_AdminAllowed(t *testing.T) {
	svc := newTestJWTService()
	var reached bool
	handler := requireChain(svc, authz.CapManageCatalog, &reached)

	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, svc, "ADMIN"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireCapability_RegularUserForbidden(t *testing.T) {
	svc := newTestJWTService()
	var reached bool
	handler := requireChain(svc, authz.CapManageCatalog, &reached)

	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, svc, "USER"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireCapability_TamperedRoleForbidden(t *testing.T) {
	svc := newTestJWTService()
	var reached bool
	handler := requireChain(svc, authz.CapManageCatalog, &reached)

	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, svc, "SUPERUSER"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireCapability_WithoutAuthContext(t *testing.T) {
	var reached bool
	handler := RequireCapability(authz.CapManageCatalog)(okHandler(&reached))

	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
