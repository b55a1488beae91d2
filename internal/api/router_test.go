package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-api/internal/auth"
	"github.com/example/storefront-api/internal/cache"
	"github.com/example/storefront-api/internal/cart"
	"github.com/example/storefront-api/internal/catalog"
	"github.com/example/storefront-api/internal/checkout"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/order"
	"github.com/example/storefront-api/internal/payment"
	"github.com/example/storefront-api/internal/store/mocks"
	"github.com/example/storefront-api/internal/user"
	"github.com/example/storefront-api/internal/wishlist"
)

const (
	testJWTSecret     = "test-secret-key-at-least-32-chars-long"
	testWebhookSecret = "whsec_router_test"
)

type nopPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *nopPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

type testEnv struct {
	router  http.Handler
	gateway *mocks.MockGateway
	jwt     *auth.JWTService
	pub     *nopPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gw := mocks.NewMockGateway()
	jwtService := auth.NewJWTService(testJWTSecret, 15*time.Minute, 24*time.Hour)
	pub := &nopPublisher{}

	checkoutSvc := checkout.NewService(gw, nil, pub, checkout.Config{
		WebhookSecret: testWebhookSecret,
		SuccessURL:    "https://shop.example.com/success",
		CancelURL:     "https://shop.example.com/cancel",
	})

	handlers := NewHandlers(
		user.NewService(gw, jwtService),
		cart.NewService(gw),
		catalog.NewService(gw, cache.NewProductCache(nil, 0)),
		order.NewService(gw),
		checkoutSvc,
		wishlist.NewService(gw),
		false,
	)

	return &testEnv{
		router:  NewRouter(handlers, jwtService),
		gateway: gw,
		jwt:     jwtService,
		pub:     pub,
	}
}

func (e *testEnv) seedUser(t *testing.T, id, email, password, role string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	e.gateway.SeedUser(&model.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	})
}

func (e *testEnv) token(t *testing.T, userID, email, role string) string {
	t.Helper()
	token, _, err := e.jwt.GenerateAccessToken(userID, email, role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// ============================================================
// Route protection
// ============================================================

func TestRouter_CatalogIsPublic(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/products", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "products")
}

func TestRouter_CartRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CartWithValidToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1", "shopper@example.com", "password123", "USER")

	rec := env.do(http.MethodGet, "/cart", env.token(t, "user-1", "shopper@example.com", "USER"), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var c model.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, model.CartActive, c.Status)
}

func TestRouter_AdminRouteForbiddenForRegularUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/admin/products",
		env.token(t, "user-1", "shopper@example.com", "USER"),
		`{"name":"Canvas Sneaker"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AdminCreatesProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/admin/products",
		env.token(t, "admin-1", "admin@example.com", "ADMIN"),
		`{"name":"Canvas Sneaker","description":"Low-top canvas"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Canvas Sneaker", p.Name)
	assert.NotEmpty(t, p.ID)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodDelete, "/products", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ============================================================
// Auth flow
// ============================================================

func TestRouter_RegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/auth/register", "",
		`{"email":"new@example.com","password":"password123","name":"New User"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/auth/login", "",
		`{"email":"new@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	var accessCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == "access_token" {
			accessCookie = c
		}
	}
	require.NotNil(t, accessCookie, "login must set the access_token cookie")
	assert.True(t, accessCookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(accessCookie)
	meRec := httptest.NewRecorder()
	env.router.ServeHTTP(meRec, req)
	require.Equal(t, http.StatusOK, meRec.Code)

	var me map[string]any
	require.NoError(t, json.Unmarshal(meRec.Body.Bytes(), &me))
	assert.Equal(t, "new@example.com", me["email"])
}

func TestRouter_LoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user-1", "shopper@example.com", "password123", "USER")

	rec := env.do(http.MethodPost, "/auth/login", "",
		`{"email":"shopper@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ============================================================
// Payment webhook
// ============================================================

func seedCheckoutState(t *testing.T, env *testEnv) {
	t.Helper()
	env.seedUser(t, "user-1", "shopper@example.com", "password123", "USER")
	env.gateway.SeedProduct(
		&model.Product{ID: "prod-1", Name: "Canvas Sneaker"},
		&model.ProductVariant{
			ID:        "var-1",
			ProductID: "prod-1",
			Size:      "42",
			SKU:       "SNK-42",
			Stock:     10,
			Price:     decimal.RequireFromString("59.90"),
		},
	)
	env.gateway.SeedCart(&model.Cart{
		ID:     "cart-1",
		UserID: "user-1",
		Status: model.CartActive,
		Items: []model.CartItem{{
			ID:        "cart-1-item",
			CartID:    "cart-1",
			ProductID: "prod-1",
			VariantID: "var-1",
			Quantity:  2,
			ItemPrice: decimal.RequireFromString("59.90"),
		}},
		TotalPrice: decimal.RequireFromString("119.80"),
		CreatedAt:  time.Now(),
	})
}

func settlementPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":   "evt_1",
		"type": "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{
				"id":             "cs_test_1",
				"payment_id":     "pay_123",
				"payment_status": "paid",
				"amount_total":   11980,
				"currency":       "eur",
				"metadata":       map[string]string{"user_id": "user-1", "cart_id": "cart-1"},
			},
		},
	})
	require.NoError(t, err)
	return payload
}

func TestRouter_WebhookRejectsBadSignature(t *testing.T) {
	env := newTestEnv(t)
	seedCheckoutState(t, env)

	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(string(settlementPayload(t))))
	req.Header.Set("Gateway-Signature", "t=1,v1=deadbeef")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.gateway.OrderCount())
}

func TestRouter_WebhookSettlesOrder(t *testing.T) {
	env := newTestEnv(t)
	seedCheckoutState(t, env)

	payload := settlementPayload(t)
	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Gateway-Signature", payment.Sign(payload, testWebhookSecret, time.Now()))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, env.gateway.OrderCount())
	assert.Equal(t, 1, env.gateway.TransactionCount())
	assert.Equal(t, 8, env.gateway.VariantStock("var-1"))
}

func TestRouter_WebhookSignatureCoversExactBytes(t *testing.T) {
	// The handler must verify the raw request body, not a re-encoded
	// form of it. This payload has non-canonical whitespace that any
	// decode/encode round trip would destroy.
	env := newTestEnv(t)
	seedCheckoutState(t, env)

	payload := []byte("{\n  \"id\": \"evt_1\",\n  \"type\": \"checkout.session.expired\",\n  \"data\": {\"object\": {\"id\": \"cs_test_1\"}}\n}")
	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(string(payload)))
	req.Header.Set("Gateway-Signature", payment.Sign(payload, testWebhookSecret, time.Now()))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
