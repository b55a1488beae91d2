package api

import (
	"net/http"
	"strings"

	"github.com/example/storefront-api/internal/api/middleware"
	"github.com/example/storefront-api/internal/checkout"
)

// Checkout converts the caller's active cart into an order directly.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkout.DirectInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	o, err := h.checkout.Checkout(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

// CreateCheckoutSession opens a hosted payment session for the cart.
func (h *Handlers) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CartID string `json:"cart_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	session, err := h.checkout.CreateSession(r.Context(), middleware.GetUserID(r.Context()), req.CartID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

// GetPaymentSession proxies the gateway's current view of a session.
func (h *Handlers) GetPaymentSession(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/payment/session/")

	session, err := h.checkout.SessionStatus(r.Context(), middleware.GetUserID(r.Context()), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// ListMyOrders returns the caller's order history.
func (h *Handlers) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// GetOrder returns one order, owner or order-viewing capability only.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimPrefix(r.URL.Path, "/orders/")

	o, err := h.orders.Get(r.Context(), middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()), orderID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
