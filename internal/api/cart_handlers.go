package api

import (
	"net/http"
	"strings"

	"github.com/example/storefront-api/internal/api/middleware"
)

// GetCart returns the caller's active cart, creating one on first use.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.ActiveCart(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// AddCartItem puts a product variant into the cart.
func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		VariantID string `json:"variant_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	c, err := h.carts.AddItem(r.Context(), middleware.GetUserID(r.Context()), req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// UpdateCartItem changes an item's quantity.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimPrefix(r.URL.Path, "/cart/items/")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	c, err := h.carts.UpdateItemQuantity(r.Context(), middleware.GetUserID(r.Context()), itemID, req.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// RemoveCartItem deletes an item from the cart.
func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimPrefix(r.URL.Path, "/cart/items/")

	c, err := h.carts.RemoveItem(r.Context(), middleware.GetUserID(r.Context()), itemID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// ClearCart removes every item from the cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Clear(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}
