package api

import (
	"net/http"
	"strings"

	"github.com/example/storefront-api/internal/api/middleware"
	"github.com/example/storefront-api/internal/user"
)

// ListAddresses returns the caller's shipping addresses.
func (h *Handlers) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.users.ListAddresses(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"addresses": addresses})
}

// AddAddress creates a shipping address.
func (h *Handlers) AddAddress(w http.ResponseWriter, r *http.Request) {
	var req user.AddressInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	a, err := h.users.AddAddress(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, a)
}

// UpdateAddress modifies one of the caller's addresses.
func (h *Handlers) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	addressID := strings.TrimPrefix(r.URL.Path, "/addresses/")

	var req user.AddressInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	a, err := h.users.UpdateAddress(r.Context(), middleware.GetUserID(r.Context()), addressID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// DeleteAddress removes one of the caller's addresses.
func (h *Handlers) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	addressID := strings.TrimPrefix(r.URL.Path, "/addresses/")

	if err := h.users.DeleteAddress(r.Context(), middleware.GetUserID(r.Context()), addressID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}
