package api

import (
	"net/http"
	"strings"

	"github.com/example/storefront-api/internal/api/middleware"
)

// GetWishlist lists the caller's saved variants.
func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.wishlist.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"wishlist": entries})
}

// AddWishlistEntry saves a variant for later.
func (h *Handlers) AddWishlistEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID string `json:"variant_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	entry, err := h.wishlist.Add(r.Context(), middleware.GetUserID(r.Context()), req.VariantID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// RemoveWishlistEntry deletes a saved variant.
func (h *Handlers) RemoveWishlistEntry(w http.ResponseWriter, r *http.Request) {
	variantID := strings.TrimPrefix(r.URL.Path, "/wishlist/")

	if err := h.wishlist.Remove(r.Context(), middleware.GetUserID(r.Context()), variantID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Removed"})
}
