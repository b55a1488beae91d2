package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/money"
)

// ListProducts serves the public catalog listing with query filters.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.ProductFilter{
		CategoryID: q.Get("category_id"),
		BrandID:    q.Get("brand_id"),
		Search:     q.Get("search"),
	}
	if v := q.Get("limit"); v != "" {
		f.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		f.Offset, _ = strconv.Atoi(v)
	}
	if v := q.Get("min_price"); v != "" {
		if d, err := money.Parse(v); err == nil {
			f.MinPrice = d
		}
	}
	if v := q.Get("max_price"); v != "" {
		if d, err := money.Parse(v); err == nil {
			f.MaxPrice = d
		}
	}

	products, err := h.catalog.ListProducts(r.Context(), f)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": products})
}

// GetProduct serves one product with variants and images.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/products/")
	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// ListBrands serves all brands.
func (h *Handlers) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.ListBrands(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"brands": brands})
}

// ListCategories serves all categories.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
