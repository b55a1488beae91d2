package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/example/storefront-api/internal/catalog"
	"github.com/example/storefront-api/internal/model"
)

// Admin catalog management

func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.ProductInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/admin/products/")

	var req catalog.ProductInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/admin/products/")

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (h *Handlers) AdminAddVariant(w http.ResponseWriter, r *http.Request) {
	productID := pathSegment(r.URL.Path, "/admin/products/", "/variants")

	var req catalog.VariantInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	v, err := h.catalog.AddVariant(r.Context(), productID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

func (h *Handlers) AdminAddImage(w http.ResponseWriter, r *http.Request) {
	productID := pathSegment(r.URL.Path, "/admin/products/", "/images")

	var req catalog.ImageInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	img, err := h.catalog.AddImage(r.Context(), productID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, img)
}

func (h *Handlers) AdminSetStock(w http.ResponseWriter, r *http.Request) {
	variantID := pathSegment(r.URL.Path, "/admin/variants/", "/stock")

	var req struct {
		Stock int `json:"stock"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.catalog.SetStock(r.Context(), variantID, req.Stock); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Stock updated"})
}

func (h *Handlers) AdminCreateBrand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	b, err := h.catalog.CreateBrand(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (h *Handlers) AdminDeleteBrand(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/admin/brands/")

	if err := h.catalog.DeleteBrand(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (h *Handlers) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	c, err := h.catalog.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handlers) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/admin/categories/")

	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

// Admin order management

func (h *Handlers) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.OrderFilter{
		UserID:            q.Get("user_id"),
		Status:            model.OrderStatus(q.Get("status")),
		FinancialStatus:   model.FinancialStatus(q.Get("financial_status")),
		FulfillmentStatus: model.FulfillmentStatus(q.Get("fulfillment_status")),
	}
	if v := q.Get("limit"); v != "" {
		f.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		f.Offset, _ = strconv.Atoi(v)
	}

	orders, err := h.orders.List(r.Context(), f)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handlers) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := pathSegment(r.URL.Path, "/admin/orders/", "/status")

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), orderID, model.OrderStatus(req.Status))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) AdminUpdateFinancialStatus(w http.ResponseWriter, r *http.Request) {
	orderID := pathSegment(r.URL.Path, "/admin/orders/", "/financial-status")

	var req struct {
		FinancialStatus string `json:"financial_status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	o, err := h.orders.UpdateFinancialStatus(r.Context(), orderID, model.FinancialStatus(req.FinancialStatus))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) AdminUpdateFulfillmentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := pathSegment(r.URL.Path, "/admin/orders/", "/fulfillment-status")

	var req struct {
		FulfillmentStatus string `json:"fulfillment_status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	o, err := h.orders.UpdateFulfillmentStatus(r.Context(), orderID, model.FulfillmentStatus(req.FulfillmentStatus))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// pathSegment extracts the id between a route prefix and suffix, e.g.
// "/admin/orders/{id}/status".
func pathSegment(path, prefix, suffix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
}
