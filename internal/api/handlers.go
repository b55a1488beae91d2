package api

import (
	"github.com/example/storefront-api/internal/cart"
	"github.com/example/storefront-api/internal/catalog"
	"github.com/example/storefront-api/internal/checkout"
	"github.com/example/storefront-api/internal/order"
	"github.com/example/storefront-api/internal/user"
	"github.com/example/storefront-api/internal/wishlist"
)

// Handlers bundles the service dependencies of every route.
type Handlers struct {
	users    *user.Service
	carts    *cart.Service
	catalog  *catalog.Service
	orders   *order.Service
	checkout *checkout.Service
	wishlist *wishlist.Service
	secure   bool
}

// NewHandlers wires the HTTP surface. secure controls the Secure flag on
// auth cookies and is off only in local development.
func NewHandlers(
	users *user.Service,
	carts *cart.Service,
	catalogSvc *catalog.Service,
	orders *order.Service,
	checkoutSvc *checkout.Service,
	wishlistSvc *wishlist.Service,
	secure bool,
) *Handlers {
	return &Handlers{
		users:    users,
		carts:    carts,
		catalog:  catalogSvc,
		orders:   orders,
		checkout: checkoutSvc,
		wishlist: wishlistSvc,
		secure:   secure,
	}
}
