package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/storefront-api/internal/api/middleware"
	"github.com/example/storefront-api/internal/auth"
	"github.com/example/storefront-api/internal/authz"
)

// NewRouter wires every route. Catalog reads are public, the webhook is
// signature-authenticated, everything else requires a valid token and
// admin routes additionally require a capability.
func NewRouter(handlers *Handlers, jwtService *auth.JWTService) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.AuthMiddleware(jwtService)
	manageCatalog := middleware.RequireCapability(authz.CapManageCatalog)
	viewAllOrders := middleware.RequireCapability(authz.CapViewAllOrders)
	manageOrders := middleware.RequireCapability(authz.CapManageOrders)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.Register(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.Login(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.Refresh(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.Handle("/auth/logout", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.Logout(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Account
	mux.Handle("/me", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.Me(w, r)
		case http.MethodPut:
			handlers.UpdateProfile(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/me/password", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			handlers.ChangePassword(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Catalog (public)
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ListProducts(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetProduct(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.HandleFunc("/brands", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ListBrands(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ListCategories(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Cart
	mux.Handle("/cart", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetCart(w, r)
		case http.MethodDelete:
			handlers.ClearCart(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/cart/items", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.AddCartItem(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/cart/items/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			handlers.UpdateCartItem(w, r)
		case http.MethodDelete:
			handlers.RemoveCartItem(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Payment sessions; the webhook is signature-authenticated, no token
	mux.Handle("/payment/checkout-session", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.CreateCheckoutSession(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/payment/session/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetPaymentSession(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.HandleFunc("/payment/webhook", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.PaymentWebhook(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Orders; POST runs the direct checkout pipeline
	mux.Handle("/orders", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ListMyOrders(w, r)
		case http.MethodPost:
			handlers.Checkout(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/orders/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetOrder(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Wishlist
	mux.Handle("/wishlist", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetWishlist(w, r)
		case http.MethodPost:
			handlers.AddWishlistEntry(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/wishlist/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			handlers.RemoveWishlistEntry(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Addresses
	mux.Handle("/addresses", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ListAddresses(w, r)
		case http.MethodPost:
			handlers.AddAddress(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/addresses/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			handlers.UpdateAddress(w, r)
		case http.MethodDelete:
			handlers.DeleteAddress(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Admin catalog
	mux.Handle("/admin/products", authed(manageCatalog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.AdminCreateProduct(w, r)
		default:
			methodNotAllowed(w)
		}
	}))))
	mux.Handle("/admin/products/", authed(manageCatalog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/variants") && r.Method == http.MethodPost:
			handlers.AdminAddVariant(w, r)
		case strings.HasSuffix(path, "/images") && r.Method == http.MethodPost:
			handlers.AdminAddImage(w, r)
		case r.Method == http.MethodPut:
			handlers.AdminUpdateProduct(w, r)
		case r.Method == http.MethodDelete:
			handlers.AdminDeleteProduct(w, r)
		default:
			methodNotAllowed(w)
		}
	}))))
	mux.Handle("/admin/variants/", authed(manageCatalog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/stock") && r.Method == http.MethodPut:
			handlers.AdminSetStock(w, r)
		default:
			methodNotAllowed(w)
		}
	}))))
	mux.Handle("/admin/brands", authed(manageCatalog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.AdminCreateBrand(w, r)
		default:
			methodNotAllowed(w)
		}
	}))))
	mux.Handle("/admin/brands/", authed(manageCatalog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			handlers.AdminDeleteBrand(w, r)
		default:
			methodNotAllowed(w)
		}
	}))))
	mux.Handle("/admin/categories", authed(manageCatalog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.AdminCreateCategory(w, r)
		default:
			methodNotAllowed(w)
		}
	}))))
	mux.Handle("/admin/categories/", authed(manageCatalog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			handlers.AdminDeleteCategory(w, r)
		default:
			methodNotAllowed(w)
		}
	}))))

	// Admin orders
	mux.Handle("/admin/orders", authed(viewAllOrders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.AdminListOrders(w, r)
		default:
			methodNotAllowed(w)
		}
	}))))
	mux.Handle("/admin/orders/", authed(manageOrders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/financial-status") && r.Method == http.MethodPut:
			handlers.AdminUpdateFinancialStatus(w, r)
		case strings.HasSuffix(path, "/fulfillment-status") && r.Method == http.MethodPut:
			handlers.AdminUpdateFulfillmentStatus(w, r)
		case strings.HasSuffix(path, "/status") && r.Method == http.MethodPut:
			handlers.AdminUpdateOrderStatus(w, r)
		default:
			methodNotAllowed(w)
		}
	}))))

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
