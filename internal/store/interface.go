package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/storefront-api/internal/model"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// CartStore is the persistence surface of the cart aggregate.
type CartStore interface {
	// ActiveCart returns the user's ACTIVE cart with items, or ErrNotFound.
	ActiveCart(ctx context.Context, userID string) (*model.Cart, error)
	// CartByID returns a cart with items regardless of status.
	CartByID(ctx context.Context, cartID string) (*model.Cart, error)
	CreateCart(ctx context.Context, c *model.Cart) error
	CartItem(ctx context.Context, itemID string) (*model.CartItem, error)
	InsertCartItem(ctx context.Context, it *model.CartItem) error
	UpdateCartItem(ctx context.Context, itemID string, quantity int, price decimal.Decimal) error
	// IncrementCartItem adds delta to an item's quantity as a relative
	// single-statement update (quantity = quantity + delta) and
	// refreshes the price snapshot. Concurrent adds to the same line
	// serialize on the row instead of overwriting each other with
	// absolute values read before the transaction.
	IncrementCartItem(ctx context.Context, itemID string, delta int, price decimal.Decimal) error
	DeleteCartItem(ctx context.Context, itemID string) error
	DeleteCartItems(ctx context.Context, cartID string) error
	UpdateCartTotal(ctx context.Context, cartID string, total decimal.Decimal) error
	// CompleteCart flips a cart ACTIVE -> COMPLETED, stamping completion
	// time and the created order. Returns false when the cart was not
	// ACTIVE, which is how concurrent double checkout is resolved: only
	// one transaction wins the flip.
	CompleteCart(ctx context.Context, cartID, orderID string, at time.Time) (bool, error)
}

// CatalogStore is the persistence surface of the product catalog.
type CatalogStore interface {
	ListProducts(ctx context.Context, f model.ProductFilter) ([]*model.Product, error)
	ProductByID(ctx context.Context, id string) (*model.Product, error)
	InsertProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	InsertVariant(ctx context.Context, v *model.ProductVariant) error
	VariantByID(ctx context.Context, id string) (*model.ProductVariant, error)
	// VariantForProduct returns the variant only when it belongs to the
	// stated product; otherwise ErrNotFound.
	VariantForProduct(ctx context.Context, productID, variantID string) (*model.ProductVariant, error)
	SetVariantStock(ctx context.Context, variantID string, stock int) error
	// DecrementStock subtracts qty from a variant's stock in a single
	// conditional statement (stock = stock - qty WHERE stock >= qty) and
	// reports whether the decrement applied. Stock can never go negative
	// through this path, regardless of concurrency.
	DecrementStock(ctx context.Context, variantID string, qty int) (bool, error)
	InsertImage(ctx context.Context, img *model.ProductImage) error
	ListBrands(ctx context.Context) ([]*model.Brand, error)
	InsertBrand(ctx context.Context, b *model.Brand) error
	DeleteBrand(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]*model.Category, error)
	InsertCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// OrderStore is the persistence surface of orders and payment
// transactions.
type OrderStore interface {
	InsertOrder(ctx context.Context, o *model.Order) error
	InsertLineItems(ctx context.Context, items []model.OrderLineItem) error
	InsertTransaction(ctx context.Context, t *model.OrderTransaction) error
	// TransactionByGatewayID returns the transaction recorded for an
	// external payment id, or ErrNotFound. Settlement consults this
	// before creating anything, which makes duplicate webhook delivery a
	// no-op.
	TransactionByGatewayID(ctx context.Context, gatewayPaymentID string) (*model.OrderTransaction, error)
	OrderByID(ctx context.Context, id string) (*model.Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]*model.Order, error)
	ListOrders(ctx context.Context, f model.OrderFilter) ([]*model.Order, error)
	SetOrderStatus(ctx context.Context, id string, s model.OrderStatus) error
	SetFinancialStatus(ctx context.Context, id string, s model.FinancialStatus) error
	SetFulfillmentStatus(ctx context.Context, id string, s model.FulfillmentStatus) error
}

// UserStore is the persistence surface of accounts and addresses.
type UserStore interface {
	InsertUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	UpdateUserProfile(ctx context.Context, id, name string) error
	AddressesByUser(ctx context.Context, userID string) ([]*model.Address, error)
	AddressByID(ctx context.Context, id string) (*model.Address, error)
	InsertAddress(ctx context.Context, a *model.Address) error
	UpdateAddress(ctx context.Context, a *model.Address) error
	DeleteAddress(ctx context.Context, id string) error
}

// WishlistStore is the persistence surface of wishlists.
type WishlistStore interface {
	WishlistByUser(ctx context.Context, userID string) ([]*model.WishlistEntry, error)
	InsertWishlistEntry(ctx context.Context, e *model.WishlistEntry) error
	DeleteWishlistEntry(ctx context.Context, userID, variantID string) (bool, error)
}

// Tx is the set of operations available inside one database transaction.
// The checkout and settlement pipelines run entirely against a Tx so all
// their steps commit or roll back together.
type Tx interface {
	CartStore
	CatalogStore
	OrderStore
}

// Gateway is the injected persistence dependency: all entity stores plus
// transactional execution. Opened at process start, closed at shutdown.
type Gateway interface {
	CartStore
	CatalogStore
	OrderStore
	UserStore
	WishlistStore

	// InTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise.
	InTx(ctx context.Context, fn func(Tx) error) error
	Close() error
}
