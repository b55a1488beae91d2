package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartStatus tracks the lifecycle of a cart. A cart is ACTIVE exactly once;
// checkout flips it to COMPLETED and it is never reused.
type CartStatus string

const (
	CartActive    CartStatus = "ACTIVE"
	CartCompleted CartStatus = "COMPLETED"
	CartAbandoned CartStatus = "ABANDONED"
)

// Cart is the single mutable shopping cart a user owns while shopping.
type Cart struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Status      CartStatus      `json:"status"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Items       []CartItem      `json:"items"`
	OrderID     string          `json:"order_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// CartItem references a product variant with a price snapshot taken at
// add-time. ItemPrice does not follow later catalog price changes.
type CartItem struct {
	ID        string          `json:"id"`
	CartID    string          `json:"cart_id"`
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	ItemPrice decimal.Decimal `json:"item_price"`
	CreatedAt time.Time       `json:"created_at"`

	// Denormalized for display and gateway line items.
	ProductName string `json:"product_name,omitempty"`
	VariantSize string `json:"variant_size,omitempty"`
	SKU         string `json:"sku,omitempty"`
}

// Brand is a catalog brand.
type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Category is a catalog category.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Product is a catalog entry. Sellable units are its variants.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	BrandID     string           `json:"brand_id,omitempty"`
	CategoryID  string           `json:"category_id,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	Images      []ProductImage   `json:"images,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductVariant is the sellable unit. SKU is globally unique and
// (product_id, size) is unique per product. Stock never goes negative.
type ProductVariant struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Size      string          `json:"size"`
	SKU       string          `json:"sku"`
	Stock     int             `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductImage is a catalog image attached to a product.
type ProductImage struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	Position  int    `json:"position"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID string
	BrandID    string
	MinPrice   decimal.Decimal
	MaxPrice   decimal.Decimal
	Search     string
	Limit      int
	Offset     int
}

// OrderStatus is the fulfillment-pipeline status of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// FinancialStatus tracks payment state of an order.
type FinancialStatus string

const (
	FinancialPending  FinancialStatus = "pending"
	FinancialPaid     FinancialStatus = "paid"
	FinancialRefunded FinancialStatus = "refunded"
	FinancialVoided   FinancialStatus = "voided"
)

// FulfillmentStatus tracks shipment state of an order.
type FulfillmentStatus string

const (
	FulfillmentUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentPartial     FulfillmentStatus = "partial"
	FulfillmentFulfilled   FulfillmentStatus = "fulfilled"
	FulfillmentReturned    FulfillmentStatus = "returned"
)

// Order is the immutable historical record created at checkout or
// settlement. Line items are frozen copies and never mutate.
type Order struct {
	ID                string             `json:"id"`
	OrderNumber       string             `json:"order_number"`
	UserID            string             `json:"user_id"`
	Status            OrderStatus        `json:"status"`
	FinancialStatus   FinancialStatus    `json:"financial_status"`
	FulfillmentStatus FulfillmentStatus  `json:"fulfillment_status"`
	Subtotal          decimal.Decimal    `json:"subtotal"`
	Tax               decimal.Decimal    `json:"tax"`
	Shipping          decimal.Decimal    `json:"shipping"`
	Total             decimal.Decimal    `json:"total"`
	ShippingAddress   string             `json:"shipping_address"`
	PaymentMethod     string             `json:"payment_method"`
	Notes             string             `json:"notes,omitempty"`
	LineItems         []OrderLineItem    `json:"line_items,omitempty"`
	Transactions      []OrderTransaction `json:"transactions,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// OrderLineItem is a frozen copy of product and price identity at the
// moment of order creation.
type OrderLineItem struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	ProductID       string          `json:"product_id"`
	VariantID       string          `json:"variant_id"`
	ProductName     string          `json:"product_name"`
	VariantSize     string          `json:"variant_size"`
	SKU             string          `json:"sku"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// OrderTransaction records one external-gateway payment event.
// GatewayPaymentID is globally unique, which is what makes settlement
// idempotent under duplicate webhook delivery.
type OrderTransaction struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"order_id"`
	GatewayPaymentID string          `json:"gateway_payment_id"`
	Status           string          `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	CreatedAt        time.Time       `json:"created_at"`
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	UserID            string
	Status            OrderStatus
	FinancialStatus   FinancialStatus
	FulfillmentStatus FulfillmentStatus
	Limit             int
	Offset            int
}

// User is an account holder.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Address is a user shipping address.
type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

// WishlistEntry links a user to a variant they saved. Unique per
// (user_id, variant_id).
type WishlistEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	VariantID string    `json:"variant_id"`
	CreatedAt time.Time `json:"created_at"`

	ProductName string          `json:"product_name,omitempty"`
	VariantSize string          `json:"variant_size,omitempty"`
	Price       decimal.Decimal `json:"price,omitempty"`
}
