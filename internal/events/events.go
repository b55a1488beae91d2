// Package events defines the messages the storefront publishes after
// order-affecting state changes commit. Payloads carry everything the
// consumers need (recipient email, display line summaries) so consumers
// stay stateless and never read the database.
package events

import (
	"context"

	"github.com/shopspring/decimal"
)

const (
	TopicOrderPlaced      = "order.placed"
	TopicOrderSettled     = "order.settled"
	TopicSettlementFailed = "settlement.failed"
)

// Publisher sends a domain event to a topic, keyed for partition
// ordering.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// Line is a display summary of one purchased line item.
type Line struct {
	ProductName string          `json:"product_name"`
	VariantSize string          `json:"variant_size"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderPlaced is emitted when a direct checkout commits.
type OrderPlaced struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      string          `json:"user_id"`
	Email       string          `json:"email"`
	Total       decimal.Decimal `json:"total"`
	Lines       []Line          `json:"lines"`
}

// OrderSettled is emitted when a gateway payment settles into an order.
type OrderSettled struct {
	OrderID          string          `json:"order_id"`
	OrderNumber      string          `json:"order_number"`
	UserID           string          `json:"user_id"`
	Email            string          `json:"email"`
	GatewayPaymentID string          `json:"gateway_payment_id"`
	Total            decimal.Decimal `json:"total"`
	Lines            []Line          `json:"lines"`
}

// SettlementFailed is emitted when a captured payment could not be
// settled into an order and needs manual intervention.
type SettlementFailed struct {
	UserID           string `json:"user_id"`
	CartID           string `json:"cart_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Reason           string `json:"reason"`
}
