// Package checkout turns an active cart into an order, either directly
// (cash on delivery, invoice) or through a hosted payment gateway
// session settled later by webhook. All order-creating paths run inside
// one database transaction so stock, order rows, and the cart flip
// commit or roll back together.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/events"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/money"
	"github.com/example/storefront-api/internal/payment"
	"github.com/example/storefront-api/internal/store"
)

// Config carries the checkout wiring that comes from the environment.
type Config struct {
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Currency      string
	ShippingFee   decimal.Decimal
	TaxRate       decimal.Decimal
}

// Service runs the checkout and settlement pipelines.
type Service struct {
	gateway   store.Gateway
	payments  *payment.Client
	publisher events.Publisher
	cfg       Config
}

func NewService(gateway store.Gateway, payments *payment.Client, publisher events.Publisher, cfg Config) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "eur"
	}
	return &Service{gateway: gateway, payments: payments, publisher: publisher, cfg: cfg}
}

// DirectInput is what the buyer submits for a non-gateway checkout.
type DirectInput struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes,omitempty"`
}

// Checkout converts the user's active cart into an order in a single
// transaction: stock is deducted conditionally per line, the order and
// its frozen line items are written, the cart is emptied and flipped to
// COMPLETED. The flip is the concurrency gate; a cart that lost the
// race rolls everything back.
func (s *Service) Checkout(ctx context.Context, userID string, in DirectInput) (*model.Order, error) {
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return nil, apperr.Invalid("invalid checkout request",
			apperr.FieldError{Path: "shipping_address", Message: "is required"})
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return nil, apperr.Invalid("invalid checkout request",
			apperr.FieldError{Path: "payment_method", Message: "is required"})
	}

	c, err := s.gateway.ActiveCart(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.Conflict, "no active cart")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load cart", err)
	}
	if len(c.Items) == 0 {
		return nil, apperr.New(apperr.Conflict, "cart is empty")
	}

	var order *model.Order
	err = s.gateway.InTx(ctx, func(tx store.Tx) error {
		// Reread inside the transaction; the snapshot above only
		// served the fast empty-cart rejection.
		cur, err := tx.CartByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if cur.Status != model.CartActive {
			return apperr.New(apperr.Conflict, "cart is no longer active")
		}
		if len(cur.Items) == 0 {
			return apperr.New(apperr.Conflict, "cart is empty")
		}

		for _, it := range cur.Items {
			ok, err := tx.DecrementStock(ctx, it.VariantID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Newf(apperr.Conflict, "insufficient stock for %s (size %s)",
					it.ProductName, it.VariantSize)
			}
		}

		order = buildOrder(userID, cur, in.ShippingAddress, in.PaymentMethod, in.Notes, s.cfg.ShippingFee, s.cfg.TaxRate)
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.InsertLineItems(ctx, order.LineItems); err != nil {
			return err
		}

		if err := tx.DeleteCartItems(ctx, cur.ID); err != nil {
			return err
		}
		won, err := tx.CompleteCart(ctx, cur.ID, order.ID, order.CreatedAt)
		if err != nil {
			return err
		}
		if !won {
			return apperr.New(apperr.Conflict, "cart was already checked out")
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.Internal {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.Internal, "checkout failed", err)
	}

	log.Printf("[Checkout] order %s placed by user %s (%s)", order.OrderNumber, userID, order.Total)
	s.publishPlaced(ctx, order)

	return order, nil
}

func (s *Service) publishPlaced(ctx context.Context, order *model.Order) {
	if s.publisher == nil {
		return
	}
	evt := events.OrderPlaced{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Email:       s.userEmail(ctx, order.UserID),
		Total:       order.Total,
		Lines:       eventLines(order.LineItems),
	}
	if err := s.publisher.Publish(ctx, events.TopicOrderPlaced, order.ID, evt); err != nil {
		log.Printf("[Checkout] failed to publish %s for order %s: %v", events.TopicOrderPlaced, order.ID, err)
	}
}

func (s *Service) userEmail(ctx context.Context, userID string) string {
	u, err := s.gateway.UserByID(ctx, userID)
	if err != nil {
		log.Printf("[Checkout] failed to load user %s for notification: %v", userID, err)
		return ""
	}
	return u.Email
}

// buildOrder freezes the cart's lines into an immutable order record.
// Tax is computed on the line subtotal with the configured rate.
func buildOrder(userID string, c *model.Cart, address, method, notes string, shipping, taxRate decimal.Decimal) *model.Order {
	now := time.Now().UTC()
	order := &model.Order{
		ID:                uuid.NewString(),
		OrderNumber:       newOrderNumber(now),
		UserID:            userID,
		Status:            model.OrderPending,
		FinancialStatus:   model.FinancialPending,
		FulfillmentStatus: model.FulfillmentUnfulfilled,
		Shipping:          shipping,
		ShippingAddress:   address,
		PaymentMethod:     method,
		Notes:             notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	subtotal := decimal.Zero
	for _, it := range c.Items {
		lineTotal := money.Line(it.ItemPrice, it.Quantity)
		subtotal = subtotal.Add(lineTotal)
		order.LineItems = append(order.LineItems, model.OrderLineItem{
			ID:              uuid.NewString(),
			OrderID:         order.ID,
			ProductID:       it.ProductID,
			VariantID:       it.VariantID,
			ProductName:     it.ProductName,
			VariantSize:     it.VariantSize,
			SKU:             it.SKU,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.ItemPrice,
			LineTotal:       lineTotal,
		})
	}
	order.Subtotal = subtotal
	order.Tax = subtotal.Mul(taxRate).Round(2)
	order.Total = money.Sum(subtotal, order.Tax, order.Shipping)
	return order
}

func newOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102"), suffix)
}

func eventLines(items []model.OrderLineItem) []events.Line {
	lines := make([]events.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, events.Line{
			ProductName: it.ProductName,
			VariantSize: it.VariantSize,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal,
		})
	}
	return lines
}
