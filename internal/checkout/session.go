package checkout

import (
	"context"
	"errors"
	"log"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/money"
	"github.com/example/storefront-api/internal/payment"
	"github.com/example/storefront-api/internal/store"
)

// Session is what the API returns for a created hosted-payment session.
type Session struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

// CreateSession opens a hosted payment session at the gateway for the
// given cart. Nothing local is mutated: the cart stays ACTIVE and stock
// untouched until the gateway's settlement webhook arrives. Stock is
// checked first purely as an advisory courtesy so obviously doomed
// sessions are refused before the buyer reaches the payment page; the
// binding check happens at settlement.
func (s *Service) CreateSession(ctx context.Context, userID, cartID string) (*Session, error) {
	if cartID == "" {
		return nil, apperr.New(apperr.Validation, "cart_id is required")
	}

	c, err := s.gateway.CartByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "cart not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load cart", err)
	}
	if c.UserID != userID {
		return nil, apperr.New(apperr.Authorization, "cart belongs to another user")
	}
	if c.Status != model.CartActive {
		return nil, apperr.New(apperr.Conflict, "cart is no longer active")
	}
	if len(c.Items) == 0 {
		return nil, apperr.New(apperr.Conflict, "cart is empty")
	}

	for _, it := range c.Items {
		variant, err := s.gateway.VariantByID(ctx, it.VariantID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to load variant", err)
		}
		if variant.Stock < it.Quantity {
			return nil, apperr.Newf(apperr.Conflict, "insufficient stock for %s (size %s)",
				it.ProductName, it.VariantSize)
		}
	}

	params := payment.SessionParams{
		Currency:   s.cfg.Currency,
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
		Metadata: map[string]string{
			payment.MetadataUserID: userID,
			payment.MetadataCartID: c.ID,
		},
	}
	for _, it := range c.Items {
		params.LineItems = append(params.LineItems, payment.LineItem{
			Name:       it.ProductName,
			Variant:    it.VariantSize,
			UnitAmount: money.MinorUnits(it.ItemPrice),
			Quantity:   it.Quantity,
		})
	}

	session, err := s.payments.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "payment gateway unavailable", err)
	}

	log.Printf("[Checkout] session %s opened for cart %s (user %s)", session.ID, c.ID, userID)
	return &Session{ID: session.ID, URL: session.URL}, nil
}

// SessionStatus proxies the gateway's view of a session. The correlation
// metadata gates access: a session opened for another user's cart is not
// visible.
func (s *Service) SessionStatus(ctx context.Context, userID, sessionID string) (*payment.CheckoutSession, error) {
	session, err := s.payments.GetSession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "payment gateway unavailable", err)
	}
	if owner := session.Metadata[payment.MetadataUserID]; owner != "" && owner != userID {
		return nil, apperr.New(apperr.Authorization, "session belongs to another user")
	}
	return session, nil
}
