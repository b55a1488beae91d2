// Package cart manages the single active shopping cart a user owns
// while browsing. Each mutation recomputes the cart total inside one
// transaction so the stored total always equals the sum of its lines.
package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/money"
	"github.com/example/storefront-api/internal/store"
)

// Service owns cart reads and mutations.
type Service struct {
	gateway store.Gateway
}

func NewService(gateway store.Gateway) *Service {
	return &Service{gateway: gateway}
}

// ActiveCart returns the user's active cart, creating an empty one on
// first access. Creation races with itself under concurrent requests;
// the partial unique index on active carts makes one insert win and the
// loser re-reads the winner's cart.
func (s *Service) ActiveCart(ctx context.Context, userID string) (*model.Cart, error) {
	c, err := s.gateway.ActiveCart(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Wrap(apperr.Internal, "failed to load cart", err)
	}

	now := time.Now().UTC()
	fresh := &model.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    model.CartActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.gateway.CreateCart(ctx, fresh); err != nil {
		if store.IsUniqueViolation(err) {
			return s.gateway.ActiveCart(ctx, userID)
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create cart", err)
	}

	log.Printf("[Cart] created cart %s for user %s", fresh.ID, userID)
	return fresh, nil
}

// AddItem puts quantity units of a variant into the user's active cart.
// The variant must belong to the stated product. Adding a variant
// already in the cart increments its quantity and refreshes the price
// snapshot to the current catalog price.
func (s *Service) AddItem(ctx context.Context, userID, productID, variantID string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, apperr.Invalid("invalid quantity", apperr.FieldError{Path: "quantity", Message: "must be at least 1"})
	}

	variant, err := s.gateway.VariantForProduct(ctx, productID, variantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "product variant not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load variant", err)
	}

	c, err := s.ActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.gateway.InTx(ctx, func(tx store.Tx) error {
		// Resolve the line inside the transaction; the snapshot above
		// is stale the moment a concurrent add commits.
		cur, err := tx.CartByID(ctx, c.ID)
		if err != nil {
			return err
		}

		var existing *model.CartItem
		for i := range cur.Items {
			if cur.Items[i].VariantID == variantID {
				existing = &cur.Items[i]
				break
			}
		}

		if existing != nil {
			// Relative increment: concurrent adds to the same line
			// queue on the row lock and each lands its own delta.
			if err := tx.IncrementCartItem(ctx, existing.ID, quantity, variant.Price); err != nil {
				return err
			}
		} else {
			item := &model.CartItem{
				ID:        uuid.NewString(),
				CartID:    c.ID,
				ProductID: productID,
				VariantID: variantID,
				Quantity:  quantity,
				ItemPrice: variant.Price,
				CreatedAt: time.Now().UTC(),
			}
			if err := tx.InsertCartItem(ctx, item); err != nil {
				return err
			}
		}

		return recomputeTotal(ctx, tx, c.ID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to add item", err)
	}

	return s.gateway.CartByID(ctx, c.ID)
}

// UpdateItemQuantity sets an item's quantity. The price snapshot is
// kept; only add-to-cart refreshes it.
func (s *Service) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, apperr.Invalid("invalid quantity", apperr.FieldError{Path: "quantity", Message: "must be at least 1"})
	}

	item, c, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	err = s.gateway.InTx(ctx, func(tx store.Tx) error {
		if err := tx.UpdateCartItem(ctx, itemID, quantity, item.ItemPrice); err != nil {
			return err
		}
		return recomputeTotal(ctx, tx, c.ID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update item", err)
	}

	return s.gateway.CartByID(ctx, c.ID)
}

// RemoveItem deletes an item from the user's active cart.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*model.Cart, error) {
	_, c, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	err = s.gateway.InTx(ctx, func(tx store.Tx) error {
		if err := tx.DeleteCartItem(ctx, itemID); err != nil {
			return err
		}
		return recomputeTotal(ctx, tx, c.ID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to remove item", err)
	}

	return s.gateway.CartByID(ctx, c.ID)
}

// Clear removes every item from the user's active cart.
func (s *Service) Clear(ctx context.Context, userID string) (*model.Cart, error) {
	c, err := s.ActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.gateway.InTx(ctx, func(tx store.Tx) error {
		if err := tx.DeleteCartItems(ctx, c.ID); err != nil {
			return err
		}
		return recomputeTotal(ctx, tx, c.ID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to clear cart", err)
	}

	return s.gateway.CartByID(ctx, c.ID)
}

// ownedItem loads an item and its cart, refusing items in carts that
// belong to someone else or are no longer active. Ownership failures
// are reported as forbidden, not as not-found, so the check fails
// closed before any mutation.
func (s *Service) ownedItem(ctx context.Context, userID, itemID string) (*model.CartItem, *model.Cart, error) {
	item, err := s.gateway.CartItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, apperr.New(apperr.NotFound, "cart item not found")
		}
		return nil, nil, apperr.Wrap(apperr.Internal, "failed to load cart item", err)
	}

	c, err := s.gateway.CartByID(ctx, item.CartID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "failed to load cart", err)
	}
	if c.UserID != userID {
		return nil, nil, apperr.New(apperr.Authorization, "cart item belongs to another user")
	}
	if c.Status != model.CartActive {
		return nil, nil, apperr.New(apperr.Conflict, "cart is no longer active")
	}

	return item, c, nil
}

// recomputeTotal rereads the cart's lines inside the transaction and
// stores their exact decimal sum.
func recomputeTotal(ctx context.Context, tx store.Tx, cartID string) error {
	c, err := tx.CartByID(ctx, cartID)
	if err != nil {
		return err
	}

	lines := make([]decimal.Decimal, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, money.Line(it.ItemPrice, it.Quantity))
	}
	total := money.Sum(lines...)
	return tx.UpdateCartTotal(ctx, cartID, total)
}
