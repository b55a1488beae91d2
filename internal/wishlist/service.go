// Package wishlist lets users save product variants for later.
package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/store"
)

type Service struct {
	gateway store.Gateway
}

func NewService(gateway store.Gateway) *Service {
	return &Service{gateway: gateway}
}

// List returns the user's saved variants with display fields.
func (s *Service) List(ctx context.Context, userID string) ([]*model.WishlistEntry, error) {
	entries, err := s.gateway.WishlistByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list wishlist", err)
	}
	return entries, nil
}

// Add saves a variant. Saving the same variant twice is a conflict.
func (s *Service) Add(ctx context.Context, userID, variantID string) (*model.WishlistEntry, error) {
	if _, err := s.gateway.VariantByID(ctx, variantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "variant not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load variant", err)
	}

	e := &model.WishlistEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		VariantID: variantID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.gateway.InsertWishlistEntry(ctx, e); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "variant already on wishlist")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to add wishlist entry", err)
	}
	return e, nil
}

// Remove deletes a saved variant.
func (s *Service) Remove(ctx context.Context, userID, variantID string) error {
	removed, err := s.gateway.DeleteWishlistEntry(ctx, userID, variantID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to remove wishlist entry", err)
	}
	if !removed {
		return apperr.New(apperr.NotFound, "variant not on wishlist")
	}
	return nil
}
