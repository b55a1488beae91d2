// Package order exposes read access to order history and the admin
// status transitions. Orders are immutable records; only their three
// status fields ever change, and only along the allowed transitions.
package order

import (
	"context"
	"errors"
	"log"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/authz"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/store"
)

type Service struct {
	gateway store.Gateway
}

func NewService(gateway store.Gateway) *Service {
	return &Service{gateway: gateway}
}

// ListMine returns the requesting user's orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]*model.Order, error) {
	orders, err := s.gateway.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list orders", err)
	}
	return orders, nil
}

// Get returns one order. Owners see their own orders; anyone else needs
// the orders:view-all capability.
func (s *Service) Get(ctx context.Context, requesterID string, role authz.Role, orderID string) (*model.Order, error) {
	o, err := s.gateway.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load order", err)
	}
	if o.UserID != requesterID && !authz.Allowed(role, authz.CapViewAllOrders) {
		return nil, apperr.New(apperr.Authorization, "order belongs to another user")
	}
	return o, nil
}

// List is the admin listing with filters and pagination.
func (s *Service) List(ctx context.Context, f model.OrderFilter) ([]*model.Order, error) {
	if f.Status != "" && !model.ValidOrderStatus(f.Status) {
		return nil, apperr.Invalid("invalid filter",
			apperr.FieldError{Path: "status", Message: "unknown order status"})
	}
	if f.FinancialStatus != "" && !model.ValidFinancialStatus(f.FinancialStatus) {
		return nil, apperr.Invalid("invalid filter",
			apperr.FieldError{Path: "financial_status", Message: "unknown financial status"})
	}
	if f.FulfillmentStatus != "" && !model.ValidFulfillmentStatus(f.FulfillmentStatus) {
		return nil, apperr.Invalid("invalid filter",
			apperr.FieldError{Path: "fulfillment_status", Message: "unknown fulfillment status"})
	}

	orders, err := s.gateway.ListOrders(ctx, f)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list orders", err)
	}
	return orders, nil
}

// UpdateStatus moves an order along the fulfillment pipeline. Illegal
// jumps (pending straight to delivered, mutating a cancelled order) are
// refused.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(next) {
		return nil, apperr.Invalid("invalid status",
			apperr.FieldError{Path: "status", Message: "unknown order status"})
	}

	o, err := s.gateway.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load order", err)
	}

	if !model.ValidOrderTransition(o.Status, next) {
		return nil, apperr.Newf(apperr.Conflict, "cannot move order from %s to %s", o.Status, next)
	}

	if err := s.gateway.SetOrderStatus(ctx, orderID, next); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update order status", err)
	}
	log.Printf("[Order] %s moved %s -> %s", o.OrderNumber, o.Status, next)

	o.Status = next
	return o, nil
}

// UpdateFinancialStatus records a payment-state change (refund, void).
func (s *Service) UpdateFinancialStatus(ctx context.Context, orderID string, next model.FinancialStatus) (*model.Order, error) {
	if !model.ValidFinancialStatus(next) {
		return nil, apperr.Invalid("invalid status",
			apperr.FieldError{Path: "financial_status", Message: "unknown financial status"})
	}

	o, err := s.gateway.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load order", err)
	}

	if err := s.gateway.SetFinancialStatus(ctx, orderID, next); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update financial status", err)
	}
	o.FinancialStatus = next
	return o, nil
}

// UpdateFulfillmentStatus records a shipment-state change.
func (s *Service) UpdateFulfillmentStatus(ctx context.Context, orderID string, next model.FulfillmentStatus) (*model.Order, error) {
	if !model.ValidFulfillmentStatus(next) {
		return nil, apperr.Invalid("invalid status",
			apperr.FieldError{Path: "fulfillment_status", Message: "unknown fulfillment status"})
	}

	o, err := s.gateway.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to load order", err)
	}

	if err := s.gateway.SetFulfillmentStatus(ctx, orderID, next); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update fulfillment status", err)
	}
	o.FulfillmentStatus = next
	return o, nil
}
