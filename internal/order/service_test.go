package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/authz"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/store/mocks"
)

func seedOrder(t *testing.T, gw *mocks.MockGateway, id, userID string, status model.OrderStatus, createdAt time.Time) {
	t.Helper()
	require.NoError(t, gw.InsertOrder(context.Background(), &model.Order{
		ID:                id,
		OrderNumber:       "ORD-" + id,
		UserID:            userID,
		Status:            status,
		FinancialStatus:   model.FinancialPending,
		FulfillmentStatus: model.FulfillmentUnfulfilled,
		Total:             decimal.RequireFromString("10.00"),
		CreatedAt:         createdAt,
	}))
}

// ============================================================
// Queries
// ============================================================

func TestListMine_NewestFirstAndOnlyOwn(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	now := time.Now()
	seedOrder(t, gw, "o1", "user-1", model.OrderPending, now.Add(-2*time.Hour))
	seedOrder(t, gw, "o2", "user-1", model.OrderShipped, now)
	seedOrder(t, gw, "o3", "user-2", model.OrderPending, now.Add(-time.Hour))

	orders, err := svc.ListMine(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, "o1", orders[1].ID)
}

func TestGet_OwnerSeesOwnOrder(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	seedOrder(t, gw, "o1", "user-1", model.OrderPending, time.Now())

	o, err := svc.Get(context.Background(), "user-1", authz.RoleUser, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
}

func TestGet_OtherUsersOrderIsForbidden(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	seedOrder(t, gw, "o1", "user-1", model.OrderPending, time.Now())

	_, err := svc.Get(context.Background(), "user-2", authz.RoleUser, "o1")
	require.Error(t, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))
}

func TestGet_AdminSeesAnyOrder(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	seedOrder(t, gw, "o1", "user-1", model.OrderPending, time.Now())

	o, err := svc.Get(context.Background(), "admin-1", authz.RoleAdmin, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
}

func TestGet_UnknownOrderIsNotFound(t *testing.T) {
	svc := NewService(mocks.NewMockGateway())

	_, err := svc.Get(context.Background(), "user-1", authz.RoleUser, "missing")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestList_FiltersByStatus(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	now := time.Now()
	seedOrder(t, gw, "o1", "user-1", model.OrderPending, now)
	seedOrder(t, gw, "o2", "user-2", model.OrderShipped, now)

	orders, err := svc.List(context.Background(), model.OrderFilter{Status: model.OrderShipped})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o2", orders[0].ID)
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(mocks.NewMockGateway())

	_, err := svc.List(context.Background(), model.OrderFilter{Status: "teleported"})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

// ============================================================
// Status transitions
// ============================================================

func TestUpdateStatus_AllowedTransition(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	seedOrder(t, gw, "o1", "user-1", model.OrderPending, time.Now())

	o, err := svc.UpdateStatus(context.Background(), "o1", model.OrderProcessing)
	require.NoError(t, err)
	assert.Equal(t, model.OrderProcessing, o.Status)

	stored, err := gw.OrderByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderProcessing, stored.Status)
}

func TestUpdateStatus_IllegalJumpIsConflict(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	seedOrder(t, gw, "o1", "user-1", model.OrderPending, time.Now())

	_, err := svc.UpdateStatus(context.Background(), "o1", model.OrderDelivered)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	stored, err := gw.OrderByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, stored.Status, "illegal transition must not persist")
}

func TestUpdateStatus_CancelledIsTerminal(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	seedOrder(t, gw, "o1", "user-1", model.OrderCancelled, time.Now())

	_, err := svc.UpdateStatus(context.Background(), "o1", model.OrderProcessing)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestUpdateStatus_UnknownValueIsValidation(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	seedOrder(t, gw, "o1", "user-1", model.OrderPending, time.Now())

	_, err := svc.UpdateStatus(context.Background(), "o1", "warped")
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestUpdateFinancialStatus(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	seedOrder(t, gw, "o1", "user-1", model.OrderProcessing, time.Now())

	o, err := svc.UpdateFinancialStatus(context.Background(), "o1", model.FinancialRefunded)
	require.NoError(t, err)
	assert.Equal(t, model.FinancialRefunded, o.FinancialStatus)
}

func TestUpdateFulfillmentStatus(t *testing.T) {
	gw := mocks.NewMockGateway()
	svc := NewService(gw)
	seedOrder(t, gw, "o1", "user-1", model.OrderShipped, time.Now())

	o, err := svc.UpdateFulfillmentStatus(context.Background(), "o1", model.FulfillmentFulfilled)
	require.NoError(t, err)
	assert.Equal(t, model.FulfillmentFulfilled, o.FulfillmentStatus)
}
