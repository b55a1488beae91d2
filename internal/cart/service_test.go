package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/store/mocks"
)

const (
	testUserID    = "user-1"
	testProductID = "prod-1"
	testVariantID = "var-1"
)

func newTestService(t *testing.T) (*Service, *mocks.MockGateway) {
	t.Helper()
	gw := mocks.NewMockGateway()
	gw.SeedProduct(
		&model.Product{ID: testProductID, Name: "Canvas Sneaker"},
		&model.ProductVariant{
			ID:        testVariantID,
			ProductID: testProductID,
			Size:      "42",
			SKU:       "SNK-42",
			Stock:     10,
			Price:     decimal.RequireFromString("59.90"),
		},
	)
	return NewService(gw), gw
}

// ============================================================
// Active cart
// ============================================================

func TestActiveCart_CreatesOnFirstAccess(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.ActiveCart(context.Background(), testUserID)
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, testUserID, c.UserID)
	assert.Equal(t, model.CartActive, c.Status)
	assert.Empty(t, c.Items)
	assert.True(t, c.TotalPrice.IsZero())
}

func TestActiveCart_ReturnsExistingCart(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.ActiveCart(context.Background(), testUserID)
	require.NoError(t, err)

	second, err := svc.ActiveCart(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

// ============================================================
// Add item
// ============================================================

func TestAddItem_NewItem(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, testVariantID, c.Items[0].VariantID)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.True(t, c.Items[0].ItemPrice.Equal(decimal.RequireFromString("59.90")))
	assert.True(t, c.TotalPrice.Equal(decimal.RequireFromString("119.80")),
		"total %s", c.TotalPrice)
}

func TestAddItem_SameVariantIncrementsAndRefreshesPrice(t *testing.T) {
	svc, gw := newTestService(t)

	_, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 1)
	require.NoError(t, err)

	// Catalog price changes between the two adds.
	v, err := gw.VariantByID(context.Background(), testVariantID)
	require.NoError(t, err)
	v.Price = decimal.RequireFromString("49.90")
	gw.SeedProduct(&model.Product{ID: testProductID, Name: "Canvas Sneaker"}, v)

	c, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.True(t, c.Items[0].ItemPrice.Equal(decimal.RequireFromString("49.90")))
	assert.True(t, c.TotalPrice.Equal(decimal.RequireFromString("149.70")),
		"total %s", c.TotalPrice)
}

func TestAddItem_ConcurrentAddsEachLandTheirIncrement(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 1)
	require.NoError(t, err)

	// Both adders start from the same pre-add view of the cart; the
	// relative increment must land both deltas anyway.
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 1)
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()

	c, err := svc.ActiveCart(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.True(t, c.TotalPrice.Equal(decimal.RequireFromString("179.70")),
		"total %s", c.TotalPrice)
}

func TestAddItem_VariantNotOnProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), testUserID, "prod-other", testVariantID, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 0)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestAddItem_RollsBackWhenTotalUpdateFails(t *testing.T) {
	svc, gw := newTestService(t)
	gw.FailOn["UpdateCartTotal"] = errors.New("connection reset")

	_, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 2)
	require.Error(t, err)

	delete(gw.FailOn, "UpdateCartTotal")
	c, err := svc.ActiveCart(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Empty(t, c.Items, "failed mutation must leave no partial item behind")
	assert.True(t, c.TotalPrice.IsZero())
}

// ============================================================
// Update and remove
// ============================================================

func TestUpdateItemQuantity_KeepsPriceSnapshotAndRecomputesTotal(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateItemQuantity(context.Background(), testUserID, c.Items[0].ID, 4)
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, 4, updated.Items[0].Quantity)
	assert.True(t, updated.Items[0].ItemPrice.Equal(decimal.RequireFromString("59.90")))
	assert.True(t, updated.TotalPrice.Equal(decimal.RequireFromString("239.60")),
		"total %s", updated.TotalPrice)
}

func TestRemoveItem(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 2)
	require.NoError(t, err)

	updated, err := svc.RemoveItem(context.Background(), testUserID, c.Items[0].ID)
	require.NoError(t, err)

	assert.Empty(t, updated.Items)
	assert.True(t, updated.TotalPrice.IsZero())
}

func TestRemoveItem_OtherUsersItemIsForbidden(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 2)
	require.NoError(t, err)

	_, err = svc.RemoveItem(context.Background(), "user-2", c.Items[0].ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))

	// The item must still be there.
	unchanged, err := svc.ActiveCart(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, unchanged.Items, 1)
}

func TestMutateCompletedCartIsConflict(t *testing.T) {
	svc, gw := newTestService(t)

	c, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 1)
	require.NoError(t, err)

	ok, err := gw.CompleteCart(context.Background(), c.ID, "order-1", time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.UpdateItemQuantity(context.Background(), testUserID, c.Items[0].ID, 2)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestClear(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), testUserID, testProductID, testVariantID, 3)
	require.NoError(t, err)

	cleared, err := svc.Clear(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Empty(t, cleared.Items)
	assert.True(t, cleared.TotalPrice.IsZero())
}
