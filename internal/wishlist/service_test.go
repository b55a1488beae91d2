package wishlist

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/store/mocks"
)

func newTestService() (*Service, *mocks.MockGateway) {
	gw := mocks.NewMockGateway()
	gw.SeedProduct(
		&model.Product{ID: "prod-1", Name: "Canvas Sneaker"},
		&model.ProductVariant{
			ID: "var-1", ProductID: "prod-1", Size: "42", SKU: "SNK-42",
			Price: decimal.RequireFromString("59.90"),
		},
	)
	return NewService(gw), gw
}

func TestAddAndList(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Add(context.Background(), "user-1", "var-1")
	require.NoError(t, err)

	entries, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "var-1", entries[0].VariantID)
	assert.Equal(t, "Canvas Sneaker", entries[0].ProductName)
	assert.Equal(t, "42", entries[0].VariantSize)
	assert.True(t, entries[0].Price.Equal(decimal.RequireFromString("59.90")))
}

func TestAdd_DuplicateIsConflict(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Add(context.Background(), "user-1", "var-1")
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), "user-1", "var-1")
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestAdd_UnknownVariantIsNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Add(context.Background(), "user-1", "missing")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestRemove(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Add(context.Background(), "user-1", "var-1")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), "user-1", "var-1"))

	entries, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemove_MissingEntryIsNotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.Remove(context.Background(), "user-1", "var-1")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
