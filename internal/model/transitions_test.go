package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidOrderTransition(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderPending, OrderProcessing},
		{OrderPending, OrderCancelled},
		{OrderProcessing, OrderShipped},
		{OrderProcessing, OrderCancelled},
		{OrderShipped, OrderDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, ValidOrderTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct{ from, to OrderStatus }{
		{OrderPending, OrderShipped},
		{OrderPending, OrderDelivered},
		{OrderShipped, OrderCancelled},
		{OrderDelivered, OrderPending},
		{OrderCancelled, OrderProcessing},
		{OrderPending, OrderPending},
	}
	for _, tc := range forbidden {
		assert.False(t, ValidOrderTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatuses(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderProcessing))
	assert.False(t, ValidOrderStatus(OrderStatus("ARCHIVED")))

	assert.True(t, ValidFinancialStatus(FinancialRefunded))
	assert.False(t, ValidFinancialStatus(FinancialStatus("disputed")))

	assert.True(t, ValidFulfillmentStatus(FulfillmentPartial))
	assert.False(t, ValidFulfillmentStatus(FulfillmentStatus("lost")))
}
