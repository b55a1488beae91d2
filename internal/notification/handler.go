// Package notification turns order-lifecycle events into emails. The
// events carry the recipient and line summaries, so the handler never
// touches the database.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront-api/internal/events"
)

// Sender is the slice of the email service the handler needs.
type Sender interface {
	SendOrderConfirmation(evt events.OrderPlaced) error
	SendPaymentConfirmation(evt events.OrderSettled) error
	SendSettlementAlert(opsAddress string, evt events.SettlementFailed) error
}

type Handler struct {
	sender     Sender
	opsAddress string
}

// NewHandler creates a notification handler. opsAddress receives
// settlement-failure alerts.
func NewHandler(sender Sender, opsAddress string) *Handler {
	return &Handler{sender: sender, opsAddress: opsAddress}
}

// HandleOrderPlaced consumes the direct-checkout topic.
func (h *Handler) HandleOrderPlaced(ctx context.Context, key, value []byte) error {
	var evt events.OrderPlaced
	if err := json.Unmarshal(value, &evt); err != nil {
		log.Printf("[Notifier] malformed %s event: %v", events.TopicOrderPlaced, err)
		return nil
	}
	if evt.Email == "" {
		log.Printf("[Notifier] order %s has no recipient, skipping", evt.OrderID)
		return nil
	}

	if err := h.sender.SendOrderConfirmation(evt); err != nil {
		log.Printf("[Notifier] failed to mail confirmation for order %s: %v", evt.OrderID, err)
		return err
	}
	log.Printf("[Notifier] order confirmation sent to %s for %s", evt.Email, evt.OrderNumber)
	return nil
}

// HandleOrderSettled consumes the settlement topic.
func (h *Handler) HandleOrderSettled(ctx context.Context, key, value []byte) error {
	var evt events.OrderSettled
	if err := json.Unmarshal(value, &evt); err != nil {
		log.Printf("[Notifier] malformed %s event: %v", events.TopicOrderSettled, err)
		return nil
	}
	if evt.Email == "" {
		log.Printf("[Notifier] order %s has no recipient, skipping", evt.OrderID)
		return nil
	}

	if err := h.sender.SendPaymentConfirmation(evt); err != nil {
		log.Printf("[Notifier] failed to mail payment confirmation for order %s: %v", evt.OrderID, err)
		return err
	}
	log.Printf("[Notifier] payment confirmation sent to %s for %s", evt.Email, evt.OrderNumber)
	return nil
}

// HandleSettlementFailed consumes the failure topic and alerts
// operations.
func (h *Handler) HandleSettlementFailed(ctx context.Context, key, value []byte) error {
	var evt events.SettlementFailed
	if err := json.Unmarshal(value, &evt); err != nil {
		log.Printf("[Notifier] malformed %s event: %v", events.TopicSettlementFailed, err)
		return nil
	}

	if err := h.sender.SendSettlementAlert(h.opsAddress, evt); err != nil {
		log.Printf("[Notifier] failed to mail settlement alert for payment %s: %v", evt.GatewayPaymentID, err)
		return err
	}
	log.Printf("[Notifier] settlement alert sent for payment %s", evt.GatewayPaymentID)
	return nil
}
