// Package payment is the client for the hosted-checkout payment gateway:
// session creation, session lookup, and verification/parsing of the
// webhook events the gateway delivers on settlement.
package payment

import "encoding/json"

// Event kinds delivered to the webhook endpoint. Unrecognized kinds are
// ignored by the settlement pipeline, which keeps the handler
// forward-compatible with new gateway event types.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventCheckoutSessionExpired   = "checkout.session.expired"
)

// Metadata keys embedded into a session at creation and echoed back by
// the gateway on settlement (correlation metadata).
const (
	MetadataUserID = "user_id"
	MetadataCartID = "cart_id"
)

// CheckoutSession is the gateway's hosted payment session object.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url,omitempty"`
	PaymentID     string            `json:"payment_id,omitempty"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Event is the webhook event envelope.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

// ParseEvent decodes a raw event payload. Callers must have verified the
// signature over the same bytes first.
func ParseEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
