package api

import (
	"io"
	"net/http"

	"github.com/example/storefront-api/internal/apperr"
)

// signatureHeader carries the gateway's timestamped HMAC signature.
const signatureHeader = "Gateway-Signature"

// maxWebhookBytes bounds webhook payloads.
const maxWebhookBytes = 256 << 10

// PaymentWebhook receives settlement events from the payment gateway.
// The raw body is passed through untouched: the signature covers the
// exact bytes sent, so re-encoding before verification would break it.
// 2xx acknowledges the event; 5xx makes the gateway redeliver.
func (h *Handlers) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		respondError(w, apperr.Wrap(apperr.Validation, "unreadable webhook body", err))
		return
	}

	if err := h.checkout.HandleWebhook(r.Context(), payload, r.Header.Get(signatureHeader)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"received": "true"})
}
