package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// Webhook Signature Tests
// ============================================================

const testSecret = "whsec_test_0123456789abcdef"

func TestVerifySignature_ValidHeader(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := Sign(payload, testSecret, time.Now())

	err := VerifySignature(payload, header, testSecret, DefaultTolerance)
	assert.NoError(t, err)
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	payload := []byte(`{"amount_total":5990}`)
	header := Sign(payload, testSecret, time.Now())

	tampered := []byte(`{"amount_total":1}`)
	err := VerifySignature(tampered, header, testSecret, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := Sign(payload, "whsec_other", time.Now())

	err := VerifySignature(payload, header, testSecret, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := Sign(payload, testSecret, time.Now().Add(-10*time.Minute))

	err := VerifySignature(payload, header, testSecret, DefaultTolerance)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerifySignature_FutureTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := Sign(payload, testSecret, time.Now().Add(10*time.Minute))

	err := VerifySignature(payload, header, testSecret, DefaultTolerance)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerifySignature_ZeroToleranceSkipsAgeCheck(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := Sign(payload, testSecret, time.Now().Add(-24*time.Hour))

	err := VerifySignature(payload, header, testSecret, 0)
	assert.NoError(t, err)
}

func TestVerifySignature_MalformedHeaders(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)

	for _, header := range []string{
		"",
		"garbage",
		"t=1700000000",
		"v1=deadbeef",
		"t=notanumber,v1=deadbeef",
	} {
		err := VerifySignature(payload, header, testSecret, 0)
		assert.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestVerifySignature_AcceptsAnyMatchingCandidate(t *testing.T) {
	// Gateways send multiple v1 entries during secret rotation; one
	// match is enough.
	payload := []byte(`{"id":"evt_1"}`)
	valid := Sign(payload, testSecret, time.Now())

	header := fmt.Sprintf("%s,v1=%s", valid, "0000000000000000000000000000000000000000000000000000000000000000")
	err := VerifySignature(payload, header, testSecret, DefaultTolerance)
	assert.NoError(t, err)
}

// ============================================================
// Event Parsing Tests
// ============================================================

func TestParseEvent_CompletedSession(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"payment_status": "paid",
				"amount_total": 11980,
				"currency": "eur",
				"metadata": {"user_id": "user-1", "cart_id": "cart-1"}
			}
		}
	}`)

	evt, err := ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "checkout.session.completed", evt.Type)
	assert.Equal(t, "cs_test_1", evt.Data.Object.ID)
	assert.Equal(t, "paid", evt.Data.Object.PaymentStatus)
	assert.Equal(t, int64(11980), evt.Data.Object.AmountTotal)
	assert.Equal(t, "user-1", evt.Data.Object.Metadata["user_id"])
}

func TestParseEvent_RejectsGarbage(t *testing.T) {
	_, err := ParseEvent([]byte("not json"))
	assert.Error(t, err)
}
