package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test"

func signedPayload(t *testing.T, payload string) (string, string) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return string(signed.Payload), signed.Header
}

func TestStripeParseWebhookCheckoutCompleted(t *testing.T) {
	sc := NewStripeCheckout("sk_test", testWebhookSecret)
	payload, header := signedPayload(t, `{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"object": "checkout.session",
			"status": "complete",
			"payment_status": "paid",
			"amount_total": 1999,
			"currency": "usd",
			"metadata": {"user_id": "u1", "product": "premium_subscription"}
		}}
	}`)

	event, err := sc.ParseWebhook([]byte(payload), header)

	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	require.NotNil(t, event.Session)
	assert.Equal(t, "cs_1", event.Session.ID)
	assert.True(t, event.Session.Paid())
	assert.Equal(t, int64(1999), event.Session.AmountTotal)
	assert.Equal(t, "u1", event.Session.Metadata["user_id"])
}

func TestStripeParseWebhookOtherEventHasNoSession(t *testing.T) {
	sc := NewStripeCheckout("sk_test", testWebhookSecret)
	payload, header := signedPayload(t, `{"id":"evt_2","object":"event","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)

	event, err := sc.ParseWebhook([]byte(payload), header)

	require.NoError(t, err)
	assert.Nil(t, event.Session)
}

func TestStripeParseWebhookRejectsBadSignature(t *testing.T) {
	sc := NewStripeCheckout("sk_test", testWebhookSecret)
	payload, _ := signedPayload(t, `{"id":"evt_3","object":"event","type":"checkout.session.completed"}`)

	_, err := sc.ParseWebhook([]byte(payload), "t=1,v1=deadbeef")

	assert.ErrorIs(t, err, ErrInvalidSignature)
}
