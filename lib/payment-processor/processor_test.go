package paymentprocessor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapIntentStatus(t *testing.T) {
	t.Run("status mapping check", func(t *testing.T) {
		require.Equal(t, IntentSucceeded, MapIntentStatus("succeeded"))
		require.Equal(t, IntentFailed, MapIntentStatus("canceled"))
		require.Equal(t, IntentFailed, MapIntentStatus("requires_payment_method"))
		require.Equal(t, IntentPending, MapIntentStatus("processing"))
		require.Equal(t, IntentPending, MapIntentStatus("requires_action"))
	})
}

func TestFake(t *testing.T) {
	ctx := context.Background()
	t.Run("intent lifecycle check", func(t *testing.T) {
		fake := NewFake("whsec")
		intent, err := fake.CreateIntent(ctx, 2500, "usd", map[string]string{"payment_id": "p1"})
		require.NoError(t, err)
		require.Equal(t, IntentPending, intent.Status)
		require.Error(t, fake.Refund(ctx, intent.ID))

		fake.SetStatus(intent.ID, "succeeded")
		got, err := fake.GetIntent(ctx, intent.ID)
		require.NoError(t, err)
		require.Equal(t, IntentSucceeded, got.Status)
		require.NoError(t, fake.Refund(ctx, intent.ID))
		require.Equal(t, []string{intent.ID}, fake.Refunds())

		_, err = fake.GetIntent(ctx, "missing")
		require.ErrorIs(t, err, ErrIntentNotFound)
	})
	t.Run("webhook signature check", func(t *testing.T) {
		fake := NewFake("whsec")
		payload, err := json.Marshal(FakeWebhook{ID: "evt_1", Type: EventIntentSucceeded, IntentID: "pi_1"})
		require.NoError(t, err)
		_, err = fake.ParseWebhook(payload, "wrong")
		require.ErrorIs(t, err, ErrInvalidSignature)
		event, err := fake.ParseWebhook(payload, "whsec")
		require.NoError(t, err)
		require.Equal(t, EventIntentSucceeded, event.Type)
		require.Equal(t, "pi_1", event.IntentID)
	})
}

func TestStripeWebhook(t *testing.T) {
	t.Run("bad signature check", func(t *testing.T) {
		provider := NewStripe(StripeConfig{SecretKey: "sk_test_x", WebhookSecret: "whsec_test"})
		_, err := provider.ParseWebhook([]byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`), "t=1,v1=deadbeef")
		require.ErrorIs(t, err, ErrInvalidSignature)
	})
}
