package paymentprocessor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	CallTimeout   time.Duration
}

type stripeImpl struct {
	api           *client.API
	webhookSecret string
	callTimeout   time.Duration
}

func NewStripe(cfg StripeConfig) Provider {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 15 * time.Second
	}
	return &stripeImpl{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		callTimeout:   cfg.CallTimeout,
	}
}

func (s *stripeImpl) Name() string {
	return "stripe"
}

func (s *stripeImpl) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, errors.Wrap(err, "stripe payment intent create error")
	}
	return convertIntent(pi), nil
}

func (s *stripeImpl) GetIntent(ctx context.Context, intentID string) (Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return Intent{}, ErrIntentNotFound
		}
		return Intent{}, errors.Wrap(err, "stripe payment intent get error")
	}
	return convertIntent(pi), nil
}

func (s *stripeImpl) Refund(ctx context.Context, intentID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	}
	params.Context = ctx
	if _, err := s.api.Refunds.New(params); err != nil {
		return errors.Wrap(err, "stripe refund error")
	}
	return nil
}

func (s *stripeImpl) ParseWebhook(payload []byte, signature string) (Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	result := Event{ID: event.ID, Type: EventIgnored}
	switch string(event.Type) {
	case string(EventIntentSucceeded), string(EventIntentFailed):
		var pi stripe.PaymentIntent
		if err = json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return Event{}, errors.Wrap(err, "payment intent payload decode error")
		}
		result.Type = EventType(event.Type)
		result.IntentID = pi.ID
		if pi.LastPaymentError != nil {
			result.FailureReason = pi.LastPaymentError.Msg
		}
	case string(EventChargeRefunded):
		var charge stripe.Charge
		if err = json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return Event{}, errors.Wrap(err, "charge payload decode error")
		}
		if charge.PaymentIntent == nil {
			log.WithField("event_id", event.ID).Warn("refunded charge has no payment intent")
			return result, nil
		}
		result.Type = EventChargeRefunded
		result.IntentID = charge.PaymentIntent.ID
	}
	return result, nil
}

func convertIntent(pi *stripe.PaymentIntent) Intent {
	result := Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
		RawStatus:    string(pi.Status),
		Status:       MapIntentStatus(string(pi.Status)),
		Metadata:     pi.Metadata,
	}
	if pi.LastPaymentError != nil {
		result.FailureReason = pi.LastPaymentError.Msg
	}
	return result
}
