package paymentprocessor

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrIntentNotFound   = errors.New("payment intent not found")
)

// IntentStatus is the processor-side status reduced to what the payment flow distinguishes.
type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentSucceeded IntentStatus = "succeeded"
	IntentFailed    IntentStatus = "failed"
)

type Intent struct {
	ID            string
	ClientSecret  string
	AmountCents   int64
	Currency      string
	Status        IntentStatus
	RawStatus     string
	FailureReason string
	Metadata      map[string]string
}

type EventType string

const (
	EventIntentSucceeded EventType = "payment_intent.succeeded"
	EventIntentFailed    EventType = "payment_intent.payment_failed"
	EventChargeRefunded  EventType = "charge.refunded"
	EventIgnored         EventType = "ignored"
)

type Event struct {
	ID            string
	Type          EventType
	IntentID      string
	FailureReason string
}

// Provider is the payment processor boundary. Implementations never touch the database.
type Provider interface {
	Name() string
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (Intent, error)
	GetIntent(ctx context.Context, intentID string) (Intent, error)
	Refund(ctx context.Context, intentID string) error
	ParseWebhook(payload []byte, signature string) (Event, error)
}

// MapIntentStatus converts a raw processor status.
func MapIntentStatus(raw string) IntentStatus {
	switch raw {
	case "succeeded":
		return IntentSucceeded
	case "canceled", "requires_payment_method":
		return IntentFailed
	default:
		return IntentPending
	}
}
