package paymentprocessor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Fake is an in-memory Provider. Webhook payloads are JSON encoded FakeWebhook values signed with the secret verbatim.
type Fake struct {
	Secret string

	mu      sync.Mutex
	seq     atomic.Int64
	intents map[string]*Intent
	refunds []string
}

type FakeWebhook struct {
	ID       string    `json:"id"`
	Type     EventType `json:"type"`
	IntentID string    `json:"intent_id"`
	Reason   string    `json:"reason"`
}

func NewFake(secret string) *Fake {
	return &Fake{
		Secret:  secret,
		intents: map[string]*Intent{},
	}
}

func (f *Fake) Name() string {
	return "fake"
}

func (f *Fake) CreateIntent(_ context.Context, amountCents int64, currency string, metadata map[string]string) (Intent, error) {
	id := fmt.Sprintf("pi_fake_%d", f.seq.Add(1))
	intent := &Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		AmountCents:  amountCents,
		Currency:     currency,
		Status:       IntentPending,
		RawStatus:    "requires_confirmation",
		Metadata:     metadata,
	}
	f.mu.Lock()
	f.intents[id] = intent
	f.mu.Unlock()
	return *intent, nil
}

func (f *Fake) GetIntent(_ context.Context, intentID string) (Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent, ok := f.intents[intentID]
	if !ok {
		return Intent{}, ErrIntentNotFound
	}
	return *intent, nil
}

func (f *Fake) Refund(_ context.Context, intentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent, ok := f.intents[intentID]
	if !ok {
		return ErrIntentNotFound
	}
	if intent.Status != IntentSucceeded {
		return errors.New("only succeeded intents can be refunded")
	}
	f.refunds = append(f.refunds, intentID)
	return nil
}

func (f *Fake) ParseWebhook(payload []byte, signature string) (Event, error) {
	if signature != f.Secret {
		return Event{}, ErrInvalidSignature
	}
	var hook FakeWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return Event{}, errors.Wrap(err, "webhook payload decode error")
	}
	return Event{ID: hook.ID, Type: hook.Type, IntentID: hook.IntentID, FailureReason: hook.Reason}, nil
}

// SetStatus simulates the client completing or abandoning the intent.
func (f *Fake) SetStatus(intentID, rawStatus string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if intent, ok := f.intents[intentID]; ok {
		intent.RawStatus = rawStatus
		intent.Status = MapIntentStatus(rawStatus)
	}
}

func (f *Fake) Refunds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.refunds...)
}
