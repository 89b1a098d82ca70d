package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by the services.
const (
	// TypeCardIndexRequested asks for a knowledge card's keywords to be
	// (re)extracted. Payload: CardIndexPayload.
	TypeCardIndexRequested = "card.index_requested"
)

// Event is a typed notification with a JSON payload.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// CardIndexPayload identifies the card to index.
type CardIndexPayload struct {
	CardID uuid.UUID `json:"card_id"`
}

// NewEvent builds an event of the given type, encoding payload as JSON.
func NewEvent(eventType string, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewCardIndexRequested builds a TypeCardIndexRequested event for cardID.
func NewCardIndexRequested(cardID uuid.UUID) (*Event, error) {
	return NewEvent(TypeCardIndexRequested, CardIndexPayload{CardID: cardID})
}

// DecodePayload unmarshals the payload into v.
func (e *Event) DecodePayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Handler reacts to events it has subscribed to.
type Handler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Emitter publishes events.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}
