package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardIndexRequested(t *testing.T) {
	cardID := uuid.New()

	event, err := NewCardIndexRequested(cardID)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeCardIndexRequested, event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)
	assert.JSONEq(t, `{"card_id":"`+cardID.String()+`"}`, string(event.Payload))

	var payload CardIndexPayload
	require.NoError(t, event.DecodePayload(&payload))
	assert.Equal(t, cardID, payload.CardID)
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := NewEvent("broken", make(chan int))
	assert.Error(t, err)
}
