package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submitRecorder struct {
	tasks []Task
	err   error
}

func (s *submitRecorder) Submit(_ context.Context, t Task) error {
	if s.err != nil {
		return s.err
	}
	s.tasks = append(s.tasks, t)
	return nil
}

func TestIndexEventHandler(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t, newFakeCards())

	t.Run("submits a keyword index task", func(t *testing.T) {
		sub := &submitRecorder{}
		h := NewIndexEventHandler(factory, sub, discardLogger())

		cardID := uuid.New()
		event, err := events.NewCardIndexRequested(cardID)
		require.NoError(t, err)

		require.NoError(t, h.HandleEvent(ctx, event))
		require.Len(t, sub.tasks, 1)
		assert.Equal(t, TypeKeywordIndex, sub.tasks[0].Type())
		assert.Equal(t, cardID, sub.tasks[0].(*KeywordIndexTask).CardID())
	})

	t.Run("ignores other events", func(t *testing.T) {
		sub := &submitRecorder{}
		h := NewIndexEventHandler(factory, sub, nil)

		event, err := events.NewEvent("session.created", map[string]string{})
		require.NoError(t, err)

		require.NoError(t, h.HandleEvent(ctx, event))
		assert.Empty(t, sub.tasks)
	})

	t.Run("rejects missing card id", func(t *testing.T) {
		h := NewIndexEventHandler(factory, &submitRecorder{}, nil)
		event, err := events.NewEvent(events.TypeCardIndexRequested, map[string]string{})
		require.NoError(t, err)

		assert.ErrorContains(t, h.HandleEvent(ctx, event), "card_id")
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		h := NewIndexEventHandler(factory, &submitRecorder{}, nil)
		event := &events.Event{ID: uuid.New(), Type: events.TypeCardIndexRequested, Payload: []byte(`"nope"`)}

		assert.ErrorContains(t, h.HandleEvent(ctx, event), "decode")
	})

	t.Run("submit failure", func(t *testing.T) {
		h := NewIndexEventHandler(factory, &submitRecorder{err: ErrQueueFull}, nil)
		event, err := events.NewCardIndexRequested(uuid.New())
		require.NoError(t, err)

		assert.ErrorIs(t, h.HandleEvent(ctx, event), ErrQueueFull)
	})

	t.Run("through the emitter", func(t *testing.T) {
		sub := &submitRecorder{}
		emitter := events.NewInMemoryEmitter(discardLogger())
		emitter.Subscribe(NewIndexEventHandler(factory, sub, nil), events.TypeCardIndexRequested)

		event, err := events.NewCardIndexRequested(uuid.New())
		require.NoError(t, err)
		require.NoError(t, emitter.Emit(ctx, event))
		assert.Len(t, sub.tasks, 1)
	})
}
