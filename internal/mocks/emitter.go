package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/metanav/internal/events"
)

// Emitter records emitted events and returns Err.
type Emitter struct {
	Err error

	mu     sync.Mutex
	events []*events.Event
}

var _ events.Emitter = (*Emitter)(nil)

func (e *Emitter) Emit(_ context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.Err
}

// Events returns the events emitted so far.
func (e *Emitter) Events() []*events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*events.Event(nil), e.events...)
}
