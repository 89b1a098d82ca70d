package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/events"
)

// IndexEventHandler turns card.index_requested events into keyword index
// tasks and submits them.
type IndexEventHandler struct {
	factory   *KeywordIndexFactory
	submitter Submitter
	logger    *slog.Logger
}

var _ events.Handler = (*IndexEventHandler)(nil)

// NewIndexEventHandler creates the handler. Subscribe it to
// events.TypeCardIndexRequested.
func NewIndexEventHandler(factory *KeywordIndexFactory, submitter Submitter, logger *slog.Logger) *IndexEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexEventHandler{
		factory:   factory,
		submitter: submitter,
		logger:    logger.With(slog.String("component", "index_event_handler")),
	}
}

// HandleEvent implements events.Handler.
func (h *IndexEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeCardIndexRequested {
		h.logger.Debug("ignoring event", slog.String("event_type", event.Type))
		return nil
	}

	var payload events.CardIndexPayload
	if err := event.DecodePayload(&payload); err != nil {
		return fmt.Errorf("failed to decode payload of event %s: %w", event.ID, err)
	}
	if payload.CardID == uuid.Nil {
		return fmt.Errorf("event %s has no card_id", event.ID)
	}

	t, err := h.factory.CreateTask(payload.CardID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.submitter.Submit(ctx, t); err != nil {
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("keyword index task submitted",
		slog.String("task_id", t.ID().String()),
		slog.String("card_id", payload.CardID.String()),
		slog.String("event_id", event.ID.String()))
	return nil
}
