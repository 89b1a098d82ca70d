package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/store"
)

// CardRepository is the part of the card store keyword indexing needs.
type CardRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeCard, error)
	FillKeywords(ctx context.Context, id uuid.UUID, keywords []string) (bool, error)
}

// KeywordExtractor returns up to limit keywords found in text.
type KeywordExtractor interface {
	Extract(text string, limit int) []string
}

// KeywordIndexPayload is the persisted payload of a keyword index task.
type KeywordIndexPayload struct {
	CardID uuid.UUID `json:"card_id"`
}

// KeywordIndexTask fills a card that has no keywords with those extracted
// from its title and content.
type KeywordIndexTask struct {
	id      uuid.UUID
	cardID  uuid.UUID
	status  Status
	payload []byte

	cards     CardRepository
	extractor KeywordExtractor
	limit     int
	logger    *slog.Logger
}

var _ Task = (*KeywordIndexTask)(nil)

func (t *KeywordIndexTask) ID() uuid.UUID   { return t.id }
func (t *KeywordIndexTask) Type() string    { return TypeKeywordIndex }
func (t *KeywordIndexTask) Payload() []byte { return t.payload }
func (t *KeywordIndexTask) Status() Status  { return t.status }

// CardID is the card being indexed.
func (t *KeywordIndexTask) CardID() uuid.UUID { return t.cardID }

// Execute loads the card, extracts keywords and stores them. A card deleted
// before the task runs, or one that was given keywords in the meantime, is
// left alone and the task completes.
func (t *KeywordIndexTask) Execute(ctx context.Context) error {
	t.status = StatusProcessing
	log := t.logger.With(
		slog.String("task_id", t.id.String()),
		slog.String("card_id", t.cardID.String()),
	)

	card, err := t.cards.GetByID(ctx, t.cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("card no longer exists, nothing to index")
			t.status = StatusCompleted
			return nil
		}
		t.status = StatusFailed
		return fmt.Errorf("failed to load card: %w", err)
	}

	if len(card.Keywords) > 0 {
		log.Debug("card already has keywords, skipping")
		t.status = StatusCompleted
		return nil
	}

	keywords := t.extractor.Extract(card.IndexText(), t.limit)

	filled, err := t.cards.FillKeywords(ctx, t.cardID, keywords)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("card deleted during indexing")
			t.status = StatusCompleted
			return nil
		}
		t.status = StatusFailed
		return fmt.Errorf("failed to save keywords: %w", err)
	}
	if !filled {
		log.Debug("card gained keywords during indexing, skipping")
		t.status = StatusCompleted
		return nil
	}

	log.Debug("card indexed", slog.Int("keyword_count", len(keywords)))
	t.status = StatusCompleted
	return nil
}

// KeywordIndexFactory builds keyword index tasks that share one card
// repository and extractor.
type KeywordIndexFactory struct {
	cards     CardRepository
	extractor KeywordExtractor
	limit     int
	logger    *slog.Logger
}

// NewKeywordIndexFactory creates a factory. limit is the number of keywords
// kept per card.
func NewKeywordIndexFactory(
	cards CardRepository,
	extractor KeywordExtractor,
	limit int,
	logger *slog.Logger,
) (*KeywordIndexFactory, error) {
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if extractor == nil {
		return nil, domain.NewValidationError("extractor", "cannot be nil", domain.ErrValidation)
	}
	if limit < 1 {
		return nil, domain.NewValidationError("limit", "must be positive", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &KeywordIndexFactory{
		cards:     cards,
		extractor: extractor,
		limit:     limit,
		logger:    logger.With(slog.String("component", "keyword_index_task")),
	}, nil
}

// CreateTask returns a new pending task for cardID.
func (f *KeywordIndexFactory) CreateTask(cardID uuid.UUID) (*KeywordIndexTask, error) {
	if cardID == uuid.Nil {
		return nil, domain.ErrCardIDEmpty
	}
	return f.build(uuid.New(), cardID, StatusPending)
}

// Rebuild restores a persisted task. Its signature matches Factory.
func (f *KeywordIndexFactory) Rebuild(id uuid.UUID, payload []byte, status Status) (Task, error) {
	var p KeywordIndexPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to decode keyword index payload: %w", err)
	}
	return f.build(id, p.CardID, status)
}

// Register adds the factory to registry under TypeKeywordIndex.
func (f *KeywordIndexFactory) Register(registry *Registry) {
	registry.Register(TypeKeywordIndex, f.Rebuild)
}

func (f *KeywordIndexFactory) build(id, cardID uuid.UUID, status Status) (*KeywordIndexTask, error) {
	payload, err := json.Marshal(KeywordIndexPayload{CardID: cardID})
	if err != nil {
		return nil, err
	}
	return &KeywordIndexTask{
		id:        id,
		cardID:    cardID,
		status:    status,
		payload:   payload,
		cards:     f.cards,
		extractor: f.extractor,
		limit:     f.limit,
		logger:    f.logger,
	}, nil
}
