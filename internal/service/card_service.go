package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/events"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/store"
)

// Paging limits for card listings and searches.
const (
	DefaultCardLimit = 100
	MaxCardLimit     = 1000
)

// CardService manages knowledge cards.
type CardService interface {
	// CreateCard saves a card. When keywords is empty, keyword extraction
	// is requested in the background.
	CreateCard(ctx context.Context, title, content string, keywords []string) (*domain.KnowledgeCard, error)
	GetCard(ctx context.Context, id uuid.UUID) (*domain.KnowledgeCard, error)
	ListCards(ctx context.Context, skip, limit int) ([]*domain.KnowledgeCard, error)

	// UpdateCard replaces title and content. A nil keywords slice keeps the
	// stored keywords and requests re-extraction.
	UpdateCard(ctx context.Context, id uuid.UUID, title, content string, keywords []string) (*domain.KnowledgeCard, error)
	DeleteCard(ctx context.Context, id uuid.UUID) error
	SearchCards(ctx context.Context, query string, limit int) ([]*domain.KnowledgeCard, error)
	SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]*domain.KnowledgeCard, error)
}

type cardService struct {
	cards   store.KnowledgeCardStore
	emitter events.Emitter
	logger  *slog.Logger
}

const cardServiceName = "card"

// NewCardService creates a CardService.
func NewCardService(cards store.KnowledgeCardStore, emitter events.Emitter, logger *slog.Logger) (CardService, error) {
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardService{
		cards:   cards,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "card_service")),
	}, nil
}

func (s *cardService) CreateCard(
	ctx context.Context,
	title, content string,
	keywords []string,
) (*domain.KnowledgeCard, error) {
	card, err := domain.NewKnowledgeCard(title, content, keywords)
	if err != nil {
		return nil, err
	}

	if err := s.cards.Create(ctx, card); err != nil {
		return nil, wrapError(cardServiceName, "create_card", "failed to save card", err)
	}

	if len(card.Keywords) == 0 {
		s.requestIndex(ctx, card.ID)
	}
	return card, nil
}

func (s *cardService) GetCard(ctx context.Context, id uuid.UUID) (*domain.KnowledgeCard, error) {
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError(cardServiceName, "get_card", "failed to load card", err)
	}
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, skip, limit int) ([]*domain.KnowledgeCard, error) {
	if skip < 0 {
		return nil, domain.NewValidationError("skip", "cannot be negative", domain.ErrValidation)
	}
	cards, err := s.cards.List(ctx, clampLimit(limit), skip)
	if err != nil {
		return nil, wrapError(cardServiceName, "list_cards", "failed to list cards", err)
	}
	return cards, nil
}

func (s *cardService) UpdateCard(
	ctx context.Context,
	id uuid.UUID,
	title, content string,
	keywords []string,
) (*domain.KnowledgeCard, error) {
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError(cardServiceName, "update_card", "failed to load card", err)
	}

	if err := card.Update(title, content, keywords); err != nil {
		return nil, err
	}

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, wrapError(cardServiceName, "update_card", "failed to save card", err)
	}

	if len(card.Keywords) == 0 {
		s.requestIndex(ctx, card.ID)
	}
	return card, nil
}

func (s *cardService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	if err := s.cards.Delete(ctx, id); err != nil {
		return wrapError(cardServiceName, "delete_card", "failed to delete card", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("card deleted", slog.String("card_id", id.String()))
	return nil
}

func (s *cardService) SearchCards(ctx context.Context, query string, limit int) ([]*domain.KnowledgeCard, error) {
	if query == "" {
		return nil, domain.NewValidationError("query", "is required", domain.ErrEmptyContent)
	}
	cards, err := s.cards.Search(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, wrapError(cardServiceName, "search_cards", "search failed", err)
	}
	return cards, nil
}

func (s *cardService) SearchByKeywords(
	ctx context.Context,
	keywords []string,
	limit int,
) ([]*domain.KnowledgeCard, error) {
	if len(keywords) == 0 {
		return nil, domain.NewValidationError("keywords", "must not be empty", domain.ErrEmptyContent)
	}
	cards, err := s.cards.SearchByKeywords(ctx, keywords, clampLimit(limit))
	if err != nil {
		return nil, wrapError(cardServiceName, "search_by_keywords", "search failed", err)
	}
	return cards, nil
}

// requestIndex emits card.index_requested. A failure is logged and does not
// undo the write that triggered it.
func (s *cardService) requestIndex(ctx context.Context, cardID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("card_id", cardID.String()))

	event, err := events.NewCardIndexRequested(cardID)
	if err != nil {
		log.Error("failed to build index event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		log.Warn("keyword indexing not scheduled", slog.String("error", err.Error()))
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultCardLimit
	}
	return min(limit, MaxCardLimit)
}
