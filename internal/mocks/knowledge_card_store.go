package mocks

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/store"
)

// KnowledgeCardStore is an in-memory store.KnowledgeCardStore. Listing and
// search return cards in insertion order.
type KnowledgeCardStore struct {
	CreateFn         func(ctx context.Context, card *domain.KnowledgeCard) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.KnowledgeCard, error)
	FillKeywordsFn func(ctx context.Context, id uuid.UUID, keywords []string) (bool, error)

	mu    sync.Mutex
	order []uuid.UUID
	cards map[uuid.UUID]domain.KnowledgeCard
}

var _ store.KnowledgeCardStore = (*KnowledgeCardStore)(nil)

// NewKnowledgeCardStore returns an empty store.
func NewKnowledgeCardStore() *KnowledgeCardStore {
	return &KnowledgeCardStore{cards: make(map[uuid.UUID]domain.KnowledgeCard)}
}

func (s *KnowledgeCardStore) Create(ctx context.Context, card *domain.KnowledgeCard) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, card)
	}
	if err := card.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[card.ID]; ok {
		return store.ErrDuplicate
	}
	s.cards[card.ID] = cloneCard(*card)
	s.order = append(s.order, card.ID)
	return nil
}

func (s *KnowledgeCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeCard, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok {
		return nil, store.ErrKnowledgeCardNotFound
	}
	out := cloneCard(card)
	return &out, nil
}

func (s *KnowledgeCardStore) List(_ context.Context, limit, offset int) ([]*domain.KnowledgeCard, error) {
	return s.filter(limit, offset, func(domain.KnowledgeCard) bool { return true }), nil
}

func (s *KnowledgeCardStore) Update(_ context.Context, card *domain.KnowledgeCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[card.ID]; !ok {
		return store.ErrKnowledgeCardNotFound
	}
	s.cards[card.ID] = cloneCard(*card)
	return nil
}

func (s *KnowledgeCardStore) FillKeywords(ctx context.Context, id uuid.UUID, keywords []string) (bool, error) {
	if s.FillKeywordsFn != nil {
		return s.FillKeywordsFn(ctx, id, keywords)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok {
		return false, store.ErrKnowledgeCardNotFound
	}
	if len(card.Keywords) > 0 {
		return false, nil
	}
	card.Keywords = append([]string{}, keywords...)
	s.cards[id] = card
	return true, nil
}

func (s *KnowledgeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		return store.ErrKnowledgeCardNotFound
	}
	delete(s.cards, id)
	s.order = slices.DeleteFunc(s.order, func(v uuid.UUID) bool { return v == id })
	return nil
}

func (s *KnowledgeCardStore) Search(_ context.Context, query string, limit int) ([]*domain.KnowledgeCard, error) {
	q := strings.ToLower(query)
	return s.filter(limit, 0, func(c domain.KnowledgeCard) bool {
		return strings.Contains(strings.ToLower(c.Title), q) ||
			strings.Contains(strings.ToLower(c.Content), q) ||
			slices.ContainsFunc(c.Keywords, func(k string) bool { return strings.Contains(strings.ToLower(k), q) })
	}), nil
}

func (s *KnowledgeCardStore) SearchByKeywords(
	_ context.Context,
	keywords []string,
	limit int,
) ([]*domain.KnowledgeCard, error) {
	return s.filter(limit, 0, func(c domain.KnowledgeCard) bool {
		return slices.ContainsFunc(c.Keywords, func(k string) bool { return slices.Contains(keywords, k) })
	}), nil
}

func (s *KnowledgeCardStore) WithTx(*sql.Tx) store.KnowledgeCardStore {
	return s
}

func (s *KnowledgeCardStore) filter(limit, offset int, keep func(domain.KnowledgeCard) bool) []*domain.KnowledgeCard {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*domain.KnowledgeCard{}
	skipped := 0
	for _, id := range s.order {
		if limit > 0 && len(out) == limit {
			break
		}
		card := s.cards[id]
		if !keep(card) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		c := cloneCard(card)
		out = append(out, &c)
	}
	return out
}

func cloneCard(c domain.KnowledgeCard) domain.KnowledgeCard {
	c.Keywords = append([]string{}, c.Keywords...)
	return c
}
