package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/store"
)

// CognitiveMapStore is an in-memory store.CognitiveMapStore that allows
// one map per session.
type CognitiveMapStore struct {
	CreateFn  func(ctx context.Context, m *domain.CognitiveMap) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.CognitiveMap, error)
	ReplaceFn func(ctx context.Context, m *domain.CognitiveMap) error

	mu   sync.Mutex
	maps map[uuid.UUID]domain.CognitiveMap
}

var _ store.CognitiveMapStore = (*CognitiveMapStore)(nil)

// NewCognitiveMapStore returns an empty store.
func NewCognitiveMapStore() *CognitiveMapStore {
	return &CognitiveMapStore{maps: make(map[uuid.UUID]domain.CognitiveMap)}
}

func (s *CognitiveMapStore) Create(ctx context.Context, m *domain.CognitiveMap) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, m)
	}
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.maps {
		if existing.SessionID == m.SessionID {
			return store.ErrCognitiveMapExists
		}
	}
	s.maps[m.ID] = *m
	return nil
}

func (s *CognitiveMapStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CognitiveMap, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maps[id]
	if !ok {
		return nil, store.ErrCognitiveMapNotFound
	}
	return &m, nil
}

func (s *CognitiveMapStore) Replace(ctx context.Context, m *domain.CognitiveMap) error {
	if s.ReplaceFn != nil {
		return s.ReplaceFn(ctx, m)
	}
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.maps[m.ID]
	if !ok {
		return store.ErrCognitiveMapNotFound
	}
	existing.Nodes = m.Nodes
	existing.Edges = m.Edges
	s.maps[m.ID] = existing
	return nil
}

func (s *CognitiveMapStore) WithTx(*sql.Tx) store.CognitiveMapStore {
	return s
}
