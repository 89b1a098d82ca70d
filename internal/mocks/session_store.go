package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/store"
)

// SessionStore is an in-memory store.SessionStore. Updates are serialized
// by a single mutex.
type SessionStore struct {
	CreateFn  func(ctx context.Context, session *domain.LearningSession) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.LearningSession, error)
	UpdateFn  func(ctx context.Context, id uuid.UUID, fn store.SessionUpdateFn) (*domain.LearningSession, error)

	mu       sync.Mutex
	sessions map[uuid.UUID]domain.LearningSession
	updates  int
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore returns an empty store.
func NewSessionStore(sessions ...*domain.LearningSession) *SessionStore {
	s := &SessionStore{sessions: make(map[uuid.UUID]domain.LearningSession)}
	for _, session := range sessions {
		s.sessions[session.ID] = cloneSession(*session)
	}
	return s
}

func (s *SessionStore) Create(ctx context.Context, session *domain.LearningSession) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, session)
	}
	if err := session.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return store.ErrDuplicate
	}
	s.sessions[session.ID] = cloneSession(*session)
	return nil
}

func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningSession, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	out := cloneSession(session)
	return &out, nil
}

func (s *SessionStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fn store.SessionUpdateFn,
) (*domain.LearningSession, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, fn)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}

	snapshot := cloneSession(current)
	mutation, err := fn(&snapshot)
	if err != nil {
		return nil, err
	}
	if mutation.IsEmpty() {
		return &snapshot, nil
	}

	next := mutation.Apply(current)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	s.sessions[id] = cloneSession(next)
	s.updates++

	out := cloneSession(next)
	return &out, nil
}

func (s *SessionStore) WithTx(*sql.Tx) store.SessionStore {
	return s
}

// Updates reports how many updates were written.
func (s *SessionStore) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// Session returns the stored session, or nil.
func (s *SessionStore) Session(id uuid.UUID) *domain.LearningSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := cloneSession(session)
	return &out
}

func cloneSession(s domain.LearningSession) domain.LearningSession {
	s.SubTasks = append([]domain.SubTask{}, s.SubTasks...)
	return s
}
