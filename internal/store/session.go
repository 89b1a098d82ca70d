package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
)

// SessionMutation is the change a SessionUpdateFn asks the store to apply.
// Nil fields are left untouched.
type SessionMutation struct {
	// Step moves the session to a new flow step.
	Step *domain.Step

	// Data replaces the stored session data. Callers merge before returning it.
	Data *domain.SessionData

	// SubTasks replaces the whole sub-task batch when non-nil.
	SubTasks []domain.SubTask

	CognitiveMapID *uuid.UUID
	SelectedEdgeID *uuid.UUID
}

// IsEmpty reports whether the mutation changes nothing.
func (m *SessionMutation) IsEmpty() bool {
	return m == nil || (m.Step == nil && m.Data == nil && m.SubTasks == nil &&
		m.CognitiveMapID == nil && m.SelectedEdgeID == nil)
}

// SessionUpdateFn inspects the current session and returns the mutation to
// apply. Returning an error aborts the update without writing anything.
// The session passed in must not be modified.
type SessionUpdateFn func(session *domain.LearningSession) (*SessionMutation, error)

// SessionStore defines the interface for learning session persistence.
type SessionStore interface {
	// Create saves a new session.
	// Returns validation errors from the domain LearningSession if data is invalid.
	Create(ctx context.Context, session *domain.LearningSession) error

	// GetByID retrieves a session with its sub-tasks in order.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningSession, error)

	// Update runs a read-modify-write cycle on one session. The session row is
	// locked for the duration of fn, so concurrent updates to the same session
	// are serialized; updates to different sessions do not block each other.
	// Returns ErrSessionNotFound if the session does not exist, and the
	// session as stored after the mutation otherwise.
	Update(ctx context.Context, id uuid.UUID, fn SessionUpdateFn) (*domain.LearningSession, error)

	// WithTx returns a SessionStore that runs its statements on tx.
	WithTx(tx *sql.Tx) SessionStore
}

// Apply returns a copy of session with the mutation applied.
func (m *SessionMutation) Apply(session domain.LearningSession) domain.LearningSession {
	if m == nil {
		return session
	}
	if m.Step != nil {
		session.CurrentStep = *m.Step
	}
	if m.Data != nil {
		session.Data = *m.Data
	}
	if m.SubTasks != nil {
		session.SubTasks = make([]domain.SubTask, len(m.SubTasks))
		copy(session.SubTasks, m.SubTasks)
	}
	if m.CognitiveMapID != nil {
		id := *m.CognitiveMapID
		session.CognitiveMapID = &id
	}
	if m.SelectedEdgeID != nil {
		id := *m.SelectedEdgeID
		session.SelectedEdgeID = &id
	}
	return session
}
