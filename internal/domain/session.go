package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Learning session validation errors
var (
	ErrEmptySessionID        = errors.New("session ID cannot be empty")
	ErrEmptyProblemStatement = errors.New("problem statement cannot be empty")
)

// LearningSession is one learner's pass through the metacognitive flow for a
// single problem statement.
type LearningSession struct {
	ID               uuid.UUID   `json:"id"`
	ProblemStatement string      `json:"problem_statement"`
	CurrentStep      Step        `json:"current_step"`
	CognitiveMapID   *uuid.UUID  `json:"cognitive_map_id,omitempty"`
	SelectedEdgeID   *uuid.UUID  `json:"selected_edge_id,omitempty"`
	SubTasks         []SubTask   `json:"sub_tasks"`
	Data             SessionData `json:"session_data"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// NewLearningSession creates a session for the given problem statement,
// positioned at the problem_input step.
func NewLearningSession(problemStatement string) (*LearningSession, error) {
	now := time.Now().UTC()
	session := &LearningSession{
		ID:               uuid.New(),
		ProblemStatement: strings.TrimSpace(problemStatement),
		CurrentStep:      StepProblemInput,
		SubTasks:         []SubTask{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the LearningSession has valid data.
func (s *LearningSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.ProblemStatement == "" {
		return ErrEmptyProblemStatement
	}

	if !s.CurrentStep.IsValid() {
		return NewValidationError("current_step", "is not a known flow step", ErrInvalidStep)
	}

	if err := s.Data.Validate(); err != nil {
		return err
	}

	return ValidateSubTasks(s.SubTasks)
}
