package flow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/store"
	"github.com/phrazzld/metanav/internal/subtask"
)

// Engine applies flow decisions to stored sessions.
type Engine struct {
	sessions  store.SessionStore
	machine   Machine
	generator subtask.Generator
	logger    *slog.Logger
}

// NewEngine creates an Engine. A nil machine or generator gets the default
// implementation; a nil session store is an error.
func NewEngine(
	sessions store.SessionStore,
	machine Machine,
	generator subtask.Generator,
	logger *slog.Logger,
) (*Engine, error) {
	if sessions == nil {
		return nil, domain.NewValidationError("sessions", "cannot be nil", domain.ErrValidation)
	}
	if machine == nil {
		machine = NewMachine()
	}
	if generator == nil {
		generator = subtask.NewGenerator()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		sessions:  sessions,
		machine:   machine,
		generator: generator,
		logger:    logger.With(slog.String("component", "flow_engine")),
	}, nil
}

// ProcessJOL records a judgment of learning and returns the next step.
func (e *Engine) ProcessJOL(ctx context.Context, sessionID uuid.UUID, level domain.JOLLevel) (domain.Step, error) {
	if _, err := level.Score(); err != nil {
		return "", err
	}
	return e.advance(ctx, "process_jol", sessionID, func(data domain.SessionData) (Transition, error) {
		return e.machine.ProcessJOL(data, level)
	})
}

// ProcessFOK records a feeling of knowing and returns the next step.
func (e *Engine) ProcessFOK(ctx context.Context, sessionID uuid.UUID, level domain.FOKLevel) (domain.Step, error) {
	if _, err := level.Score(); err != nil {
		return "", err
	}
	return e.advance(ctx, "process_fok", sessionID, func(data domain.SessionData) (Transition, error) {
		return e.machine.ProcessFOK(data, level)
	})
}

// ProcessConfidence records the learner's confidence and returns the next step.
func (e *Engine) ProcessConfidence(
	ctx context.Context,
	sessionID uuid.UUID,
	level domain.ConfidenceLevel,
) (domain.Step, error) {
	if err := level.Validate(); err != nil {
		return "", err
	}
	return e.advance(ctx, "process_confidence", sessionID, func(data domain.SessionData) (Transition, error) {
		return e.machine.ProcessConfidence(data, level)
	})
}

// ProcessTimeAllocation records the study block and returns the next step.
func (e *Engine) ProcessTimeAllocation(
	ctx context.Context,
	sessionID uuid.UUID,
	allocation domain.TimeAllocation,
) (domain.Step, error) {
	if _, err := allocation.Minutes(); err != nil {
		return "", err
	}
	return e.advance(ctx, "process_time_allocation", sessionID, func(data domain.SessionData) (Transition, error) {
		return e.machine.ProcessTimeAllocation(data, allocation)
	})
}

// ProcessObstacleAssessment records whether the learner is stuck and returns
// the next step.
func (e *Engine) ProcessObstacleAssessment(
	ctx context.Context,
	sessionID uuid.UUID,
	hasObstacle bool,
) (domain.Step, error) {
	return e.advance(ctx, "process_obstacle", sessionID, func(data domain.SessionData) (Transition, error) {
		return e.machine.ProcessObstacle(data, hasObstacle), nil
	})
}

// GenerateSubtasksFromEdge replaces the session's sub-tasks with the plan for
// the edge source -> target and moves the session to expectation_setting.
// The session's problem statement is passed to the generator as context.
func (e *Engine) GenerateSubtasksFromEdge(
	ctx context.Context,
	sessionID uuid.UUID,
	source, target string,
	relationship domain.RelationshipType,
) ([]domain.SubTask, domain.Step, error) {
	return e.plan(ctx, "generate_subtasks", sessionID, nil, source, target, relationship)
}

// SelectEdge records edgeID as the session's selected edge and stores the
// sub-task plan for it in the same update, so either both land or neither.
func (e *Engine) SelectEdge(
	ctx context.Context,
	sessionID, edgeID uuid.UUID,
	source, target string,
	relationship domain.RelationshipType,
) ([]domain.SubTask, domain.Step, error) {
	if edgeID == uuid.Nil {
		return nil, "", domain.NewValidationError("edge_id", "is required", domain.ErrInvalidID)
	}
	return e.plan(ctx, "select_edge", sessionID, &edgeID, source, target, relationship)
}

func (e *Engine) plan(
	ctx context.Context,
	operation string,
	sessionID uuid.UUID,
	edgeID *uuid.UUID,
	source, target string,
	relationship domain.RelationshipType,
) ([]domain.SubTask, domain.Step, error) {
	if err := relationship.Validate(); err != nil {
		return nil, "", err
	}

	log := logger.FromContextOrDefault(ctx, e.logger)

	var tasks []domain.SubTask
	next := domain.StepExpectationSetting
	_, err := e.sessions.Update(ctx, sessionID, func(s *domain.LearningSession) (*store.SessionMutation, error) {
		generated, err := e.generator.Generate(source, target, relationship, s.ProblemStatement)
		if err != nil {
			return nil, err
		}
		for i := range generated {
			if generated[i].ID == uuid.Nil {
				generated[i].ID = uuid.New()
			}
		}
		tasks = generated
		return &store.SessionMutation{Step: &next, SubTasks: generated, SelectedEdgeID: edgeID}, nil
	})
	if err != nil {
		log.Error("failed to generate sub-tasks",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, "", newEngineError(operation, "failed to update session", err)
	}

	log.Info("generated sub-tasks from edge",
		slog.String("session_id", sessionID.String()),
		slog.String("relationship", string(relationship)),
		slog.Int("count", len(tasks)))

	return tasks, next, nil
}

// advance runs one locked read-modify-write of the session with decide
// choosing the transition.
func (e *Engine) advance(
	ctx context.Context,
	operation string,
	sessionID uuid.UUID,
	decide func(domain.SessionData) (Transition, error),
) (domain.Step, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	var next domain.Step
	_, err := e.sessions.Update(ctx, sessionID, func(s *domain.LearningSession) (*store.SessionMutation, error) {
		t, err := decide(s.Data)
		if err != nil {
			return nil, err
		}
		next = t.Next
		return &store.SessionMutation{Step: &t.Next, Data: &t.Data}, nil
	})
	if err != nil {
		log.Error("flow transition failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return "", newEngineError(operation, "failed to update session", err)
	}

	log.Info("flow transition applied",
		slog.String("operation", operation),
		slog.String("session_id", sessionID.String()),
		slog.String("next_step", next.String()))

	return next, nil
}
