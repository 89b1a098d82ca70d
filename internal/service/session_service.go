package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/store"
	"github.com/phrazzld/metanav/internal/subtask"
)

// FlowEngine is the part of flow.Engine the session service delegates to.
type FlowEngine interface {
	ProcessJOL(ctx context.Context, sessionID uuid.UUID, level domain.JOLLevel) (domain.Step, error)
	ProcessFOK(ctx context.Context, sessionID uuid.UUID, level domain.FOKLevel) (domain.Step, error)
	ProcessConfidence(ctx context.Context, sessionID uuid.UUID, level domain.ConfidenceLevel) (domain.Step, error)
	ProcessTimeAllocation(ctx context.Context, sessionID uuid.UUID, allocation domain.TimeAllocation) (domain.Step, error)
	ProcessObstacleAssessment(ctx context.Context, sessionID uuid.UUID, hasObstacle bool) (domain.Step, error)
	GenerateSubtasksFromEdge(
		ctx context.Context,
		sessionID uuid.UUID,
		source, target string,
		relationship domain.RelationshipType,
	) ([]domain.SubTask, domain.Step, error)
	SelectEdge(
		ctx context.Context,
		sessionID, edgeID uuid.UUID,
		source, target string,
		relationship domain.RelationshipType,
	) ([]domain.SubTask, domain.Step, error)
}

// SessionService manages learning sessions and drives them through the
// metacognitive flow.
type SessionService interface {
	CreateSession(ctx context.Context, problemStatement string) (*domain.LearningSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*domain.LearningSession, error)

	// UpdateFlowState moves the session to step and merges data into the
	// stored session data.
	UpdateFlowState(
		ctx context.Context,
		id uuid.UUID,
		step domain.Step,
		data domain.SessionData,
	) (*domain.LearningSession, error)

	// ReplaceSubTasks swaps the session's whole sub-task batch. Orders must
	// run 1..n.
	ReplaceSubTasks(ctx context.Context, id uuid.UUID, tasks []domain.SubTask) (*domain.LearningSession, error)

	ProcessJOL(ctx context.Context, id uuid.UUID, level domain.JOLLevel) (domain.Step, error)
	ProcessFOK(ctx context.Context, id uuid.UUID, level domain.FOKLevel) (domain.Step, error)
	ProcessConfidence(ctx context.Context, id uuid.UUID, level domain.ConfidenceLevel) (domain.Step, error)
	ProcessTimeAllocation(ctx context.Context, id uuid.UUID, allocation domain.TimeAllocation) (domain.Step, error)
	ProcessObstacleAssessment(ctx context.Context, id uuid.UUID, hasObstacle bool) (domain.Step, error)
	GenerateSubtasksFromEdge(
		ctx context.Context,
		id uuid.UUID,
		source, target string,
		relationship domain.RelationshipType,
	) ([]domain.SubTask, domain.Step, error)

	// GenerateContextualSubtasks returns a plan for a problem statement
	// without touching any session.
	GenerateContextualSubtasks(problemStatement string, path []string) ([]domain.SubTask, error)
}

type sessionService struct {
	sessions  store.SessionStore
	engine    FlowEngine
	generator subtask.Generator
	logger    *slog.Logger
}

const sessionServiceName = "session"

// NewSessionService creates a SessionService.
func NewSessionService(
	sessions store.SessionStore,
	engine FlowEngine,
	generator subtask.Generator,
	logger *slog.Logger,
) (SessionService, error) {
	if sessions == nil {
		return nil, domain.NewValidationError("sessions", "cannot be nil", domain.ErrValidation)
	}
	if engine == nil {
		return nil, domain.NewValidationError("engine", "cannot be nil", domain.ErrValidation)
	}
	if generator == nil {
		generator = subtask.NewGenerator()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &sessionService{
		sessions:  sessions,
		engine:    engine,
		generator: generator,
		logger:    logger.With(slog.String("component", "session_service")),
	}, nil
}

func (s *sessionService) CreateSession(ctx context.Context, problemStatement string) (*domain.LearningSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := domain.NewLearningSession(problemStatement)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		log.Error("failed to save session", slog.String("error", err.Error()))
		return nil, wrapError(sessionServiceName, "create_session", "failed to save session", err)
	}

	log.Info("learning session created", slog.String("session_id", session.ID.String()))
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, id uuid.UUID) (*domain.LearningSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError(sessionServiceName, "get_session", "failed to load session", err)
	}
	return session, nil
}

func (s *sessionService) UpdateFlowState(
	ctx context.Context,
	id uuid.UUID,
	step domain.Step,
	data domain.SessionData,
) (*domain.LearningSession, error) {
	if !step.IsValid() {
		return nil, domain.NewValidationError("current_step", "is not a known flow step", domain.ErrInvalidStep)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.sessions.Update(ctx, id, func(current *domain.LearningSession) (*store.SessionMutation, error) {
		merged := current.Data.Merge(data)
		return &store.SessionMutation{Step: &step, Data: &merged}, nil
	})
	if err != nil {
		return nil, wrapError(sessionServiceName, "update_flow_state", "failed to update session", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("flow state updated",
		slog.String("session_id", id.String()),
		slog.String("step", step.String()))
	return updated, nil
}

func (s *sessionService) ReplaceSubTasks(
	ctx context.Context,
	id uuid.UUID,
	tasks []domain.SubTask,
) (*domain.LearningSession, error) {
	if err := domain.ValidateSubTasks(tasks); err != nil {
		return nil, err
	}

	batch := make([]domain.SubTask, len(tasks))
	copy(batch, tasks)
	for i := range batch {
		if batch[i].ID == uuid.Nil {
			batch[i].ID = uuid.New()
		}
	}

	updated, err := s.sessions.Update(ctx, id, func(*domain.LearningSession) (*store.SessionMutation, error) {
		return &store.SessionMutation{SubTasks: batch}, nil
	})
	if err != nil {
		return nil, wrapError(sessionServiceName, "replace_sub_tasks", "failed to update session", err)
	}
	return updated, nil
}

func (s *sessionService) ProcessJOL(ctx context.Context, id uuid.UUID, level domain.JOLLevel) (domain.Step, error) {
	next, err := s.engine.ProcessJOL(ctx, id, level)
	return next, wrapError(sessionServiceName, "process_jol", "flow engine failed", err)
}

func (s *sessionService) ProcessFOK(ctx context.Context, id uuid.UUID, level domain.FOKLevel) (domain.Step, error) {
	next, err := s.engine.ProcessFOK(ctx, id, level)
	return next, wrapError(sessionServiceName, "process_fok", "flow engine failed", err)
}

func (s *sessionService) ProcessConfidence(
	ctx context.Context,
	id uuid.UUID,
	level domain.ConfidenceLevel,
) (domain.Step, error) {
	next, err := s.engine.ProcessConfidence(ctx, id, level)
	return next, wrapError(sessionServiceName, "process_confidence", "flow engine failed", err)
}

func (s *sessionService) ProcessTimeAllocation(
	ctx context.Context,
	id uuid.UUID,
	allocation domain.TimeAllocation,
) (domain.Step, error) {
	next, err := s.engine.ProcessTimeAllocation(ctx, id, allocation)
	return next, wrapError(sessionServiceName, "process_time_allocation", "flow engine failed", err)
}

func (s *sessionService) ProcessObstacleAssessment(
	ctx context.Context,
	id uuid.UUID,
	hasObstacle bool,
) (domain.Step, error) {
	next, err := s.engine.ProcessObstacleAssessment(ctx, id, hasObstacle)
	return next, wrapError(sessionServiceName, "process_obstacle", "flow engine failed", err)
}

func (s *sessionService) GenerateSubtasksFromEdge(
	ctx context.Context,
	id uuid.UUID,
	source, target string,
	relationship domain.RelationshipType,
) ([]domain.SubTask, domain.Step, error) {
	tasks, next, err := s.engine.GenerateSubtasksFromEdge(ctx, id, source, target, relationship)
	if err != nil {
		return nil, "", wrapError(sessionServiceName, "generate_subtasks", "flow engine failed", err)
	}
	return tasks, next, nil
}

func (s *sessionService) GenerateContextualSubtasks(problemStatement string, path []string) ([]domain.SubTask, error) {
	if problemStatement == "" {
		return nil, domain.ErrEmptyProblemStatement
	}
	tasks := s.generator.GenerateContextual(problemStatement, path)
	for i := range tasks {
		if tasks[i].ID == uuid.Nil {
			tasks[i].ID = uuid.New()
		}
	}
	return tasks, nil
}
