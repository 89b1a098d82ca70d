package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/api/shared"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/service"
)

// SessionHandler serves /api/learning-flow.
type SessionHandler struct {
	sessions service.SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions service.SessionService, logger *slog.Logger) *SessionHandler {
	if sessions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessions cannot be nil for SessionHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "session_handler")),
	}
}

// CreateSession handles POST /sessions.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSessionRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	session, err := h.sessions.CreateSession(r.Context(), req.ProblemStatement)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// GetSession handles GET /sessions/{id}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	session, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// UpdateFlowState handles PUT /sessions/{id}/flow-state.
func (h *SessionHandler) UpdateFlowState(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req FlowStateRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	step, err := domain.ParseStep(req.CurrentStep)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if _, err := h.sessions.UpdateFlowState(r.Context(), id, step, req.StepData); err != nil {
		HandleAPIError(w, r, err, "Failed to update flow state")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FlowResponse{
		Message:  "Flow state updated successfully",
		NextStep: step,
	})
}

// ReplaceSubTasks handles POST /sessions/{id}/sub-tasks.
func (h *SessionHandler) ReplaceSubTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req []SubTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	tasks := make([]domain.SubTask, len(req))
	for i, t := range req {
		if err := shared.ValidateRequest(&t); err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		tasks[i] = domain.SubTask{
			Name:               t.Name,
			Description:        t.Description,
			Order:              t.Order,
			MasteryExpectation: domain.MasteryLevel(t.MasteryExpectation),
		}
	}

	session, err := h.sessions.ReplaceSubTasks(r.Context(), id, tasks)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save sub-tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session.SubTasks)
}

// SubmitJOL handles POST /sessions/{id}/jol-assessment.
func (h *SessionHandler) SubmitJOL(w http.ResponseWriter, r *http.Request) {
	var req JOLAssessmentRequest
	h.assess(w, r, &req, "JOL assessment submitted", func(ctx context.Context, id uuid.UUID) (domain.Step, error) {
		return h.sessions.ProcessJOL(ctx, id, domain.JOLLevel(req.Assessment))
	})
}

// SubmitFOK handles POST /sessions/{id}/fok-assessment.
func (h *SessionHandler) SubmitFOK(w http.ResponseWriter, r *http.Request) {
	var req FOKAssessmentRequest
	h.assess(w, r, &req, "FOK assessment submitted", func(ctx context.Context, id uuid.UUID) (domain.Step, error) {
		return h.sessions.ProcessFOK(ctx, id, domain.FOKLevel(req.Assessment))
	})
}

// SubmitConfidence handles POST /sessions/{id}/confidence-assessment.
func (h *SessionHandler) SubmitConfidence(w http.ResponseWriter, r *http.Request) {
	var req ConfidenceAssessmentRequest
	h.assess(w, r, &req, "Confidence assessment submitted", func(ctx context.Context, id uuid.UUID) (domain.Step, error) {
		return h.sessions.ProcessConfidence(ctx, id, domain.ConfidenceLevel(req.Confidence))
	})
}

// SubmitTimeAllocation handles POST /sessions/{id}/time-allocation.
func (h *SessionHandler) SubmitTimeAllocation(w http.ResponseWriter, r *http.Request) {
	var req TimeAllocationRequest
	h.assess(w, r, &req, "Time allocation submitted", func(ctx context.Context, id uuid.UUID) (domain.Step, error) {
		return h.sessions.ProcessTimeAllocation(ctx, id, domain.TimeAllocation(req.TimeAllocation))
	})
}

// SubmitObstacle handles POST /sessions/{id}/obstacle-assessment.
func (h *SessionHandler) SubmitObstacle(w http.ResponseWriter, r *http.Request) {
	var req ObstacleAssessmentRequest
	h.assess(w, r, &req, "Obstacle assessment submitted", func(ctx context.Context, id uuid.UUID) (domain.Step, error) {
		return h.sessions.ProcessObstacleAssessment(ctx, id, *req.HasObstacle)
	})
}

// assess decodes req, runs process against the session in the path and
// writes the next step.
func (h *SessionHandler) assess(
	w http.ResponseWriter,
	r *http.Request,
	req any,
	message string,
	process func(ctx context.Context, id uuid.UUID) (domain.Step, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}
	if !decodeAndValidate(w, r, req, log) {
		return
	}

	next, err := process(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to process assessment")
		return
	}

	log.Debug("assessment processed",
		slog.String("session_id", id.String()),
		slog.String("next_step", next.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, FlowResponse{Message: message, NextStep: next})
}

// GenerateSubtasks handles POST /sessions/{id}/generate-subtasks.
func (h *SessionHandler) GenerateSubtasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req GenerateSubtasksRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	tasks, next, err := h.sessions.GenerateSubtasksFromEdge(
		r.Context(),
		id,
		req.SourceNodeName,
		req.TargetNodeName,
		domain.RelationshipType(req.RelationshipType),
	)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate sub-tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SubtasksResponse{SubTasks: tasks, NextStep: next})
}

// ContextualSubtasks handles POST /subtasks/contextual.
func (h *SessionHandler) ContextualSubtasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ContextualSubtasksRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	tasks, err := h.sessions.GenerateContextualSubtasks(req.ProblemStatement, req.Path)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate sub-tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SubtasksResponse{SubTasks: tasks})
}
