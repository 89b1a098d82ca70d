package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/api/shared"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/mocks"
	"github.com/phrazzld/metanav/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() *domain.LearningSession {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.LearningSession{
		ID:               uuid.New(),
		ProblemStatement: "理解傅里叶变换",
		CurrentStep:      domain.StepProblemInput,
		SubTasks:         []domain.SubTask{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestNewSessionHandler_PanicsWithoutService(t *testing.T) {
	assert.Panics(t, func() { NewSessionHandler(nil, testLogger()) })
}

func TestSessionHandler_CreateSession(t *testing.T) {
	session := sampleSession()
	svc := &mocks.SessionService{
		CreateSessionFn: func(_ context.Context, problem string) (*domain.LearningSession, error) {
			if problem != session.ProblemStatement {
				return nil, domain.ErrEmptyProblemStatement
			}
			return session, nil
		},
	}
	h := NewSessionHandler(svc, testLogger())

	t.Run("created", func(t *testing.T) {
		w := serve(t, http.MethodPost, "/sessions", h.CreateSession, "/sessions",
			CreateSessionRequest{ProblemStatement: session.ProblemStatement})

		assert.Equal(t, http.StatusCreated, w.Code)
		got := decode[domain.LearningSession](t, w)
		assert.Equal(t, session.ID, got.ID)
		assert.Equal(t, domain.StepProblemInput, got.CurrentStep)
	})

	t.Run("missing problem statement", func(t *testing.T) {
		w := serve(t, http.MethodPost, "/sessions", h.CreateSession, "/sessions", CreateSessionRequest{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid problem_statement: required field", decode[shared.ErrorResponse](t, w).Error)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := serve(t, http.MethodPost, "/sessions", h.CreateSession, "/sessions", `{"problem_statement":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", decode[shared.ErrorResponse](t, w).Error)
	})

	t.Run("empty body", func(t *testing.T) {
		w := serve(t, http.MethodPost, "/sessions", h.CreateSession, "/sessions", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Request body is required", decode[shared.ErrorResponse](t, w).Error)
	})
}

func TestSessionHandler_GetSession(t *testing.T) {
	session := sampleSession()
	svc := &mocks.SessionService{
		GetSessionFn: func(_ context.Context, id uuid.UUID) (*domain.LearningSession, error) {
			if id == session.ID {
				return session, nil
			}
			return nil, service.ErrSessionNotFound
		},
	}
	h := NewSessionHandler(svc, testLogger())
	const pattern = "/sessions/{id}"

	w := serve(t, http.MethodGet, pattern, h.GetSession, "/sessions/"+session.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.ProblemStatement, decode[domain.LearningSession](t, w).ProblemStatement)

	w = serve(t, http.MethodGet, pattern, h.GetSession, "/sessions/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Learning session not found", decode[shared.ErrorResponse](t, w).Error)

	w = serve(t, http.MethodGet, pattern, h.GetSession, "/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id: has invalid format", decode[shared.ErrorResponse](t, w).Error)
}

func TestSessionHandler_UpdateFlowState(t *testing.T) {
	session := sampleSession()
	var gotStep domain.Step
	var gotData domain.SessionData
	svc := &mocks.SessionService{
		UpdateFlowStateFn: func(_ context.Context, _ uuid.UUID, step domain.Step, data domain.SessionData) (*domain.LearningSession, error) {
			gotStep, gotData = step, data
			return session, nil
		},
	}
	h := NewSessionHandler(svc, testLogger())
	const pattern = "/sessions/{id}/flow-state"
	path := "/sessions/" + session.ID.String() + "/flow-state"

	w := serve(t, http.MethodPut, pattern, h.UpdateFlowState, path, map[string]any{
		"current_step": "jol_assessment",
		"step_data": map[string]any{
			"expected_mastery_level": string(domain.MasterySemanticDerivation),
			"importance":             "high",
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[FlowResponse](t, w)
	assert.Equal(t, "Flow state updated successfully", resp.Message)
	assert.Equal(t, domain.StepJOLAssessment, gotStep)
	require.NotNil(t, gotData.ExpectedMasteryLevel)
	assert.Equal(t, domain.MasterySemanticDerivation, *gotData.ExpectedMasteryLevel)
	assert.Equal(t, "high", *gotData.Importance)

	w = serve(t, http.MethodPut, pattern, h.UpdateFlowState, path, map[string]any{"current_step": "nowhere"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid current_step: is not a known flow step", decode[shared.ErrorResponse](t, w).Error)
}

func TestSessionHandler_ReplaceSubTasks(t *testing.T) {
	session := sampleSession()
	var got []domain.SubTask
	svc := &mocks.SessionService{
		ReplaceSubTasksFn: func(_ context.Context, _ uuid.UUID, tasks []domain.SubTask) (*domain.LearningSession, error) {
			got = tasks
			if err := domain.ValidateSubTasks(tasks); err != nil {
				return nil, err
			}
			out := *session
			out.SubTasks = tasks
			return &out, nil
		},
	}
	h := NewSessionHandler(svc, testLogger())
	const pattern = "/sessions/{id}/sub-tasks"
	path := "/sessions/" + session.ID.String() + "/sub-tasks"

	w := serve(t, http.MethodPost, pattern, h.ReplaceSubTasks, path, []SubTaskRequest{
		{Name: "复习极限", Order: 1, MasteryExpectation: string(domain.MasteryIntuitiveUnderstanding)},
		{Name: "推导导数", Order: 2},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[[]domain.SubTask](t, w), 2)
	assert.Equal(t, domain.MasteryIntuitiveUnderstanding, got[0].MasteryExpectation)

	w = serve(t, http.MethodPost, pattern, h.ReplaceSubTasks, path, []SubTaskRequest{{Name: "", Order: 1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, http.MethodPost, pattern, h.ReplaceSubTasks, path, []SubTaskRequest{{Name: "gap", Order: 3}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_Assessments(t *testing.T) {
	id := uuid.New()
	svc := &mocks.SessionService{
		ProcessJOLFn: func(_ context.Context, _ uuid.UUID, level domain.JOLLevel) (domain.Step, error) {
			if _, err := level.Score(); err != nil {
				return "", err
			}
			return domain.StepLearningCompleted, nil
		},
		ProcessFOKFn: func(context.Context, uuid.UUID, domain.FOKLevel) (domain.Step, error) {
			return domain.StepEOLDifficultyAssessment, nil
		},
		ProcessConfidenceFn: func(context.Context, uuid.UUID, domain.ConfidenceLevel) (domain.Step, error) {
			return domain.StepTimeAllocation, nil
		},
		ProcessTimeAllocationFn: func(context.Context, uuid.UUID, domain.TimeAllocation) (domain.Step, error) {
			return domain.StepLearningInProgress, nil
		},
		ProcessObstacleAssessmentFn: func(_ context.Context, _ uuid.UUID, hasObstacle bool) (domain.Step, error) {
			if hasObstacle {
				return domain.StepEOLDifficultyAssessment, nil
			}
			return domain.StepStrategySelection, nil
		},
	}
	h := NewSessionHandler(svc, testLogger())
	base := "/sessions/" + id.String()

	tests := []struct {
		name     string
		suffix   string
		handler  http.HandlerFunc
		body     any
		status   int
		message  string
		nextStep domain.Step
	}{
		{"jol", "/jol-assessment", h.SubmitJOL, JOLAssessmentRequest{Assessment: string(domain.JOLBarelyRemember)},
			http.StatusOK, "JOL assessment submitted", domain.StepLearningCompleted},
		{"fok", "/fok-assessment", h.SubmitFOK, FOKAssessmentRequest{Assessment: string(domain.FOKUnderstandLittle)},
			http.StatusOK, "FOK assessment submitted", domain.StepEOLDifficultyAssessment},
		{"confidence", "/confidence-assessment", h.SubmitConfidence, ConfidenceAssessmentRequest{Confidence: string(domain.ConfidenceConfident)},
			http.StatusOK, "Confidence assessment submitted", domain.StepTimeAllocation},
		{"time", "/time-allocation", h.SubmitTimeAllocation, TimeAllocationRequest{TimeAllocation: "30min"},
			http.StatusOK, "Time allocation submitted", domain.StepLearningInProgress},
		{"obstacle false", "/obstacle-assessment", h.SubmitObstacle, map[string]any{"has_obstacle": false},
			http.StatusOK, "Obstacle assessment submitted", domain.StepStrategySelection},
		{"obstacle true", "/obstacle-assessment", h.SubmitObstacle, map[string]any{"has_obstacle": true},
			http.StatusOK, "Obstacle assessment submitted", domain.StepEOLDifficultyAssessment},
		{"obstacle missing", "/obstacle-assessment", h.SubmitObstacle, map[string]any{},
			http.StatusBadRequest, "", ""},
		{"jol unknown level", "/jol-assessment", h.SubmitJOL, JOLAssessmentRequest{Assessment: "maybe"},
			http.StatusBadRequest, "", ""},
		{"jol missing level", "/jol-assessment", h.SubmitJOL, JOLAssessmentRequest{},
			http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, http.MethodPost, "/sessions/{id}"+tt.suffix, tt.handler, base+tt.suffix, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			resp := decode[FlowResponse](t, w)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, tt.nextStep, resp.NextStep)
		})
	}
}

func TestSessionHandler_AssessmentErrors(t *testing.T) {
	svc := &mocks.SessionService{
		ProcessConfidenceFn: func(context.Context, uuid.UUID, domain.ConfidenceLevel) (domain.Step, error) {
			return "", &service.ServiceError{Service: "session", Operation: "process_confidence", Err: errors.New("deadlock detected")}
		},
		ProcessJOLFn: func(context.Context, uuid.UUID, domain.JOLLevel) (domain.Step, error) {
			return "", service.ErrSessionNotFound
		},
	}
	h := NewSessionHandler(svc, testLogger())
	id := uuid.NewString()

	w := serve(t, http.MethodPost, "/sessions/{id}/confidence-assessment", h.SubmitConfidence,
		"/sessions/"+id+"/confidence-assessment", ConfidenceAssessmentRequest{Confidence: string(domain.ConfidenceConfident)})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to process assessment", decode[shared.ErrorResponse](t, w).Error)
	assert.NotContains(t, w.Body.String(), "deadlock")

	w = serve(t, http.MethodPost, "/sessions/{id}/jol-assessment", h.SubmitJOL,
		"/sessions/"+id+"/jol-assessment", JOLAssessmentRequest{Assessment: string(domain.JOLCannotRemember)})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionHandler_GenerateSubtasks(t *testing.T) {
	var gotRel domain.RelationshipType
	svc := &mocks.SessionService{
		GenerateSubtasksFromEdgeFn: func(
			_ context.Context, _ uuid.UUID, source, target string, rel domain.RelationshipType,
		) ([]domain.SubTask, domain.Step, error) {
			gotRel = rel
			if err := rel.Validate(); err != nil {
				return nil, "", err
			}
			return []domain.SubTask{{ID: uuid.New(), Name: "理解 " + target, Order: 1}}, domain.StepExpectationSetting, nil
		},
	}
	h := NewSessionHandler(svc, testLogger())
	const pattern = "/sessions/{id}/generate-subtasks"
	path := "/sessions/" + uuid.NewString() + "/generate-subtasks"

	w := serve(t, http.MethodPost, pattern, h.GenerateSubtasks, path, GenerateSubtasksRequest{
		SourceNodeName:   "微积分",
		TargetNodeName:   "导数",
		RelationshipType: string(domain.RelationshipChild),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[SubtasksResponse](t, w)
	assert.Equal(t, domain.StepExpectationSetting, resp.NextStep)
	assert.Equal(t, "理解 导数", resp.SubTasks[0].Name)
	assert.Equal(t, domain.RelationshipChild, gotRel)

	w = serve(t, http.MethodPost, pattern, h.GenerateSubtasks, path, GenerateSubtasksRequest{
		SourceNodeName:   "a",
		TargetNodeName:   "b",
		RelationshipType: "朋友",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_ContextualSubtasks(t *testing.T) {
	var gotPath []string
	svc := &mocks.SessionService{
		GenerateContextualSubtasksFn: func(problem string, path []string) ([]domain.SubTask, error) {
			gotPath = path
			return []domain.SubTask{{ID: uuid.New(), Name: problem, Order: 1}}, nil
		},
	}
	h := NewSessionHandler(svc, testLogger())

	w := serve(t, http.MethodPost, "/subtasks/contextual", h.ContextualSubtasks, "/subtasks/contextual",
		ContextualSubtasksRequest{ProblemStatement: "学习 Python 数据分析", Path: []string{"Python", "pandas"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[SubtasksResponse](t, w).SubTasks, 1)
	assert.Equal(t, []string{"Python", "pandas"}, gotPath)

	w = serve(t, http.MethodPost, "/subtasks/contextual", h.ContextualSubtasks, "/subtasks/contextual",
		ContextualSubtasksRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
