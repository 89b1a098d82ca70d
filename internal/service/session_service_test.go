package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/mocks"
	"github.com/phrazzld/metanav/internal/service"
	"github.com/phrazzld/metanav/internal/store"
	"github.com/phrazzld/metanav/internal/subtask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T, sessions *mocks.SessionStore) service.SessionService {
	t.Helper()
	svc, err := service.NewSessionService(sessions, newEngine(t, sessions), nil, testLogger())
	require.NoError(t, err)
	return svc
}

func seedSession(t *testing.T, sessions *mocks.SessionStore) *domain.LearningSession {
	t.Helper()
	session, err := domain.NewLearningSession("理解傅里叶变换")
	require.NoError(t, err)
	require.NoError(t, sessions.Create(context.Background(), session))
	return session
}

func TestNewSessionService_Validation(t *testing.T) {
	sessions := mocks.NewSessionStore()

	_, err := service.NewSessionService(nil, newEngine(t, sessions), nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.NewSessionService(sessions, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := service.NewSessionService(sessions, newEngine(t, sessions), nil, nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestSessionService_CreateSession(t *testing.T) {
	sessions := mocks.NewSessionStore()
	svc := newSessionService(t, sessions)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		session, err := svc.CreateSession(ctx, "  学习线性代数  ")
		require.NoError(t, err)
		assert.Equal(t, "学习线性代数", session.ProblemStatement)
		assert.Equal(t, domain.StepProblemInput, session.CurrentStep)
		assert.NotNil(t, sessions.Session(session.ID))
	})

	t.Run("empty problem statement", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "   ")
		assert.ErrorIs(t, err, domain.ErrEmptyProblemStatement)
	})

	t.Run("store failure", func(t *testing.T) {
		failing := mocks.NewSessionStore()
		failing.CreateFn = func(context.Context, *domain.LearningSession) error {
			return errors.New("disk full")
		}
		_, err := newSessionService(t, failing).CreateSession(ctx, "problem")

		var svcErr *service.ServiceError
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "create_session", svcErr.Operation)
	})
}

func TestSessionService_GetSession(t *testing.T) {
	sessions := mocks.NewSessionStore()
	svc := newSessionService(t, sessions)
	seeded := seedSession(t, sessions)

	got, err := svc.GetSession(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)

	_, err = svc.GetSession(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestSessionService_UpdateFlowState(t *testing.T) {
	sessions := mocks.NewSessionStore()
	svc := newSessionService(t, sessions)
	seeded := seedSession(t, sessions)
	ctx := context.Background()

	_, err := svc.UpdateFlowState(ctx, seeded.ID, domain.StepExpectationSetting, domain.SessionData{
		ExpectedMasteryLevel: domain.Ptr(domain.MasterySemanticDerivation),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateFlowState(ctx, seeded.ID, domain.StepJOLAssessment, domain.SessionData{
		Importance: domain.Ptr("high"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StepJOLAssessment, updated.CurrentStep)
	require.NotNil(t, updated.Data.ExpectedMasteryLevel)
	assert.Equal(t, domain.MasterySemanticDerivation, *updated.Data.ExpectedMasteryLevel)
	assert.Equal(t, "high", *updated.Data.Importance)

	t.Run("unknown step", func(t *testing.T) {
		before := sessions.Updates()
		_, err := svc.UpdateFlowState(ctx, seeded.ID, domain.Step("nowhere"), domain.SessionData{})
		assert.ErrorIs(t, err, domain.ErrInvalidStep)
		assert.Equal(t, before, sessions.Updates())
	})

	t.Run("invalid data", func(t *testing.T) {
		_, err := svc.UpdateFlowState(ctx, seeded.ID, domain.StepJOLAssessment, domain.SessionData{
			JOLAssessment: domain.Ptr(domain.JOLLevel("maybe")),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAssessmentValue)
	})

	t.Run("missing session", func(t *testing.T) {
		_, err := svc.UpdateFlowState(ctx, uuid.New(), domain.StepJOLAssessment, domain.SessionData{})
		assert.ErrorIs(t, err, service.ErrSessionNotFound)
	})
}

func TestSessionService_ReplaceSubTasks(t *testing.T) {
	sessions := mocks.NewSessionStore()
	svc := newSessionService(t, sessions)
	seeded := seedSession(t, sessions)
	ctx := context.Background()

	updated, err := svc.ReplaceSubTasks(ctx, seeded.ID, []domain.SubTask{
		{Name: "first", Order: 1},
		{Name: "second", Order: 2, MasteryExpectation: domain.MasteryIntuitiveUnderstanding},
	})
	require.NoError(t, err)
	require.Len(t, updated.SubTasks, 2)
	for _, task := range updated.SubTasks {
		assert.NotEqual(t, uuid.Nil, task.ID)
	}

	_, err = svc.ReplaceSubTasks(ctx, seeded.ID, []domain.SubTask{{Name: "gap", Order: 2}})
	assert.ErrorIs(t, err, domain.ErrInvalidSubTaskRank)
	assert.Len(t, sessions.Session(seeded.ID).SubTasks, 2)
}

func TestSessionService_FlowDelegation(t *testing.T) {
	sessions := mocks.NewSessionStore()
	svc := newSessionService(t, sessions)
	ctx := context.Background()

	t.Run("jol at default expectation completes", func(t *testing.T) {
		s := seedSession(t, sessions)
		next, err := svc.ProcessJOL(ctx, s.ID, domain.JOLBarelyRemember)
		require.NoError(t, err)
		assert.Equal(t, domain.StepLearningCompleted, next)
		assert.Equal(t, next, sessions.Session(s.ID).CurrentStep)
	})

	t.Run("fok below semantic expectation", func(t *testing.T) {
		s := seedSession(t, sessions)
		_, err := svc.UpdateFlowState(ctx, s.ID, domain.StepFOKAssessment, domain.SessionData{
			ExpectedMasteryLevel: domain.Ptr(domain.MasterySemanticDerivation),
		})
		require.NoError(t, err)

		next, err := svc.ProcessFOK(ctx, s.ID, domain.FOKUnderstandWell)
		require.NoError(t, err)
		assert.Equal(t, domain.StepEOLDifficultyAssessment, next)
	})

	t.Run("confidence routes", func(t *testing.T) {
		s := seedSession(t, sessions)
		next, err := svc.ProcessConfidence(ctx, s.ID, domain.ConfidenceNoConfidenceNoMaterials)
		require.NoError(t, err)
		assert.Equal(t, domain.StepTaskSwitching, next)
	})

	t.Run("time allocation records minutes", func(t *testing.T) {
		s := seedSession(t, sessions)
		next, err := svc.ProcessTimeAllocation(ctx, s.ID, domain.TimeOneHour)
		require.NoError(t, err)
		assert.Equal(t, domain.StepLearningInProgress, next)
		assert.Equal(t, 60, *sessions.Session(s.ID).Data.AllocatedMinutes)
	})

	t.Run("obstacle", func(t *testing.T) {
		s := seedSession(t, sessions)
		next, err := svc.ProcessObstacleAssessment(ctx, s.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.StepStrategySelection, next)
	})

	t.Run("invalid level is a validation error", func(t *testing.T) {
		s := seedSession(t, sessions)
		_, err := svc.ProcessJOL(ctx, s.ID, domain.JOLLevel("???"))
		assert.True(t, domain.IsValidationError(err))
	})

	t.Run("missing session maps to not found", func(t *testing.T) {
		_, err := svc.ProcessObstacleAssessment(ctx, uuid.New(), true)
		assert.ErrorIs(t, err, service.ErrSessionNotFound)
	})
}

func TestSessionService_GenerateSubtasksFromEdge(t *testing.T) {
	sessions := mocks.NewSessionStore()
	svc := newSessionService(t, sessions)
	s := seedSession(t, sessions)

	tasks, next, err := svc.GenerateSubtasksFromEdge(context.Background(), s.ID, "微积分", "导数", domain.RelationshipChild)
	require.NoError(t, err)
	assert.Equal(t, domain.StepExpectationSetting, next)
	require.Len(t, tasks, subtask.PlanSize)
	assert.Contains(t, tasks[0].Name, "导数")
	assert.Len(t, sessions.Session(s.ID).SubTasks, subtask.PlanSize)

	_, _, err = svc.GenerateSubtasksFromEdge(context.Background(), s.ID, "a", "b", domain.RelationshipType("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidRelationshipType)
}

func TestSessionService_GenerateContextualSubtasks(t *testing.T) {
	svc := newSessionService(t, mocks.NewSessionStore())

	tasks, err := svc.GenerateContextualSubtasks("学习机器学习算法", []string{"数学", "统计"})
	require.NoError(t, err)
	assert.NotEmpty(t, tasks)
	for i, task := range tasks {
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, i+1, task.Order)
	}

	_, err = svc.GenerateContextualSubtasks("", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyProblemStatement)
}

func TestSessionService_UpdateStoreFailure(t *testing.T) {
	sessions := mocks.NewSessionStore()
	svc := newSessionService(t, sessions)
	s := seedSession(t, sessions)

	sessions.UpdateFn = func(context.Context, uuid.UUID, store.SessionUpdateFn) (*domain.LearningSession, error) {
		return nil, errors.New("deadlock detected")
	}

	_, err := svc.ProcessConfidence(context.Background(), s.ID, domain.ConfidenceConfident)
	var svcErr *service.ServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "process_confidence", svcErr.Operation)
}
