package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/service"
)

// SessionService is a function-field service.SessionService.
type SessionService struct {
	CreateSessionFn             func(ctx context.Context, problemStatement string) (*domain.LearningSession, error)
	GetSessionFn                func(ctx context.Context, id uuid.UUID) (*domain.LearningSession, error)
	UpdateFlowStateFn           func(ctx context.Context, id uuid.UUID, step domain.Step, data domain.SessionData) (*domain.LearningSession, error)
	ReplaceSubTasksFn           func(ctx context.Context, id uuid.UUID, tasks []domain.SubTask) (*domain.LearningSession, error)
	ProcessJOLFn                func(ctx context.Context, id uuid.UUID, level domain.JOLLevel) (domain.Step, error)
	ProcessFOKFn                func(ctx context.Context, id uuid.UUID, level domain.FOKLevel) (domain.Step, error)
	ProcessConfidenceFn         func(ctx context.Context, id uuid.UUID, level domain.ConfidenceLevel) (domain.Step, error)
	ProcessTimeAllocationFn     func(ctx context.Context, id uuid.UUID, allocation domain.TimeAllocation) (domain.Step, error)
	ProcessObstacleAssessmentFn func(ctx context.Context, id uuid.UUID, hasObstacle bool) (domain.Step, error)
	GenerateSubtasksFromEdgeFn  func(
		ctx context.Context,
		id uuid.UUID,
		source, target string,
		relationship domain.RelationshipType,
	) ([]domain.SubTask, domain.Step, error)
	GenerateContextualSubtasksFn func(problemStatement string, path []string) ([]domain.SubTask, error)
}

var _ service.SessionService = (*SessionService)(nil)

func (m *SessionService) CreateSession(ctx context.Context, problemStatement string) (*domain.LearningSession, error) {
	return m.CreateSessionFn(ctx, problemStatement)
}

func (m *SessionService) GetSession(ctx context.Context, id uuid.UUID) (*domain.LearningSession, error) {
	return m.GetSessionFn(ctx, id)
}

func (m *SessionService) UpdateFlowState(
	ctx context.Context,
	id uuid.UUID,
	step domain.Step,
	data domain.SessionData,
) (*domain.LearningSession, error) {
	return m.UpdateFlowStateFn(ctx, id, step, data)
}

func (m *SessionService) ReplaceSubTasks(
	ctx context.Context,
	id uuid.UUID,
	tasks []domain.SubTask,
) (*domain.LearningSession, error) {
	return m.ReplaceSubTasksFn(ctx, id, tasks)
}

func (m *SessionService) ProcessJOL(ctx context.Context, id uuid.UUID, level domain.JOLLevel) (domain.Step, error) {
	return m.ProcessJOLFn(ctx, id, level)
}

func (m *SessionService) ProcessFOK(ctx context.Context, id uuid.UUID, level domain.FOKLevel) (domain.Step, error) {
	return m.ProcessFOKFn(ctx, id, level)
}

func (m *SessionService) ProcessConfidence(
	ctx context.Context,
	id uuid.UUID,
	level domain.ConfidenceLevel,
) (domain.Step, error) {
	return m.ProcessConfidenceFn(ctx, id, level)
}

func (m *SessionService) ProcessTimeAllocation(
	ctx context.Context,
	id uuid.UUID,
	allocation domain.TimeAllocation,
) (domain.Step, error) {
	return m.ProcessTimeAllocationFn(ctx, id, allocation)
}

func (m *SessionService) ProcessObstacleAssessment(
	ctx context.Context,
	id uuid.UUID,
	hasObstacle bool,
) (domain.Step, error) {
	return m.ProcessObstacleAssessmentFn(ctx, id, hasObstacle)
}

func (m *SessionService) GenerateSubtasksFromEdge(
	ctx context.Context,
	id uuid.UUID,
	source, target string,
	relationship domain.RelationshipType,
) ([]domain.SubTask, domain.Step, error) {
	return m.GenerateSubtasksFromEdgeFn(ctx, id, source, target, relationship)
}

func (m *SessionService) GenerateContextualSubtasks(problemStatement string, path []string) ([]domain.SubTask, error) {
	return m.GenerateContextualSubtasksFn(problemStatement, path)
}

// CognitiveMapService is a function-field service.CognitiveMapService.
type CognitiveMapService struct {
	CreateMapFn  func(ctx context.Context, in service.CreateMapInput) (*domain.CognitiveMap, error)
	GetMapFn     func(ctx context.Context, id uuid.UUID) (*domain.CognitiveMap, error)
	ReplaceMapFn func(
		ctx context.Context,
		mapID uuid.UUID,
		nodes []service.NodeInput,
		edges []service.EdgeInput,
	) (*domain.CognitiveMap, error)
	SelectEdgeFn func(ctx context.Context, mapID, edgeID uuid.UUID) (*service.EdgeSelection, error)
}

var _ service.CognitiveMapService = (*CognitiveMapService)(nil)

func (m *CognitiveMapService) CreateMap(ctx context.Context, in service.CreateMapInput) (*domain.CognitiveMap, error) {
	return m.CreateMapFn(ctx, in)
}

func (m *CognitiveMapService) GetMap(ctx context.Context, id uuid.UUID) (*domain.CognitiveMap, error) {
	return m.GetMapFn(ctx, id)
}

func (m *CognitiveMapService) ReplaceMap(
	ctx context.Context,
	mapID uuid.UUID,
	nodes []service.NodeInput,
	edges []service.EdgeInput,
) (*domain.CognitiveMap, error) {
	return m.ReplaceMapFn(ctx, mapID, nodes, edges)
}

func (m *CognitiveMapService) SelectEdge(ctx context.Context, mapID, edgeID uuid.UUID) (*service.EdgeSelection, error) {
	return m.SelectEdgeFn(ctx, mapID, edgeID)
}

// CardService is a function-field service.CardService.
type CardService struct {
	CreateCardFn       func(ctx context.Context, title, content string, keywords []string) (*domain.KnowledgeCard, error)
	GetCardFn          func(ctx context.Context, id uuid.UUID) (*domain.KnowledgeCard, error)
	ListCardsFn        func(ctx context.Context, skip, limit int) ([]*domain.KnowledgeCard, error)
	UpdateCardFn       func(ctx context.Context, id uuid.UUID, title, content string, keywords []string) (*domain.KnowledgeCard, error)
	DeleteCardFn       func(ctx context.Context, id uuid.UUID) error
	SearchCardsFn      func(ctx context.Context, query string, limit int) ([]*domain.KnowledgeCard, error)
	SearchByKeywordsFn func(ctx context.Context, keywords []string, limit int) ([]*domain.KnowledgeCard, error)
}

var _ service.CardService = (*CardService)(nil)

func (m *CardService) CreateCard(
	ctx context.Context,
	title, content string,
	keywords []string,
) (*domain.KnowledgeCard, error) {
	return m.CreateCardFn(ctx, title, content, keywords)
}

func (m *CardService) GetCard(ctx context.Context, id uuid.UUID) (*domain.KnowledgeCard, error) {
	return m.GetCardFn(ctx, id)
}

func (m *CardService) ListCards(ctx context.Context, skip, limit int) ([]*domain.KnowledgeCard, error) {
	return m.ListCardsFn(ctx, skip, limit)
}

func (m *CardService) UpdateCard(
	ctx context.Context,
	id uuid.UUID,
	title, content string,
	keywords []string,
) (*domain.KnowledgeCard, error) {
	return m.UpdateCardFn(ctx, id, title, content, keywords)
}

func (m *CardService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	return m.DeleteCardFn(ctx, id)
}

func (m *CardService) SearchCards(ctx context.Context, query string, limit int) ([]*domain.KnowledgeCard, error) {
	return m.SearchCardsFn(ctx, query, limit)
}

func (m *CardService) SearchByKeywords(
	ctx context.Context,
	keywords []string,
	limit int,
) ([]*domain.KnowledgeCard, error) {
	return m.SearchByKeywordsFn(ctx, keywords, limit)
}
