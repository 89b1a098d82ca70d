package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
)

// CreateSessionRequest starts a learning session.
type CreateSessionRequest struct {
	ProblemStatement string `json:"problem_statement" validate:"required,max=2000"`
}

// FlowStateRequest moves a session to a step and merges step data.
type FlowStateRequest struct {
	CurrentStep string             `json:"current_step" validate:"required"`
	StepData    domain.SessionData `json:"step_data"`
}

// SubTaskRequest is one entry of a manual sub-task batch.
type SubTaskRequest struct {
	Name               string `json:"name" validate:"required"`
	Description        string `json:"description"`
	Order              int    `json:"order" validate:"gte=1"`
	MasteryExpectation string `json:"mastery_expectation"`
}

// JOLAssessmentRequest carries a judgment of learning.
type JOLAssessmentRequest struct {
	Assessment string `json:"assessment" validate:"required"`
}

// FOKAssessmentRequest carries a feeling of knowing.
type FOKAssessmentRequest struct {
	Assessment string `json:"assessment" validate:"required"`
}

// ConfidenceAssessmentRequest carries the learner's confidence.
type ConfidenceAssessmentRequest struct {
	Confidence string `json:"confidence" validate:"required"`
}

// TimeAllocationRequest carries the chosen study block.
type TimeAllocationRequest struct {
	TimeAllocation string `json:"time_allocation" validate:"required"`
}

// ObstacleAssessmentRequest reports whether the learner is stuck. A pointer
// keeps an explicit false distinguishable from a missing field.
type ObstacleAssessmentRequest struct {
	HasObstacle *bool `json:"has_obstacle" validate:"required"`
}

// GenerateSubtasksRequest names the edge to plan for.
type GenerateSubtasksRequest struct {
	SourceNodeName   string `json:"source_node_name" validate:"required"`
	TargetNodeName   string `json:"target_node_name" validate:"required"`
	RelationshipType string `json:"relationship_type" validate:"required"`
}

// ContextualSubtasksRequest asks for a plan from the problem statement alone.
type ContextualSubtasksRequest struct {
	ProblemStatement string   `json:"problem_statement" validate:"required"`
	Path             []string `json:"path"`
}

// FlowResponse answers every assessment endpoint.
type FlowResponse struct {
	Message  string      `json:"message"`
	NextStep domain.Step `json:"next_step"`
}

// SubtasksResponse answers sub-task generation.
type SubtasksResponse struct {
	SubTasks []domain.SubTask `json:"sub_tasks"`
	NextStep domain.Step      `json:"next_step,omitempty"`
}

// NodeRequest is a node of a new cognitive map.
type NodeRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// EdgeRequest references its nodes by index into the request's nodes.
type EdgeRequest struct {
	SourceIndex      int    `json:"source_index" validate:"gte=0"`
	TargetIndex      int    `json:"target_index" validate:"gte=0"`
	RelationshipType string `json:"relationship_type" validate:"required"`
	CustomName       string `json:"custom_name"`
}

// CreateMapRequest draws a cognitive map for a session.
type CreateMapRequest struct {
	SessionID string        `json:"session_id" validate:"required,uuid"`
	Nodes     []NodeRequest `json:"nodes" validate:"required,min=1,dive"`
	Edges     []EdgeRequest `json:"edges" validate:"dive"`
}

// UpdateMapRequest redraws an existing map. The map keeps its session.
type UpdateMapRequest struct {
	Nodes []NodeRequest `json:"nodes" validate:"required,min=1,dive"`
	Edges []EdgeRequest `json:"edges" validate:"dive"`
}

// SelectEdgeRequest picks the edge to study.
type SelectEdgeRequest struct {
	EdgeID string `json:"edge_id" validate:"required,uuid"`
}

// SelectEdgeResponse reports the selection and the generated plan.
type SelectEdgeResponse struct {
	Message   string           `json:"message"`
	SessionID uuid.UUID        `json:"session_id"`
	EdgeID    uuid.UUID        `json:"edge_id"`
	SubTasks  []domain.SubTask `json:"sub_tasks"`
	NextStep  domain.Step      `json:"next_step"`
}

// CardRequest creates or replaces a knowledge card. Omitting keywords asks
// the server to extract them.
type CardRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required"`
	Keywords []string `json:"keywords"`
}

// KeywordSearchRequest finds cards carrying any of the keywords.
type KeywordSearchRequest struct {
	Keywords []string `json:"keywords" validate:"required,min=1,dive,required"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractKeywordsRequest runs the keyword extractor over text.
type ExtractKeywordsRequest struct {
	Text        string `json:"text" validate:"required"`
	MaxKeywords int    `json:"max_keywords" validate:"gte=0,lte=100"`
	Mode        string `json:"mode" validate:"omitempty,oneof=keywords weighted phrases"`
}

// WeightedKeyword is one term of a weighted extraction.
type WeightedKeyword struct {
	Keyword string  `json:"keyword"`
	Weight  float64 `json:"weight"`
}

// ExtractKeywordsResponse holds the result for the requested mode; only
// one of Keywords and Weighted is set.
type ExtractKeywordsResponse struct {
	Mode     string            `json:"mode"`
	Keywords []string          `json:"keywords,omitempty"`
	Weighted []WeightedKeyword `json:"weighted,omitempty"`
}

// HealthResponse answers /health.
type HealthResponse struct {
	Status string `json:"status"`
}
