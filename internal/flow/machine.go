package flow

import (
	"github.com/phrazzld/metanav/internal/domain"
)

// Transition is the outcome of one flow decision.
type Transition struct {
	Next domain.Step
	Data domain.SessionData
}

// Machine defines the pure flow decisions. Every method validates its
// enumeration argument first and returns an error without a transition when
// the value is unknown.
type Machine interface {
	// ProcessJOL records a judgment of learning and compares its score with
	// the expected mastery.
	ProcessJOL(data domain.SessionData, level domain.JOLLevel) (Transition, error)

	// ProcessFOK records a feeling of knowing and compares its score with the
	// expected mastery.
	ProcessFOK(data domain.SessionData, level domain.FOKLevel) (Transition, error)

	// Compare decides between learning_completed (actual >= expected) and
	// eol_difficulty_assessment, recording the comparison result.
	Compare(data domain.SessionData, actual int) (Transition, error)

	// ProcessConfidence routes by the learner's confidence.
	ProcessConfidence(data domain.SessionData, level domain.ConfidenceLevel) (Transition, error)

	// ProcessTimeAllocation records the study block and starts learning.
	ProcessTimeAllocation(data domain.SessionData, allocation domain.TimeAllocation) (Transition, error)

	// ProcessObstacle routes on whether the learner hit an obstacle.
	ProcessObstacle(data domain.SessionData, hasObstacle bool) Transition
}

type defaultMachine struct {
	params *Params
}

// NewMachine creates a Machine with default parameters.
func NewMachine() Machine {
	return &defaultMachine{params: NewDefaultParams()}
}

// NewMachineWithParams creates a Machine with custom parameters.
func NewMachineWithParams(params *Params) Machine {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultMachine{params: params}
}

func (m *defaultMachine) ProcessJOL(data domain.SessionData, level domain.JOLLevel) (Transition, error) {
	score, err := level.Score()
	if err != nil {
		return Transition{}, err
	}

	return m.Compare(data.Merge(domain.SessionData{
		JOLAssessment: &level,
		JOLScore:      &score,
	}), score)
}

func (m *defaultMachine) ProcessFOK(data domain.SessionData, level domain.FOKLevel) (Transition, error) {
	score, err := level.Score()
	if err != nil {
		return Transition{}, err
	}

	return m.Compare(data.Merge(domain.SessionData{
		FOKAssessment: &level,
		FOKScore:      &score,
	}), score)
}

func (m *defaultMachine) Compare(data domain.SessionData, actual int) (Transition, error) {
	expected := m.params.DefaultExpectedScore
	if data.ExpectedMasteryLevel != nil {
		score, err := data.ExpectedMasteryLevel.Score()
		if err != nil {
			return Transition{}, err
		}
		expected = score
	}

	result := domain.ComparisonBelowExpectation
	next := domain.StepEOLDifficultyAssessment
	if actual >= expected {
		result = domain.ComparisonAboveExpectation
		next = domain.StepLearningCompleted
	}

	return Transition{
		Next: next,
		Data: data.Merge(domain.SessionData{ComparisonResult: &result}),
	}, nil
}

func (m *defaultMachine) ProcessConfidence(data domain.SessionData, level domain.ConfidenceLevel) (Transition, error) {
	var next domain.Step
	switch level {
	case domain.ConfidenceConfident:
		next = domain.StepTimeAllocation
	case domain.ConfidenceNoConfidenceWithMaterials:
		next = domain.StepExternalGuidance
	case domain.ConfidenceNoConfidenceNoMaterials:
		next = domain.StepTaskSwitching
	default:
		return Transition{}, level.Validate()
	}

	return Transition{
		Next: next,
		Data: data.Merge(domain.SessionData{ConfidenceAssessment: &level}),
	}, nil
}

func (m *defaultMachine) ProcessTimeAllocation(
	data domain.SessionData,
	allocation domain.TimeAllocation,
) (Transition, error) {
	minutes, err := allocation.Minutes()
	if err != nil {
		return Transition{}, err
	}

	return Transition{
		Next: domain.StepLearningInProgress,
		Data: data.Merge(domain.SessionData{
			TimeAllocation:   &allocation,
			AllocatedMinutes: &minutes,
		}),
	}, nil
}

func (m *defaultMachine) ProcessObstacle(data domain.SessionData, hasObstacle bool) Transition {
	next := domain.StepStrategySelection
	if hasObstacle {
		next = domain.StepEOLDifficultyAssessment
	}

	return Transition{
		Next: next,
		Data: data.Merge(domain.SessionData{HasObstacle: &hasObstacle}),
	}
}
