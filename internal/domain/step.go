package domain

// Step names a position in the metacognitive learning flow.
// The string values are stored in the database and returned by the API.
type Step string

// Flow steps, in the order a learner normally meets them.
const (
	StepProblemInput            Step = "problem_input"
	StepTaskDecomposition       Step = "task_decomposition"
	StepEdgeSelection           Step = "edge_selection"
	StepSubTaskGeneration       Step = "sub_task_generation"
	StepExpectationSetting      Step = "expectation_setting"
	StepJOLAssessment           Step = "jol_assessment"
	StepFOKAssessment           Step = "fok_assessment"
	StepLearningCompleted       Step = "learning_completed"
	StepEOLDifficultyAssessment Step = "eol_difficulty_assessment"
	StepConfidenceAssessment    Step = "confidence_assessment"
	StepTimeAllocation          Step = "time_allocation"
	StepExternalGuidance        Step = "external_guidance"
	StepTaskSwitching           Step = "task_switching"
	StepLearningInProgress      Step = "learning_in_progress"
	StepStrategySelection       Step = "strategy_selection"
)

// IsValid reports whether s is one of the known flow steps.
func (s Step) IsValid() bool {
	switch s {
	case StepProblemInput, StepTaskDecomposition, StepEdgeSelection,
		StepSubTaskGeneration, StepExpectationSetting, StepJOLAssessment,
		StepFOKAssessment, StepLearningCompleted, StepEOLDifficultyAssessment,
		StepConfidenceAssessment, StepTimeAllocation, StepExternalGuidance,
		StepTaskSwitching, StepLearningInProgress, StepStrategySelection:
		return true
	default:
		return false
	}
}

// ParseStep converts a raw step name into a Step.
// Returns ErrInvalidStep for unknown names.
func ParseStep(raw string) (Step, error) {
	s := Step(raw)
	if !s.IsValid() {
		return "", NewValidationError("current_step", "is not a known flow step", ErrInvalidStep)
	}
	return s, nil
}

// String returns the step name.
func (s Step) String() string {
	return string(s)
}
