package domain

import "fmt"

// JOLLevel is a Judgment of Learning: how well the learner expects to recall
// the material later.
type JOLLevel string

// JOL levels, strongest first.
const (
	JOLCompletelyRemember JOLLevel = "完全记得住"
	JOLMostlyRemember     JOLLevel = "大部分记得住"
	JOLBarelyRemember     JOLLevel = "记不太住"
	JOLCannotRemember     JOLLevel = "完全不记得"
)

// Score returns the fixed score of the level (4 down to 1).
func (l JOLLevel) Score() (int, error) {
	switch l {
	case JOLCompletelyRemember:
		return 4, nil
	case JOLMostlyRemember:
		return 3, nil
	case JOLBarelyRemember:
		return 2, nil
	case JOLCannotRemember:
		return 1, nil
	default:
		return 0, invalidValue("jol_level", string(l))
	}
}

// FOKLevel is a Feeling of Knowing: how well the learner feels they
// understand the topic.
type FOKLevel string

// FOK levels, strongest first.
const (
	FOKMasterCompletely FOKLevel = "吃透"
	FOKUnderstandWell   FOKLevel = "能了解"
	FOKUnderstandLittle FOKLevel = "能了解一点点"
	FOKCannotHandle     FOKLevel = "啃不下来"
)

// Score returns the fixed score of the level (4 down to 1).
func (l FOKLevel) Score() (int, error) {
	switch l {
	case FOKMasterCompletely:
		return 4, nil
	case FOKUnderstandWell:
		return 3, nil
	case FOKUnderstandLittle:
		return 2, nil
	case FOKCannotHandle:
		return 1, nil
	default:
		return 0, invalidValue("fok_level", string(l))
	}
}

// ConfidenceLevel is the learner's confidence in finishing the task.
type ConfidenceLevel string

// Confidence levels.
const (
	ConfidenceConfident                 ConfidenceLevel = "有信心完成任务"
	ConfidenceNoConfidenceWithMaterials ConfidenceLevel = "没信心完成任务，但是有资料"
	ConfidenceNoConfidenceNoMaterials   ConfidenceLevel = "没信心完成任务，而且没资料"
)

// Validate returns ErrInvalidAssessmentValue for unknown levels.
func (l ConfidenceLevel) Validate() error {
	switch l {
	case ConfidenceConfident, ConfidenceNoConfidenceWithMaterials, ConfidenceNoConfidenceNoMaterials:
		return nil
	default:
		return invalidValue("confidence", string(l))
	}
}

// TimeAllocation is the study block the learner commits to.
type TimeAllocation string

// Time allocations.
const (
	TimeTwentyMinutes TimeAllocation = "20min"
	TimeThirtyMinutes TimeAllocation = "30min"
	TimeOneHour       TimeAllocation = "1h"
	TimeLonger        TimeAllocation = "更长时间"
)

// Minutes returns the countdown length for the allocation.
// Longer is rounded to two hours.
func (t TimeAllocation) Minutes() (int, error) {
	switch t {
	case TimeTwentyMinutes:
		return 20, nil
	case TimeThirtyMinutes:
		return 30, nil
	case TimeOneHour:
		return 60, nil
	case TimeLonger:
		return 120, nil
	default:
		return 0, invalidValue("time_allocation", string(t))
	}
}

// MasteryLevel is the depth of understanding a sub-task aims for.
type MasteryLevel string

// Mastery levels.
const (
	MasterySemanticDerivation     MasteryLevel = "语义级别的公式推导"
	MasteryIntuitiveUnderstanding MasteryLevel = "建立表象的直觉理解"
)

// Score returns the expectation score used when comparing against JOL/FOK.
func (m MasteryLevel) Score() (int, error) {
	switch m {
	case MasterySemanticDerivation:
		return 4, nil
	case MasteryIntuitiveUnderstanding:
		return 2, nil
	default:
		return 0, invalidValue("mastery_level", string(m))
	}
}

// Validate returns ErrInvalidAssessmentValue for unknown levels.
func (m MasteryLevel) Validate() error {
	_, err := m.Score()
	return err
}

// ComparisonResult records how an assessment compared to the expectation.
type ComparisonResult string

// Comparison results.
const (
	ComparisonAboveExpectation ComparisonResult = "above_expectation"
	ComparisonBelowExpectation ComparisonResult = "below_expectation"
)

func invalidValue(field, value string) error {
	return NewValidationError(field, fmt.Sprintf("has unknown value %q", value), ErrInvalidAssessmentValue)
}
