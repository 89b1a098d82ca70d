package domain

// SessionData is the ledger a learning session accumulates as it moves
// through the flow. Every field is optional; a nil field has not been
// recorded yet. The JSON keys are the ones stored in the session_data column.
type SessionData struct {
	ExpectedMasteryLevel *MasteryLevel     `json:"expected_mastery_level,omitempty"`
	Importance           *string           `json:"importance,omitempty"`
	JOLAssessment        *JOLLevel         `json:"jol_assessment,omitempty"`
	JOLScore             *int              `json:"jol_score,omitempty"`
	FOKAssessment        *FOKLevel         `json:"fok_assessment,omitempty"`
	FOKScore             *int              `json:"fok_score,omitempty"`
	ComparisonResult     *ComparisonResult `json:"comparison_result,omitempty"`
	ConfidenceAssessment *ConfidenceLevel  `json:"confidence_assessment,omitempty"`
	TimeAllocation       *TimeAllocation   `json:"time_allocation,omitempty"`
	AllocatedMinutes     *int              `json:"allocated_minutes,omitempty"`
	HasObstacle          *bool             `json:"has_obstacle,omitempty"`
}

// Merge returns a copy of d where every non-nil field of patch replaces the
// corresponding field of d. Neither d nor patch is modified.
func (d SessionData) Merge(patch SessionData) SessionData {
	out := d
	if patch.ExpectedMasteryLevel != nil {
		out.ExpectedMasteryLevel = patch.ExpectedMasteryLevel
	}
	if patch.Importance != nil {
		out.Importance = patch.Importance
	}
	if patch.JOLAssessment != nil {
		out.JOLAssessment = patch.JOLAssessment
	}
	if patch.JOLScore != nil {
		out.JOLScore = patch.JOLScore
	}
	if patch.FOKAssessment != nil {
		out.FOKAssessment = patch.FOKAssessment
	}
	if patch.FOKScore != nil {
		out.FOKScore = patch.FOKScore
	}
	if patch.ComparisonResult != nil {
		out.ComparisonResult = patch.ComparisonResult
	}
	if patch.ConfidenceAssessment != nil {
		out.ConfidenceAssessment = patch.ConfidenceAssessment
	}
	if patch.TimeAllocation != nil {
		out.TimeAllocation = patch.TimeAllocation
	}
	if patch.AllocatedMinutes != nil {
		out.AllocatedMinutes = patch.AllocatedMinutes
	}
	if patch.HasObstacle != nil {
		out.HasObstacle = patch.HasObstacle
	}
	return out
}

// Validate checks that every recorded enumeration value is known.
// Scores and minutes are not cross-checked against their labels.
func (d SessionData) Validate() error {
	if d.ExpectedMasteryLevel != nil {
		if err := d.ExpectedMasteryLevel.Validate(); err != nil {
			return err
		}
	}
	if d.JOLAssessment != nil {
		if _, err := d.JOLAssessment.Score(); err != nil {
			return err
		}
	}
	if d.FOKAssessment != nil {
		if _, err := d.FOKAssessment.Score(); err != nil {
			return err
		}
	}
	if d.ConfidenceAssessment != nil {
		if err := d.ConfidenceAssessment.Validate(); err != nil {
			return err
		}
	}
	if d.TimeAllocation != nil {
		if _, err := d.TimeAllocation.Minutes(); err != nil {
			return err
		}
	}
	if d.ComparisonResult != nil {
		switch *d.ComparisonResult {
		case ComparisonAboveExpectation, ComparisonBelowExpectation:
		default:
			return invalidValue("comparison_result", string(*d.ComparisonResult))
		}
	}
	return nil
}

// Ptr returns a pointer to v. It keeps SessionData literals short.
func Ptr[T any](v T) *T {
	return &v
}
