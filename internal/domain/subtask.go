package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sub-task validation errors
var (
	ErrEmptySubTaskName   = errors.New("sub-task name cannot be empty")
	ErrInvalidSubTaskRank = errors.New("sub-task orders must run 1..n without gaps")
)

// SubTask is one step of a learning plan derived from a cognitive map edge.
type SubTask struct {
	ID                 uuid.UUID    `json:"id"`
	Name               string       `json:"name"`
	Description        string       `json:"description,omitempty"`
	Order              int          `json:"order"`
	MasteryExpectation MasteryLevel `json:"mastery_expectation,omitempty"`
}

// ValidateSubTasks checks a batch of sub-tasks belonging to one session:
// names are present, orders are exactly 1..n in sequence, and any mastery
// expectation is a known level.
func ValidateSubTasks(tasks []SubTask) error {
	for i, task := range tasks {
		if task.Name == "" {
			return ErrEmptySubTaskName
		}

		if task.Order != i+1 {
			return NewValidationError(
				fmt.Sprintf("sub_tasks[%d].order", i),
				fmt.Sprintf("is %d, want %d", task.Order, i+1),
				ErrInvalidSubTaskRank,
			)
		}

		if task.MasteryExpectation != "" {
			if err := task.MasteryExpectation.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
