package task

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a persisted task.
type Status string

// Task statuses.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// TypeKeywordIndex is the type of tasks that re-extract a card's keywords.
const TypeKeywordIndex = "keyword_index"

// Task is a unit of background work.
type Task interface {
	ID() uuid.UUID
	Type() string
	// Payload is the JSON the task is persisted with. Together with the type
	// it is all a factory needs to rebuild the task.
	Payload() []byte
	Status() Status
	Execute(ctx context.Context) error
}

// Store persists tasks and their status transitions.
type Store interface {
	// SaveTask inserts a task in its current status.
	SaveTask(ctx context.Context, task Task) error

	// UpdateTaskStatus records a status change and an optional error message.
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status Status, errorMsg string) error

	// GetPendingTasks returns every pending task.
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks returns processing tasks. A non-zero olderThan
	// limits the result to tasks that have not been touched for that long.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// WithTx returns a Store that runs its statements on tx.
	WithTx(tx *sql.Tx) Store
}

// Submitter accepts tasks for background execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}
