package flow

import (
	"errors"
	"fmt"

	"github.com/phrazzld/metanav/internal/store"
)

// ErrSessionNotFound is returned when the session id does not resolve.
var ErrSessionNotFound = errors.New("learning session not found")

// EngineError wraps an unexpected failure of an engine operation.
type EngineError struct {
	// Operation is the operation that failed (e.g., "process_jol")
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for EngineError.
func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flow %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("flow %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// newEngineError returns ErrSessionNotFound directly for store not-found
// errors and wraps everything else.
func newEngineError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, store.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return &EngineError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
