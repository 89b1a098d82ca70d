package store

import (
	"errors"
	"fmt"
)

// Error categories. Entity errors below wrap one of them so callers can
// match either precisely or by kind.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity means the database rejected a row (constraint,
	// foreign key or not-null violation).
	ErrInvalidEntity = errors.New("invalid entity")

	ErrUpdateFailed      = errors.New("update failed")
	ErrTransactionFailed = errors.New("transaction failed")
)

var (
	ErrSessionNotFound       = fmt.Errorf("%w: learning session", ErrNotFound)
	ErrCognitiveMapNotFound  = fmt.Errorf("%w: cognitive map", ErrNotFound)
	ErrEdgeNotFound          = fmt.Errorf("%w: cognitive edge", ErrNotFound)
	ErrKnowledgeCardNotFound = fmt.Errorf("%w: knowledge card", ErrNotFound)
	ErrTaskNotFound          = fmt.Errorf("%w: task", ErrNotFound)

	// ErrCognitiveMapExists: a session has at most one cognitive map.
	ErrCognitiveMapExists = fmt.Errorf("%w: cognitive map for session", ErrDuplicate)
)

// IsNotFoundError reports whether err is, or wraps, any not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is, or wraps, any duplicate error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
