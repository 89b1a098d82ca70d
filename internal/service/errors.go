package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/flow"
	"github.com/phrazzld/metanav/internal/store"
)

// Sentinel errors returned by the services. The API maps each to 404.
var (
	ErrSessionNotFound      = errors.New("learning session not found")
	ErrCognitiveMapNotFound = errors.New("cognitive map not found")
	ErrEdgeNotFound         = errors.New("edge not found on cognitive map")
	ErrCardNotFound         = errors.New("knowledge card not found")
)

// ErrCognitiveMapExists is returned when a session already has a map.
var ErrCognitiveMapExists = fmt.Errorf("%w: session already has a cognitive map", store.ErrDuplicate)

// ServiceError wraps an unexpected failure with the service and operation
// it happened in.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// sentinels maps lower-layer errors to the service sentinel returned in
// their place. Order matters: specific store errors come before generic ones.
var sentinels = []struct {
	match error
	to    error
}{
	{ErrSessionNotFound, ErrSessionNotFound},
	{ErrCognitiveMapNotFound, ErrCognitiveMapNotFound},
	{ErrEdgeNotFound, ErrEdgeNotFound},
	{ErrCardNotFound, ErrCardNotFound},
	{ErrCognitiveMapExists, ErrCognitiveMapExists},
	{flow.ErrSessionNotFound, ErrSessionNotFound},
	{store.ErrSessionNotFound, ErrSessionNotFound},
	{store.ErrCognitiveMapNotFound, ErrCognitiveMapNotFound},
	{store.ErrEdgeNotFound, ErrEdgeNotFound},
	{store.ErrKnowledgeCardNotFound, ErrCardNotFound},
	{store.ErrCognitiveMapExists, ErrCognitiveMapExists},
}

// wrapError returns the matching sentinel for known conditions, err itself
// for domain validation failures, and a *ServiceError otherwise.
func wrapError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s.match) {
			return s.to
		}
	}
	if domain.IsValidationError(err) {
		return err
	}
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
