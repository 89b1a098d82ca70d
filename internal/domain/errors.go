package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidAssessmentValue is returned when a JOL, FOK, confidence,
	// time allocation or mastery value is not a member of its enumeration.
	ErrInvalidAssessmentValue = errors.New("invalid assessment value")

	// ErrInvalidRelationshipType is returned when a relationship is not one of
	// Parent, Child, Sibling or Related.
	ErrInvalidRelationshipType = errors.New("invalid relationship type")

	// ErrInvalidStep is returned when a flow step name is unknown.
	ErrInvalidStep = errors.New("invalid flow step")

	// ErrCustomNameRequired is returned when a Related edge has no custom label.
	ErrCustomNameRequired = errors.New("custom name is required for related relationship")
)

// ValidationError describes a single field that failed validation.
// It wraps one of the sentinel errors above so callers can use errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// IsValidationError reports whether err is a ValidationError or wraps one of
// the domain's validation sentinels. Such errors describe bad input rather
// than a failure of the system.
func IsValidationError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, target := range validationSentinels {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var validationSentinels = []error{
	ErrValidation,
	ErrInvalidID,
	ErrEmptyContent,
	ErrInvalidAssessmentValue,
	ErrInvalidRelationshipType,
	ErrInvalidStep,
	ErrCustomNameRequired,
	ErrCardIDEmpty,
	ErrCardTitleEmpty,
	ErrCardContentEmpty,
	ErrEmptyNodeName,
	ErrEdgeNodeMissing,
	ErrSelfReferenceEdge,
	ErrEmptySessionID,
	ErrEmptyProblemStatement,
	ErrEmptySubTaskName,
	ErrInvalidSubTaskRank,
}
