package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/metanav/internal/api/shared"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/service"
	"github.com/phrazzld/metanav/internal/store"
)

// MapErrorToStatusCode maps service and domain errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrCognitiveMapNotFound),
		errors.Is(err, service.ErrEdgeNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &verrs),
		domain.IsValidationError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Validation
// messages are built from field names and rules only.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return "Learning session not found"
	case errors.Is(err, service.ErrCognitiveMapNotFound):
		return "Cognitive map not found"
	case errors.Is(err, service.ErrEdgeNotFound):
		return "Edge not found"
	case errors.Is(err, service.ErrCardNotFound):
		return "Knowledge card not found"
	case errors.Is(err, service.ErrCognitiveMapExists):
		return "Session already has a cognitive map"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.As(err, &verrs):
		return SanitizeValidationError(verrs)
	case domain.IsValidationError(err):
		return validationMessage(err)
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError describes the first failed field of a struct
// validation.
func SanitizeValidationError(verrs validator.ValidationErrors) string {
	if len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gt", "gte":
		return "too small or too short"
	case "max", "lt", "lte":
		return "too large or too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid UUID"
	case "dive":
		return "invalid entry"
	default:
		return "validation failed"
	}
}

// validationMessage renders a domain validation error. The text of domain
// errors is authored in this module and carries no internal state.
func validationMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("Invalid %s: %s", ve.Field, ve.Message)
	}
	msg := err.Error()
	if msg == "" {
		return "Validation error"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted error. fallback replaces the generic message on 5xx.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
