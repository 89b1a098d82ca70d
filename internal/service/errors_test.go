package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	validation := domain.NewValidationError("x", "is wrong", domain.ErrValidation)
	dbErr := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil stays nil", nil, nil},
		{"session not found", fmt.Errorf("load: %w", store.ErrSessionNotFound), ErrSessionNotFound},
		{"map not found", store.ErrCognitiveMapNotFound, ErrCognitiveMapNotFound},
		{"card not found", store.ErrKnowledgeCardNotFound, ErrCardNotFound},
		{"edge not found", store.ErrEdgeNotFound, ErrEdgeNotFound},
		{"map exists", store.ErrCognitiveMapExists, ErrCognitiveMapExists},
		{"validation passes through", validation, validation},
		{"domain sentinel passes through", domain.ErrEmptyProblemStatement, domain.ErrEmptyProblemStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapError("session", "op", "msg", tt.err))
		})
	}

	t.Run("unexpected errors become ServiceError", func(t *testing.T) {
		err := wrapError("card", "delete_card", "failed to delete card", dbErr)

		var svcErr *ServiceError
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "card", svcErr.Service)
		assert.Equal(t, "delete_card", svcErr.Operation)
		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, "card service delete_card failed: failed to delete card: connection reset", err.Error())
	})
}

func TestErrCognitiveMapExists_IsDuplicate(t *testing.T) {
	assert.True(t, store.IsDuplicateError(ErrCognitiveMapExists))
}
