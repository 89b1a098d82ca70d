package store_test

import (
	"errors"
	"testing"

	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/store"
	"github.com/stretchr/testify/assert"
)

// TestErrorDefinitions ensures entity errors can be matched both exactly and
// against their generic category.
func TestErrorDefinitions(t *testing.T) {
	t.Parallel()

	t.Run("ErrSessionNotFound", func(t *testing.T) {
		t.Parallel()

		err := store.ErrSessionNotFound
		assert.True(t, errors.Is(err, store.ErrSessionNotFound))
		assert.True(t, errors.Is(err, store.ErrNotFound))
		assert.False(t, errors.Is(err, store.ErrKnowledgeCardNotFound))
		assert.Equal(t, "entity not found: learning session", err.Error())
	})

	t.Run("ErrCognitiveMapExists", func(t *testing.T) {
		t.Parallel()

		err := store.ErrCognitiveMapExists
		assert.True(t, errors.Is(err, store.ErrDuplicate))
		assert.False(t, errors.Is(err, store.ErrNotFound))
		assert.Equal(t, "entity already exists: cognitive map for session", err.Error())
	})
}

func TestSessionMutation_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, (&store.SessionMutation{}).IsEmpty())
	assert.False(t, (&store.SessionMutation{Step: domain.Ptr(domain.StepJOLAssessment)}).IsEmpty())
}
