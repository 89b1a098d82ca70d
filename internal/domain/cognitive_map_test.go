package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMap() *CognitiveMap {
	a := CognitiveNode{ID: uuid.New(), Name: "机器学习"}
	b := CognitiveNode{ID: uuid.New(), Name: "监督学习"}
	return &CognitiveMap{
		ID:        uuid.New(),
		SessionID: uuid.New(),
		Nodes:     []CognitiveNode{a, b},
		Edges: []CognitiveEdge{{
			ID:               uuid.New(),
			SourceID:         a.ID,
			TargetID:         b.ID,
			RelationshipType: RelationshipChild,
		}},
	}
}

func TestCognitiveMap_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, newTestMap().Validate())
	})

	t.Run("related edge without custom name", func(t *testing.T) {
		m := newTestMap()
		m.Edges[0].RelationshipType = RelationshipRelated
		assert.ErrorIs(t, m.Validate(), ErrCustomNameRequired)

		m.Edges[0].CustomName = "都属于AI"
		assert.NoError(t, m.Validate())
	})

	t.Run("unknown relationship", func(t *testing.T) {
		m := newTestMap()
		m.Edges[0].RelationshipType = "sideways"
		assert.ErrorIs(t, m.Validate(), ErrInvalidRelationshipType)
	})

	t.Run("dangling edge", func(t *testing.T) {
		m := newTestMap()
		m.Edges[0].TargetID = uuid.New()
		assert.ErrorIs(t, m.Validate(), ErrEdgeNodeMissing)
	})

	t.Run("self loop", func(t *testing.T) {
		m := newTestMap()
		m.Edges[0].TargetID = m.Edges[0].SourceID
		assert.ErrorIs(t, m.Validate(), ErrSelfReferenceEdge)
	})

	t.Run("blank node name", func(t *testing.T) {
		m := newTestMap()
		m.Nodes[1].Name = " "
		assert.ErrorIs(t, m.Validate(), ErrEmptyNodeName)
	})
}

func TestCognitiveMap_Lookup(t *testing.T) {
	t.Parallel()

	m := newTestMap()
	edge, ok := m.Edge(m.Edges[0].ID)
	require.True(t, ok)

	src, ok := m.Node(edge.SourceID)
	require.True(t, ok)
	assert.Equal(t, "机器学习", src.Name)

	_, ok = m.Edge(uuid.New())
	assert.False(t, ok)
}
