package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cognitive map validation errors
var (
	ErrEmptyNodeName     = errors.New("node name cannot be empty")
	ErrEdgeNodeMissing   = errors.New("edge references a node that is not on the map")
	ErrSelfReferenceEdge = errors.New("edge cannot connect a node to itself")
)

// CognitiveMap is the concept graph a learner draws while decomposing the
// problem of one session.
type CognitiveMap struct {
	ID        uuid.UUID       `json:"id"`
	SessionID uuid.UUID       `json:"session_id"`
	Nodes     []CognitiveNode `json:"nodes"`
	Edges     []CognitiveEdge `json:"edges"`
	CreatedAt time.Time       `json:"created_at"`
}

// CognitiveNode is one concept on a map.
type CognitiveNode struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	X           float64   `json:"position_x"`
	Y           float64   `json:"position_y"`
}

// CognitiveEdge links two nodes of the same map.
type CognitiveEdge struct {
	ID               uuid.UUID        `json:"id"`
	SourceID         uuid.UUID        `json:"source_node_id"`
	TargetID         uuid.UUID        `json:"target_node_id"`
	RelationshipType RelationshipType `json:"relationship_type"`
	CustomName       string           `json:"custom_name,omitempty"`
}

// Validate checks the relationship and the custom label rule for Related edges.
func (e CognitiveEdge) Validate() error {
	if err := e.RelationshipType.Validate(); err != nil {
		return err
	}
	if e.RelationshipType.RequiresCustomName() && strings.TrimSpace(e.CustomName) == "" {
		return NewValidationError("custom_name", "is required", ErrCustomNameRequired)
	}
	if e.SourceID == e.TargetID {
		return ErrSelfReferenceEdge
	}
	return nil
}

// Validate checks every node and edge, and that edges only reference nodes of
// this map.
func (m *CognitiveMap) Validate() error {
	if m.SessionID == uuid.Nil {
		return ErrEmptySessionID
	}

	ids := make(map[uuid.UUID]struct{}, len(m.Nodes))
	for i, n := range m.Nodes {
		if strings.TrimSpace(n.Name) == "" {
			return NewValidationError(fmt.Sprintf("nodes[%d].name", i), "is required", ErrEmptyNodeName)
		}
		ids[n.ID] = struct{}{}
	}

	for _, e := range m.Edges {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, ok := ids[e.SourceID]; !ok {
			return ErrEdgeNodeMissing
		}
		if _, ok := ids[e.TargetID]; !ok {
			return ErrEdgeNodeMissing
		}
	}
	return nil
}

// Node returns the node with the given ID.
func (m *CognitiveMap) Node(id uuid.UUID) (CognitiveNode, bool) {
	for _, n := range m.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return CognitiveNode{}, false
}

// Edge returns the edge with the given ID.
func (m *CognitiveMap) Edge(id uuid.UUID) (CognitiveEdge, bool) {
	for _, e := range m.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return CognitiveEdge{}, false
}
