package domain

import "fmt"

// RelationshipType is the kind of link between two concepts on a cognitive map,
// read from the source concept's point of view.
type RelationshipType string

// Relationship types.
const (
	// RelationshipParent means the target is a super-concept of the source.
	RelationshipParent RelationshipType = "上级"
	// RelationshipChild means the target is a sub-concept of the source.
	RelationshipChild RelationshipType = "下级"
	// RelationshipSibling means source and target sit at the same level.
	RelationshipSibling RelationshipType = "并列"
	// RelationshipRelated is a free association; edges of this type carry a custom label.
	RelationshipRelated RelationshipType = "相关"
)

// Validate returns ErrInvalidRelationshipType for unknown relationships.
func (r RelationshipType) Validate() error {
	switch r {
	case RelationshipParent, RelationshipChild, RelationshipSibling, RelationshipRelated:
		return nil
	default:
		return NewValidationError("relationship_type", fmt.Sprintf("has unknown value %q", string(r)), ErrInvalidRelationshipType)
	}
}

// RequiresCustomName reports whether edges of this type need a custom label.
func (r RelationshipType) RequiresCustomName() bool {
	return r == RelationshipRelated
}
