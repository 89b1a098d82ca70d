package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
)

// CognitiveMapStore defines the interface for cognitive map persistence.
type CognitiveMapStore interface {
	// Create saves a map with all its nodes and edges.
	// IMPORTANT: nodes and edges are separate rows; run this inside
	// RunInTransaction with WithTx so a failure leaves nothing behind.
	// Returns ErrCognitiveMapExists if the session already has a map.
	Create(ctx context.Context, m *domain.CognitiveMap) error

	// GetByID retrieves a map with its nodes and edges.
	// Returns ErrCognitiveMapNotFound if the map does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CognitiveMap, error)

	// Replace swaps the nodes and edges of the existing map m.ID for those
	// of m. The map row, its session and creation time are kept.
	// Returns ErrCognitiveMapNotFound if the map does not exist.
	Replace(ctx context.Context, m *domain.CognitiveMap) error

	// WithTx returns a CognitiveMapStore that runs its statements on tx.
	WithTx(tx *sql.Tx) CognitiveMapStore
}
