package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
)

// KnowledgeCardStore defines the interface for knowledge card persistence.
type KnowledgeCardStore interface {
	// Create saves a new card.
	Create(ctx context.Context, card *domain.KnowledgeCard) error

	// GetByID retrieves a card.
	// Returns ErrKnowledgeCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeCard, error)

	// List returns cards newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.KnowledgeCard, error)

	// Update saves title, content and keywords of an existing card.
	// Returns ErrKnowledgeCardNotFound if the card does not exist.
	Update(ctx context.Context, card *domain.KnowledgeCard) error

	// FillKeywords stores keywords on a card that has none. It reports
	// false and leaves the card unchanged when keywords are already set.
	// Returns ErrKnowledgeCardNotFound if the card does not exist.
	FillKeywords(ctx context.Context, id uuid.UUID, keywords []string) (bool, error)

	// Delete removes a card.
	// Returns ErrKnowledgeCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Search returns cards whose title, content or keywords contain query,
	// ignoring case.
	Search(ctx context.Context, query string, limit int) ([]*domain.KnowledgeCard, error)

	// SearchByKeywords returns cards carrying any of the given keywords.
	SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]*domain.KnowledgeCard, error)

	// WithTx returns a KnowledgeCardStore that runs its statements on tx.
	WithTx(tx *sql.Tx) KnowledgeCardStore
}
