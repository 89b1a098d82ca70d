package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/store"
)

const cardColumns = `id, title, content, keywords, created_at, updated_at`

// PostgresKnowledgeCardStore implements store.KnowledgeCardStore. Keywords
// are kept in a JSONB array column.
type PostgresKnowledgeCardStore struct {
	conn
	logger *slog.Logger
}

var _ store.KnowledgeCardStore = (*PostgresKnowledgeCardStore)(nil)

// NewPostgresKnowledgeCardStore creates a card store on db.
// It panics if db is nil.
func NewPostgresKnowledgeCardStore(db store.DBTX, logger *slog.Logger) *PostgresKnowledgeCardStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresKnowledgeCardStore{
		conn:   newConn(db),
		logger: logger.With(slog.String("component", "knowledge_card_store")),
	}
}

// WithTx implements store.KnowledgeCardStore.
func (s *PostgresKnowledgeCardStore) WithTx(tx *sql.Tx) store.KnowledgeCardStore {
	return &PostgresKnowledgeCardStore{conn: newConn(tx), logger: s.logger}
}

// Create implements store.KnowledgeCardStore.
func (s *PostgresKnowledgeCardStore) Create(ctx context.Context, card *domain.KnowledgeCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return err
	}

	keywords, err := encodeKeywords(card.Keywords)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO knowledge_cards (`+cardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		card.ID, card.Title, card.Content, keywords, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		log.Error("failed to create knowledge card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.KnowledgeCardStore.
func (s *PostgresKnowledgeCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeCard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM knowledge_cards WHERE id = $1`, id)

	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrKnowledgeCardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get knowledge card",
			slog.String("card_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return card, nil
}

// List implements store.KnowledgeCardStore.
func (s *PostgresKnowledgeCardStore) List(ctx context.Context, limit, offset int) ([]*domain.KnowledgeCard, error) {
	return s.query(ctx, "list", `
		SELECT `+cardColumns+`
		FROM knowledge_cards
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
}

// Update implements store.KnowledgeCardStore.
func (s *PostgresKnowledgeCardStore) Update(ctx context.Context, card *domain.KnowledgeCard) error {
	if err := card.Validate(); err != nil {
		return err
	}

	keywords, err := encodeKeywords(card.Keywords)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE knowledge_cards
		SET title = $1, content = $2, keywords = $3, updated_at = $4
		WHERE id = $5`,
		card.Title, card.Content, keywords, card.UpdatedAt, card.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update knowledge card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return CheckRowsAffected(res, store.ErrKnowledgeCardNotFound)
}

// FillKeywords implements store.KnowledgeCardStore.
func (s *PostgresKnowledgeCardStore) FillKeywords(ctx context.Context, id uuid.UUID, kws []string) (bool, error) {
	keywords, err := encodeKeywords(kws)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE knowledge_cards SET keywords = $1, updated_at = $2
		WHERE id = $3 AND keywords = '[]'::jsonb`,
		keywords, time.Now().UTC(), id)
	if err != nil {
		return false, MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}
	if n > 0 {
		return true, nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM knowledge_cards WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	if !exists {
		return false, store.ErrKnowledgeCardNotFound
	}
	return false, nil
}

// Delete implements store.KnowledgeCardStore.
func (s *PostgresKnowledgeCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM knowledge_cards WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(res, store.ErrKnowledgeCardNotFound)
}

// Search implements store.KnowledgeCardStore.
func (s *PostgresKnowledgeCardStore) Search(ctx context.Context, query string, limit int) ([]*domain.KnowledgeCard, error) {
	pattern := "%" + escapeLike(query) + "%"
	return s.query(ctx, "search", `
		SELECT `+cardColumns+`
		FROM knowledge_cards
		WHERE title ILIKE $1 OR content ILIKE $1 OR keywords::text ILIKE $1
		ORDER BY created_at DESC, id
		LIMIT $2`, pattern, limit)
}

// SearchByKeywords implements store.KnowledgeCardStore. Cards sharing more
// of the requested keywords rank first.
func (s *PostgresKnowledgeCardStore) SearchByKeywords(
	ctx context.Context,
	kws []string,
	limit int,
) ([]*domain.KnowledgeCard, error) {
	if len(kws) == 0 {
		return []*domain.KnowledgeCard{}, nil
	}

	wanted, err := encodeKeywords(kws)
	if err != nil {
		return nil, err
	}

	return s.query(ctx, "search by keywords", `
		SELECT `+cardColumns+`
		FROM knowledge_cards
		WHERE keywords ?| ARRAY(SELECT jsonb_array_elements_text($1::jsonb))
		ORDER BY (
			SELECT COUNT(*) FROM jsonb_array_elements_text(keywords) k
			WHERE k IN (SELECT jsonb_array_elements_text($1::jsonb))
		) DESC, created_at DESC
		LIMIT $2`, wanted, limit)
}

func (s *PostgresKnowledgeCardStore) query(
	ctx context.Context,
	op string,
	query string,
	args ...any,
) ([]*domain.KnowledgeCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("knowledge card query failed", slog.String("op", op), slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := []*domain.KnowledgeCard{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.KnowledgeCard, error) {
	var (
		card     domain.KnowledgeCard
		keywords []byte
	)
	if err := row.Scan(&card.ID, &card.Title, &card.Content, &keywords, &card.CreatedAt, &card.UpdatedAt); err != nil {
		return nil, err
	}

	card.Keywords = []string{}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &card.Keywords); err != nil {
			return nil, fmt.Errorf("failed to decode keywords of card %s: %w", card.ID, err)
		}
	}
	return &card, nil
}

// encodeKeywords renders keywords as a JSON array string for a jsonb
// parameter. nil becomes [].
func encodeKeywords(kws []string) (string, error) {
	if kws == nil {
		kws = []string{}
	}
	b, err := json.Marshal(kws)
	if err != nil {
		return "", fmt.Errorf("failed to encode keywords: %w", err)
	}
	return string(b), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
