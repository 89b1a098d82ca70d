package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/store"
)

// PostgresCognitiveMapStore implements store.CognitiveMapStore.
type PostgresCognitiveMapStore struct {
	conn
	logger *slog.Logger
}

var _ store.CognitiveMapStore = (*PostgresCognitiveMapStore)(nil)

// NewPostgresCognitiveMapStore creates a cognitive map store on db.
// It panics if db is nil.
func NewPostgresCognitiveMapStore(db store.DBTX, logger *slog.Logger) *PostgresCognitiveMapStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCognitiveMapStore{
		conn:   newConn(db),
		logger: logger.With(slog.String("component", "cognitive_map_store")),
	}
}

// WithTx implements store.CognitiveMapStore.
func (s *PostgresCognitiveMapStore) WithTx(tx *sql.Tx) store.CognitiveMapStore {
	return &PostgresCognitiveMapStore{conn: newConn(tx), logger: s.logger}
}

// Create implements store.CognitiveMapStore.
func (s *PostgresCognitiveMapStore) Create(ctx context.Context, m *domain.CognitiveMap) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("map_id", m.ID.String()))

	if err := m.Validate(); err != nil {
		log.Warn("invalid cognitive map", slog.String("error", err.Error()))
		return err
	}

	err := s.atomic(ctx, func(db store.DBTX) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO cognitive_maps (id, session_id, created_at) VALUES ($1, $2, $3)`,
			m.ID, m.SessionID, m.CreatedAt)
		if err != nil {
			if IsUniqueViolation(err) {
				return fmt.Errorf("%w: %v", store.ErrCognitiveMapExists, err)
			}
			return MapError(err)
		}

		return insertGraph(ctx, db, m)
	})
	if err != nil {
		log.Error("failed to create cognitive map", slog.String("error", err.Error()))
		return err
	}

	log.Debug("cognitive map created",
		slog.Int("node_count", len(m.Nodes)),
		slog.Int("edge_count", len(m.Edges)))
	return nil
}

// Replace implements store.CognitiveMapStore. The map row is locked while the
// old graph is deleted and the new one inserted.
func (s *PostgresCognitiveMapStore) Replace(ctx context.Context, m *domain.CognitiveMap) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("map_id", m.ID.String()))

	if err := m.Validate(); err != nil {
		log.Warn("invalid cognitive map", slog.String("error", err.Error()))
		return err
	}

	err := s.atomic(ctx, func(db store.DBTX) error {
		var sessionID uuid.UUID
		err := db.QueryRowContext(ctx,
			`SELECT session_id FROM cognitive_maps WHERE id = $1 FOR UPDATE`, m.ID,
		).Scan(&sessionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrCognitiveMapNotFound
			}
			return MapError(err)
		}
		if sessionID != m.SessionID {
			return fmt.Errorf("%w: map %s belongs to another session", store.ErrInvalidEntity, m.ID)
		}

		if _, err := db.ExecContext(ctx, `DELETE FROM cognitive_edges WHERE map_id = $1`, m.ID); err != nil {
			return MapError(err)
		}
		if _, err := db.ExecContext(ctx, `DELETE FROM cognitive_nodes WHERE map_id = $1`, m.ID); err != nil {
			return MapError(err)
		}
		return insertGraph(ctx, db, m)
	})
	if err != nil {
		if !errors.Is(err, store.ErrCognitiveMapNotFound) {
			log.Error("failed to replace cognitive map", slog.String("error", err.Error()))
		}
		return err
	}

	log.Debug("cognitive map replaced",
		slog.Int("node_count", len(m.Nodes)),
		slog.Int("edge_count", len(m.Edges)))
	return nil
}

// insertGraph writes the nodes and edges of m in order.
func insertGraph(ctx context.Context, db store.DBTX, m *domain.CognitiveMap) error {
	for i, n := range m.Nodes {
		_, err := db.ExecContext(ctx, `
			INSERT INTO cognitive_nodes (id, map_id, name, description, position_x, position_y, ordinal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			n.ID, m.ID, n.Name, n.Description, n.X, n.Y, i)
		if err != nil {
			return MapError(err)
		}
	}

	for i, e := range m.Edges {
		_, err := db.ExecContext(ctx, `
			INSERT INTO cognitive_edges
				(id, map_id, source_node_id, target_node_id, relationship_type, custom_name, ordinal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, m.ID, e.SourceID, e.TargetID, string(e.RelationshipType), e.CustomName, i)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

// GetByID implements store.CognitiveMapStore. Nodes and edges come back in
// creation order.
func (s *PostgresCognitiveMapStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CognitiveMap, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	m := &domain.CognitiveMap{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, created_at FROM cognitive_maps WHERE id = $1`, id,
	).Scan(&m.SessionID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCognitiveMapNotFound
		}
		log.Error("failed to get cognitive map",
			slog.String("map_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if m.Nodes, err = s.nodes(ctx, id); err != nil {
		return nil, err
	}
	if m.Edges, err = s.edges(ctx, id); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *PostgresCognitiveMapStore) nodes(ctx context.Context, mapID uuid.UUID) ([]domain.CognitiveNode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, position_x, position_y
		FROM cognitive_nodes
		WHERE map_id = $1
		ORDER BY ordinal`, mapID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	nodes := []domain.CognitiveNode{}
	for rows.Next() {
		var n domain.CognitiveNode
		if err := rows.Scan(&n.ID, &n.Name, &n.Description, &n.X, &n.Y); err != nil {
			return nil, fmt.Errorf("failed to scan cognitive node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, MapError(rows.Err())
}

func (s *PostgresCognitiveMapStore) edges(ctx context.Context, mapID uuid.UUID) ([]domain.CognitiveEdge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_node_id, target_node_id, relationship_type, custom_name
		FROM cognitive_edges
		WHERE map_id = $1
		ORDER BY ordinal`, mapID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	edges := []domain.CognitiveEdge{}
	for rows.Next() {
		var (
			e   domain.CognitiveEdge
			rel string
		)
		if err := rows.Scan(&e.ID, &e.SourceID, &e.TargetID, &rel, &e.CustomName); err != nil {
			return nil, fmt.Errorf("failed to scan cognitive edge: %w", err)
		}
		e.RelationshipType = domain.RelationshipType(rel)
		edges = append(edges, e)
	}
	return edges, MapError(rows.Err())
}
