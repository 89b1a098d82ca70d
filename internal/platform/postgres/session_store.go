package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/store"
)

const sessionColumns = `id, problem_statement, current_step, cognitive_map_id, selected_edge_id,
	session_data, created_at, updated_at`

// PostgresSessionStore implements store.SessionStore.
type PostgresSessionStore struct {
	conn
	logger *slog.Logger
}

var _ store.SessionStore = (*PostgresSessionStore)(nil)

// NewPostgresSessionStore creates a session store on db, which may be a
// *sql.DB or a *sql.Tx. It panics if db is nil.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSessionStore{
		conn:   newConn(db),
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// WithTx implements store.SessionStore.
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{conn: newConn(tx), logger: s.logger}
}

// Create implements store.SessionStore. The session row and its sub-tasks
// are written atomically.
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.LearningSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("invalid session", slog.String("error", err.Error()))
		return err
	}

	for i := range session.SubTasks {
		if session.SubTasks[i].ID == uuid.Nil {
			session.SubTasks[i].ID = uuid.New()
		}
	}

	data, err := json.Marshal(session.Data)
	if err != nil {
		return fmt.Errorf("failed to encode session data: %w", err)
	}

	err = s.atomic(ctx, func(db store.DBTX) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO learning_sessions (`+sessionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			session.ID,
			session.ProblemStatement,
			string(session.CurrentStep),
			nullUUID(session.CognitiveMapID),
			nullUUID(session.SelectedEdgeID),
			data,
			session.CreatedAt,
			session.UpdatedAt,
		)
		if err != nil {
			return MapError(err)
		}
		return insertSubTasks(ctx, db, session.ID, session.SubTasks)
	})
	if err != nil {
		log.Error("failed to create session",
			slog.String("session_id", session.ID.String()),
			slog.String("error", err.Error()))
		return err
	}

	log.Debug("session created", slog.String("session_id", session.ID.String()))
	return nil
}

// GetByID implements store.SessionStore.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := loadSession(ctx, s.db, id, false)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to get session",
				slog.String("session_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, err
	}
	return session, nil
}

// Update implements store.SessionStore. The session row is read with
// SELECT ... FOR UPDATE so concurrent updates of one session queue up
// behind each other.
func (s *PostgresSessionStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fn store.SessionUpdateFn,
) (*domain.LearningSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("session_id", id.String()))

	var result *domain.LearningSession
	err := s.atomic(ctx, func(db store.DBTX) error {
		current, err := loadSession(ctx, db, id, true)
		if err != nil {
			return err
		}

		mutation, err := fn(current)
		if err != nil {
			return err
		}
		if mutation.IsEmpty() {
			result = current
			return nil
		}

		next := mutation.Apply(*current)
		for i := range next.SubTasks {
			if next.SubTasks[i].ID == uuid.Nil {
				next.SubTasks[i].ID = uuid.New()
			}
		}
		next.UpdatedAt = time.Now().UTC()

		if err := next.Validate(); err != nil {
			return err
		}

		data, err := json.Marshal(next.Data)
		if err != nil {
			return fmt.Errorf("failed to encode session data: %w", err)
		}

		res, err := db.ExecContext(ctx, `
			UPDATE learning_sessions
			SET current_step = $1, cognitive_map_id = $2, selected_edge_id = $3,
				session_data = $4, updated_at = $5
			WHERE id = $6`,
			string(next.CurrentStep),
			nullUUID(next.CognitiveMapID),
			nullUUID(next.SelectedEdgeID),
			data,
			next.UpdatedAt,
			id,
		)
		if err != nil {
			return MapError(err)
		}
		if err := CheckRowsAffected(res, store.ErrSessionNotFound); err != nil {
			return err
		}

		if mutation.SubTasks != nil {
			if _, err := db.ExecContext(ctx, `DELETE FROM sub_tasks WHERE session_id = $1`, id); err != nil {
				return MapError(err)
			}
			if err := insertSubTasks(ctx, db, id, next.SubTasks); err != nil {
				return err
			}
		}

		result = &next
		return nil
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Debug("session update aborted", slog.String("error", err.Error()))
		}
		return nil, err
	}

	return result, nil
}

func loadSession(ctx context.Context, db store.DBTX, id uuid.UUID, forUpdate bool) (*domain.LearningSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM learning_sessions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		session     domain.LearningSession
		step        string
		mapID       uuid.NullUUID
		edgeID      uuid.NullUUID
		sessionData []byte
	)
	err := db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.ProblemStatement,
		&step,
		&mapID,
		&edgeID,
		&sessionData,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, MapError(err)
	}

	session.CurrentStep = domain.Step(step)
	session.CognitiveMapID = uuidPtr(mapID)
	session.SelectedEdgeID = uuidPtr(edgeID)
	if len(sessionData) > 0 {
		if err := json.Unmarshal(sessionData, &session.Data); err != nil {
			return nil, fmt.Errorf("failed to decode session data: %w", err)
		}
	}

	session.SubTasks, err = loadSubTasks(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func loadSubTasks(ctx context.Context, db store.DBTX, sessionID uuid.UUID) ([]domain.SubTask, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, order_index, mastery_expectation
		FROM sub_tasks
		WHERE session_id = $1
		ORDER BY order_index`, sessionID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []domain.SubTask{}
	for rows.Next() {
		var (
			t       domain.SubTask
			mastery string
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Order, &mastery); err != nil {
			return nil, fmt.Errorf("failed to scan sub-task: %w", err)
		}
		t.MasteryExpectation = domain.MasteryLevel(mastery)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

func insertSubTasks(ctx context.Context, db store.DBTX, sessionID uuid.UUID, tasks []domain.SubTask) error {
	for _, t := range tasks {
		_, err := db.ExecContext(ctx, `
			INSERT INTO sub_tasks (id, session_id, name, description, order_index, mastery_expectation)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			t.ID, sessionID, t.Name, t.Description, t.Order, string(t.MasteryExpectation),
		)
		if err != nil {
			return MapError(err)
		}
	}
	return nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	v := id.UUID
	return &v
}
