package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/platform/logger"
	"github.com/phrazzld/metanav/internal/store"
	"github.com/phrazzld/metanav/internal/task"
)

// PostgresTaskStore implements task.Store. Loaded rows are turned back into
// runnable tasks through the registry; rows whose type has no factory are
// marked failed and skipped.
type PostgresTaskStore struct {
	db       store.DBTX
	registry *task.Registry
	logger   *slog.Logger
}

var _ task.Store = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a task store on db. It panics if db or
// registry is nil.
func NewPostgresTaskStore(db store.DBTX, registry *task.Registry, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if registry == nil {
		panic("registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:       db,
		registry: registry,
		logger:   logger.With(slog.String("component", "task_store")),
	}
}

// WithTx implements task.Store.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) task.Store {
	return &PostgresTaskStore{db: tx, registry: s.registry, logger: s.logger}
}

// SaveTask implements task.Store.
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID(), t.Type(), string(t.Payload()), string(t.Status()), now, now)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save task",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// UpdateTaskStatus implements task.Store. An empty errorMsg clears the
// stored message.
func (s *PostgresTaskStore) UpdateTaskStatus(
	ctx context.Context,
	id uuid.UUID,
	status task.Status,
	errorMsg string,
) error {
	msg := sql.NullString{String: errorMsg, Valid: errorMsg != ""}
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4`,
		string(status), msg, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(res, store.ErrTaskNotFound)
}

// GetPendingTasks implements task.Store.
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return s.byStatus(ctx, task.StatusPending, 0)
}

// GetProcessingTasks implements task.Store.
func (s *PostgresTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.Task, error) {
	return s.byStatus(ctx, task.StatusProcessing, olderThan)
}

type taskRow struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	status   task.Status
}

func (s *PostgresTaskStore) byStatus(ctx context.Context, status task.Status, olderThan time.Duration) ([]task.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, type, payload, status FROM tasks WHERE status = $1`
	args := []any{string(status)}
	if olderThan > 0 {
		query += ` AND updated_at < $2`
		args = append(args, time.Now().UTC().Add(-olderThan))
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}

	var loaded []taskRow
	for rows.Next() {
		var (
			r  taskRow
			st string
		)
		if err := rows.Scan(&r.id, &r.taskType, &r.payload, &st); err != nil {
			_ = rows.Close()
			return nil, MapError(err)
		}
		r.status = task.Status(st)
		loaded = append(loaded, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, MapError(err)
	}
	_ = rows.Close()

	tasks := make([]task.Task, 0, len(loaded))
	for _, r := range loaded {
		t, err := s.registry.Rebuild(r.id, r.taskType, r.payload, r.status)
		if err != nil {
			log.Error("cannot rebuild task, marking failed",
				slog.String("task_id", r.id.String()),
				slog.String("task_type", r.taskType),
				slog.String("error", err.Error()))
			if updErr := s.UpdateTaskStatus(ctx, r.id, task.StatusFailed, err.Error()); updErr != nil {
				log.Error("failed to mark task failed", slog.String("error", updErr.Error()))
			}
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
