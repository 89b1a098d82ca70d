package task

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTask struct {
	id      uuid.UUID
	status  Status
	execute func(ctx context.Context) error
}

func newFakeTask(execute func(ctx context.Context) error) *fakeTask {
	if execute == nil {
		execute = func(context.Context) error { return nil }
	}
	return &fakeTask{id: uuid.New(), status: StatusPending, execute: execute}
}

func (t *fakeTask) ID() uuid.UUID                     { return t.id }
func (t *fakeTask) Type() string                      { return "fake" }
func (t *fakeTask) Payload() []byte                   { return []byte(`{}`) }
func (t *fakeTask) Status() Status                    { return t.status }
func (t *fakeTask) Execute(ctx context.Context) error { return t.execute(ctx) }

type storedTask struct {
	task    Task
	status  Status
	errMsg  string
	touched time.Time
}

// memoryStore is a Store kept in a map. saveErr, when set, fails SaveTask.
type memoryStore struct {
	mu      sync.Mutex
	tasks   map[uuid.UUID]*storedTask
	history map[uuid.UUID][]Status
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		tasks:   make(map[uuid.UUID]*storedTask),
		history: make(map[uuid.UUID][]Status),
	}
}

func (s *memoryStore) SaveTask(_ context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.tasks[t.ID()] = &storedTask{task: t, status: t.Status(), touched: time.Now()}
	s.history[t.ID()] = append(s.history[t.ID()], t.Status())
	return nil
}

func (s *memoryStore) UpdateTaskStatus(_ context.Context, id uuid.UUID, status Status, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.tasks[id]
	if !ok {
		return nil
	}
	st.status = status
	st.errMsg = errMsg
	st.touched = time.Now()
	s.history[id] = append(s.history[id], status)
	return nil
}

func (s *memoryStore) byStatus(status Status, olderThan time.Duration) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Task
	for _, st := range s.tasks {
		if st.status != status {
			continue
		}
		if olderThan > 0 && time.Since(st.touched) < olderThan {
			continue
		}
		out = append(out, st.task)
	}
	return out
}

func (s *memoryStore) GetPendingTasks(context.Context) ([]Task, error) {
	return s.byStatus(StatusPending, 0), nil
}

func (s *memoryStore) GetProcessingTasks(_ context.Context, olderThan time.Duration) ([]Task, error) {
	return s.byStatus(StatusProcessing, olderThan), nil
}

func (s *memoryStore) WithTx(*sql.Tx) Store { return s }

func (s *memoryStore) statusOf(id uuid.UUID) (Status, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.tasks[id]
	if !ok {
		return "", ""
	}
	return st.status, st.errMsg
}

func (s *memoryStore) statuses(id uuid.UUID) []Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Status(nil), s.history[id]...)
}
