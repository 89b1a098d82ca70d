package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the Runner.
type RunnerConfig struct {
	// WorkerCount is the number of concurrent workers.
	WorkerCount int

	// QueueSize bounds the in-memory queue.
	QueueSize int

	// StuckTaskAge is how long a task may sit in processing before the
	// monitor resets it to pending.
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval is how often the monitor runs. Defaults to
	// five minutes when zero.
	StuckTaskCheckInterval time.Duration
}

// DefaultRunnerConfig returns the configuration used when none is given.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// Runner persists, queues and executes tasks.
type Runner struct {
	store  Store
	queue  *Queue
	pool   *WorkerPool
	config RunnerConfig
	logger *slog.Logger

	onError func(task Task, err error)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Submitter = (*Runner)(nil)

// NewRunner creates a Runner backed by store.
func NewRunner(store Store, config RunnerConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}
	logger = logger.With(slog.String("component", "task_runner"))

	r := &Runner{
		store:   store,
		queue:   NewQueue(config.QueueSize, logger),
		config:  config,
		logger:  logger,
		onError: func(Task, error) {},
	}
	r.pool = NewWorkerPool(r.queue, config.WorkerCount, r.processTask, logger)
	return r
}

// SetErrorHandler registers a callback for failed task executions.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.onError = handler
}

// Submit persists task and queues it. When the queue is full the task
// stays pending in the store and is picked up on the next recovery.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := r.queue.Enqueue(task); err != nil {
		r.logger.Warn("task saved but not queued",
			slog.String("task_id", task.ID().String()),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Start recovers unfinished tasks, then starts the workers and the stuck
// task monitor.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.pool.Start(ctx)

	r.wg.Add(1)
	go r.monitorStuckTasks(ctx)
	return nil
}

// Stop halts the monitor and the workers, waits for in-flight tasks, and
// closes the queue.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.pool.Stop()
	r.queue.Close()
}

// Recover requeues pending tasks and resets interrupted processing tasks to
// pending before requeueing them.
func (r *Runner) Recover(ctx context.Context) error {
	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	processing, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		slog.Int("pending_count", len(pending)),
		slog.Int("processing_count", len(processing)))

	for _, t := range pending {
		r.requeue(t)
	}
	r.resetAndRequeue(ctx, processing, "reset after recovery")
	return nil
}

func (r *Runner) resetAndRequeue(ctx context.Context, tasks []Task, reason string) {
	for _, t := range tasks {
		if err := r.store.UpdateTaskStatus(ctx, t.ID(), StatusPending, reason); err != nil {
			r.logger.Error("failed to reset task status",
				slog.String("task_id", t.ID().String()),
				slog.String("error", err.Error()))
			continue
		}
		r.requeue(t)
	}
}

func (r *Runner) requeue(t Task) {
	if err := r.queue.Enqueue(t); err != nil {
		r.logger.Error("failed to requeue task",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
	}
}

func (r *Runner) processTask(ctx context.Context, t Task, workerID int) {
	log := r.logger.With(
		slog.String("task_id", t.ID().String()),
		slog.String("task_type", t.Type()),
		slog.Int("worker_id", workerID),
	)

	if err := r.store.UpdateTaskStatus(ctx, t.ID(), StatusProcessing, ""); err != nil {
		log.Error("failed to mark task processing", slog.String("error", err.Error()))
		return
	}

	start := time.Now()
	if err := t.Execute(ctx); err != nil {
		log.Error("task failed", slog.String("error", err.Error()))
		if updErr := r.store.UpdateTaskStatus(ctx, t.ID(), StatusFailed, err.Error()); updErr != nil {
			log.Error("failed to mark task failed", slog.String("error", updErr.Error()))
		}
		r.onError(t, err)
		return
	}

	log.Info("task completed", slog.Duration("duration", time.Since(start)))
	if err := r.store.UpdateTaskStatus(ctx, t.ID(), StatusCompleted, ""); err != nil {
		log.Error("failed to mark task completed", slog.String("error", err.Error()))
	}
}

func (r *Runner) monitorStuckTasks(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stuck, err := r.store.GetProcessingTasks(ctx, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("failed to query stuck tasks", slog.String("error", err.Error()))
				continue
			}
			if len(stuck) > 0 {
				r.logger.Warn("resetting stuck tasks", slog.Int("count", len(stuck)))
			}
			r.resetAndRequeue(ctx, stuck, "reset after being stuck in processing")
		}
	}
}
