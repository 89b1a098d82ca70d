package task

import (
	"context"
	"log/slog"
	"sync"
)

// ProcessFunc handles one task on behalf of a worker.
type ProcessFunc func(ctx context.Context, task Task, workerID int)

// WorkerPool runs a fixed number of goroutines that drain a Queue.
type WorkerPool struct {
	queue   *Queue
	count   int
	process ProcessFunc
	logger  *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewWorkerPool creates a pool of count workers. Counts below one become one.
func NewWorkerPool(queue *Queue, count int, process ProcessFunc, logger *slog.Logger) *WorkerPool {
	if count < 1 {
		logger.Warn("invalid worker count, using 1", slog.Int("worker_count", count))
		count = 1
	}
	return &WorkerPool{
		queue:   queue,
		count:   count,
		process: process,
		logger:  logger,
	}
}

// Start launches the workers. Each worker stops when ctx is cancelled, Stop
// is called, or the queue is closed and drained.
func (p *WorkerPool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.work(ctx, i)
	}
	p.logger.Info("worker pool started", slog.Int("worker_count", p.count))
}

// Stop signals the workers and waits for in-flight tasks to finish.
func (p *WorkerPool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) work(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-p.queue.Channel():
			if !ok {
				return
			}
			// In-flight work is not tied to the pool's lifetime.
			p.process(context.WithoutCancel(ctx), task, id)
		}
	}
}
