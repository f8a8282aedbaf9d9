package queue

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/bloodlink/bloodlink/pkg/logger"
)

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithConcurrency sets how many tasks run at once.
func WithConcurrency(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithTaskTimeout bounds each handler invocation.
func WithTaskTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.taskTimeout = d
		}
	}
}

// WithLogger sets the worker logger.
func WithLogger(l *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.log = l
		}
	}
}

// Worker drains a Queue and dispatches tasks to registered handlers.
type Worker struct {
	queue       *Queue
	concurrency int
	taskTimeout time.Duration
	log         *slog.Logger

	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewWorker creates a worker for q.
func NewWorker(q *Queue, opts ...WorkerOption) *Worker {
	w := &Worker{
		queue:       q,
		concurrency: 1,
		taskTimeout: 30 * time.Second,
		log:         slog.Default(),
		handlers:    make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RegisterHandlers adds handlers, replacing any with the same name.
func (w *Worker) RegisterHandlers(handlers ...Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, h := range handlers {
		if h != nil {
			w.handlers[h.Name()] = h
		}
	}
}

// Run processes tasks until ctx is cancelled or the queue is closed and
// drained. In-flight tasks are allowed to finish before Run returns.
func (w *Worker) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for range w.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task, ok := <-w.queue.tasks:
					if !ok {
						return
					}
					w.process(ctx, task)
				}
			}
		}()
	}
	wg.Wait()
	return nil
}

func (w *Worker) process(ctx context.Context, task Task) {
	w.mu.RLock()
	h, ok := w.handlers[task.Name]
	w.mu.RUnlock()

	log := w.log.With(logger.Task(task.Name), slog.String("task_id", task.ID.String()))
	if !ok {
		log.ErrorContext(ctx, "dropping task", logger.Error(ErrNoHandler))
		return
	}

	// Tasks outlive the request that enqueued them but not the worker.
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.taskTimeout)
	defer cancel()

	start := time.Now()
	if err := safeHandle(taskCtx, h, task); err != nil {
		log.ErrorContext(ctx, "task failed", logger.Error(err), logger.Duration(time.Since(start)))
		return
	}
	log.DebugContext(ctx, "task completed", logger.Duration(time.Since(start)))
}

func safeHandle(ctx context.Context, h Handler, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in task handler: %v\n%s", r, debug.Stack())
		}
	}()
	return h.Handle(ctx, task.Payload)
}
