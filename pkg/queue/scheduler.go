package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bloodlink/bloodlink/pkg/logger"
)

type scheduledTask struct {
	handler Handler
	every   time.Duration
}

// Scheduler runs periodic handlers at fixed intervals.
type Scheduler struct {
	log   *slog.Logger
	tasks []scheduledTask
}

// NewScheduler creates an empty scheduler.
func NewScheduler(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{log: log}
}

// AddTask registers h to run every interval, first after one interval elapses.
func (s *Scheduler) AddTask(h Handler, every time.Duration) error {
	if h == nil {
		return fmt.Errorf("queue: nil periodic handler")
	}
	if every <= 0 {
		return fmt.Errorf("queue: invalid interval %v for %s", every, h.Name())
	}
	s.tasks = append(s.tasks, scheduledTask{handler: h, every: every})
	return nil
}

// Run blocks until ctx is cancelled. A tick that fires while the previous run
// of the same task is still going is skipped.
func (s *Scheduler) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, t := range s.tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(t.every)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					s.runOnce(ctx, t)
				}
			}
		}()
	}
	wg.Wait()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context, t scheduledTask) {
	runCtx, cancel := context.WithTimeout(ctx, t.every)
	defer cancel()

	start := time.Now()
	if err := safeHandle(runCtx, t.handler, Task{Name: t.handler.Name()}); err != nil {
		s.log.ErrorContext(ctx, "periodic task failed",
			logger.Task(t.handler.Name()),
			logger.Error(err),
		)
		return
	}
	s.log.DebugContext(ctx, "periodic task completed",
		logger.Task(t.handler.Name()),
		logger.Duration(time.Since(start)),
	)
}
