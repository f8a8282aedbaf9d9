package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/queue"
)

type greetTask struct {
	Name string `json:"name"`
}

type otherTask struct{}

func TestTaskName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "queue_test.greetTask", queue.TaskName[greetTask]())
	assert.Equal(t, "queue_test.greetTask", queue.TaskName[*greetTask]())
	assert.Equal(t, queue.TaskName[greetTask](), queue.NewTaskHandler(func(context.Context, greetTask) error { return nil }).Name())
}

func TestEnqueue(t *testing.T) {
	t.Parallel()

	q := queue.New(queue.WithCapacity(1))
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, greetTask{Name: "a"}))
	assert.ErrorIs(t, q.Enqueue(ctx, greetTask{Name: "b"}), queue.ErrQueueFull)
	assert.ErrorIs(t, q.Enqueue(ctx, nil), queue.ErrNilPayload)
	assert.Equal(t, 1, q.Len())

	q.Close()
	assert.ErrorIs(t, q.Enqueue(ctx, greetTask{}), queue.ErrQueueClosed)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, queue.New().Enqueue(cancelled, greetTask{}), context.Canceled)
}

func TestWorkerDispatchesByType(t *testing.T) {
	t.Parallel()

	q := queue.New()
	w := queue.NewWorker(q, queue.WithConcurrency(2), queue.WithLogger(logger.Nop()))

	var mu sync.Mutex
	var got []string
	w.RegisterHandlers(queue.NewTaskHandler(func(_ context.Context, task greetTask) error {
		mu.Lock()
		got = append(got, task.Name)
		mu.Unlock()
		return nil
	}))

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, greetTask{Name: "a"}))
	require.NoError(t, q.Enqueue(ctx, &greetTask{Name: "b"}))
	require.NoError(t, q.Enqueue(ctx, otherTask{}))
	q.Close()

	require.NoError(t, w.Run(ctx))
	assert.ElementsMatch(t, []string{"a", "b"}, got)
}

func TestWorkerSurvivesFailuresAndPanics(t *testing.T) {
	t.Parallel()

	q := queue.New()
	w := queue.NewWorker(q, queue.WithLogger(logger.Nop()), queue.WithTaskTimeout(time.Second))

	var calls atomic.Int32
	w.RegisterHandlers(queue.NewTaskHandler(func(_ context.Context, task greetTask) error {
		calls.Add(1)
		switch task.Name {
		case "panic":
			panic("boom")
		case "fail":
			return errors.New("failed")
		}
		return nil
	}))

	ctx := context.Background()
	for _, name := range []string{"panic", "fail", "ok"} {
		require.NoError(t, q.Enqueue(ctx, greetTask{Name: name}))
	}
	q.Close()

	require.NoError(t, w.Run(ctx))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	w := queue.NewWorker(queue.New(), queue.WithLogger(logger.Nop()))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestScheduler(t *testing.T) {
	t.Parallel()

	s := queue.NewScheduler(logger.Nop())
	assert.Error(t, s.AddTask(nil, time.Second))
	assert.Error(t, s.AddTask(queue.NewPeriodicTaskHandler("x", func(context.Context) error { return nil }), 0))

	var runs atomic.Int32
	require.NoError(t, s.AddTask(queue.NewPeriodicTaskHandler("cleanup", func(context.Context) error {
		runs.Add(1)
		return nil
	}), 10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
