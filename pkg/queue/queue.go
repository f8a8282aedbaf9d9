package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQueueFull      = errors.New("queue: buffer is full")
	ErrQueueClosed    = errors.New("queue: closed")
	ErrNilPayload     = errors.New("queue: nil payload")
	ErrInvalidPayload = errors.New("queue: invalid payload")
	ErrNoHandler      = errors.New("queue: no handler registered for task")
)

// Task is a unit of queued work.
type Task struct {
	ID         uuid.UUID
	Name       string
	Payload    json.RawMessage
	EnqueuedAt time.Time
}

// Enqueuer is the producer side of a queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload any) error
}

// Option configures a Queue.
type Option func(*Queue)

// WithCapacity sets the buffer size. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// Queue is a bounded in-memory task buffer.
type Queue struct {
	capacity int
	tasks    chan Task

	mu     sync.RWMutex
	closed bool
}

// New creates a Queue with a default capacity of 100.
func New(opts ...Option) *Queue {
	q := &Queue{capacity: 100}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan Task, q.capacity)
	return q
}

// Enqueue serializes payload and buffers it under the payload's type name.
// It never blocks: a full buffer returns ErrQueueFull.
func (q *Queue) Enqueue(ctx context.Context, payload any) error {
	if payload == nil {
		return ErrNilPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}
	task := Task{
		ID:         uuid.New(),
		Name:       nameOf(payload),
		Payload:    data,
		EnqueuedAt: time.Now(),
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len is the number of buffered tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Close stops accepting tasks. Buffered tasks remain available to workers.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
}
