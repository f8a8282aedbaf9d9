package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Handler processes tasks of a single name.
type Handler interface {
	Name() string
	Handle(ctx context.Context, payload json.RawMessage) error
}

// TaskHandlerFunc handles a decoded payload of type T.
type TaskHandlerFunc[T any] func(ctx context.Context, payload T) error

// PeriodicTaskHandlerFunc handles a scheduler tick.
type PeriodicTaskHandlerFunc func(ctx context.Context) error

// NewTaskHandler binds fn to the task name derived from T.
func NewTaskHandler[T any](fn TaskHandlerFunc[T]) Handler {
	return &typedHandler[T]{name: TaskName[T](), fn: fn}
}

// NewPeriodicTaskHandler names a payload-less handler for the Scheduler.
func NewPeriodicTaskHandler(name string, fn PeriodicTaskHandlerFunc) Handler {
	return &periodicHandler{name: name, fn: fn}
}

// TaskName returns the task name used for payloads of type T.
func TaskName[T any]() string {
	var zero T
	return nameOf(zero)
}

func nameOf(v any) string {
	return strings.TrimLeft(fmt.Sprintf("%T", v), "*")
}

type typedHandler[T any] struct {
	name string
	fn   TaskHandlerFunc[T]
}

func (h *typedHandler[T]) Name() string { return h.name }

func (h *typedHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return h.fn(ctx, v)
}

type periodicHandler struct {
	name string
	fn   PeriodicTaskHandlerFunc
}

func (h *periodicHandler) Name() string { return h.name }

func (h *periodicHandler) Handle(ctx context.Context, _ json.RawMessage) error {
	return h.fn(ctx)
}
