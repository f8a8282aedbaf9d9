package statemachine

import (
	"context"
	"fmt"
)

// Guard decides whether a transition may proceed.
type Guard[S, E ~string] func(ctx context.Context, from S, event E, data any) bool

// Action runs before the state changes. An error aborts the transition.
type Action[S, E ~string] func(ctx context.Context, from, to S, event E, data any) error

type Transition[S, E ~string] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]
	Actions []Action[S, E]
}

// Machine is a transition table. It is safe for concurrent use once built.
type Machine[S, E ~string] struct {
	table map[S]map[E][]Transition[S, E]
}

func newMachine[S, E ~string]() *Machine[S, E] {
	return &Machine[S, E]{table: make(map[S]map[E][]Transition[S, E])}
}

func (m *Machine[S, E]) add(t Transition[S, E]) error {
	if t.From == "" || t.To == "" || t.Event == "" {
		return ErrInvalidTransition
	}
	if m.table[t.From] == nil {
		m.table[t.From] = make(map[E][]Transition[S, E])
	}
	m.table[t.From][t.Event] = append(m.table[t.From][t.Event], t)
	return nil
}

// Fire returns the state reached from current on event. Candidate transitions
// are tried in registration order; the first whose guards all pass wins.
func (m *Machine[S, E]) Fire(ctx context.Context, current S, event E, data any) (S, error) {
	t, err := m.find(ctx, current, event, data)
	if err != nil {
		return current, err
	}
	for _, action := range t.Actions {
		if err := action(ctx, current, t.To, event, data); err != nil {
			return current, fmt.Errorf("statemachine action: %w", err)
		}
	}
	return t.To, nil
}

// CanFire reports whether Fire would find a transition. Actions are not run.
func (m *Machine[S, E]) CanFire(ctx context.Context, current S, event E, data any) bool {
	_, err := m.find(ctx, current, event, data)
	return err == nil
}

// Events lists the events registered for state.
func (m *Machine[S, E]) Events(state S) []E {
	events := make([]E, 0, len(m.table[state]))
	for e := range m.table[state] {
		events = append(events, e)
	}
	return events
}

// IsFinal reports whether no transition leaves state.
func (m *Machine[S, E]) IsFinal(state S) bool {
	return len(m.table[state]) == 0
}

func (m *Machine[S, E]) find(ctx context.Context, current S, event E, data any) (*Transition[S, E], error) {
	candidates := m.table[current][event]
	if len(candidates) == 0 {
		return nil, &NoTransitionError{State: string(current), Event: string(event)}
	}
	for i := range candidates {
		if guardsPass(ctx, candidates[i].Guards, current, event, data) {
			return &candidates[i], nil
		}
	}
	return nil, &RejectedError{State: string(current), Event: string(event)}
}

func guardsPass[S, E ~string](ctx context.Context, guards []Guard[S, E], from S, event E, data any) bool {
	for _, g := range guards {
		if g != nil && !g(ctx, from, event, data) {
			return false
		}
	}
	return true
}
