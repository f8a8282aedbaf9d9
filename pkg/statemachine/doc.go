// Package statemachine validates transitions between named states.
//
// A Machine is an immutable transition table shared by every entity of a kind.
// The entity's current state lives with the entity (typically a database
// column); Fire computes the next state and runs transition actions:
//
//	m, err := statemachine.NewBuilder[Status, Event]().
//		From(Active).On(Cancel).To(Cancelled).Add().
//		From(Active).On(Fulfil).To(Fulfilled).WithGuard(allUnitsReceived).Add().
//		Build()
//
//	next, err := m.Fire(ctx, req.Status, Cancel, req)
package statemachine
