package statemachine

// Builder assembles a Machine fluently. The first error is kept and returned
// by Build.
type Builder[S, E ~string] struct {
	machine *Machine[S, E]
	pending Transition[S, E]
	err     error
}

func NewBuilder[S, E ~string]() *Builder[S, E] {
	return &Builder[S, E]{machine: newMachine[S, E]()}
}

func (b *Builder[S, E]) From(state S) *Builder[S, E] {
	b.pending = Transition[S, E]{From: state}
	return b
}

func (b *Builder[S, E]) On(event E) *Builder[S, E] {
	b.pending.Event = event
	return b
}

func (b *Builder[S, E]) To(state S) *Builder[S, E] {
	b.pending.To = state
	return b
}

func (b *Builder[S, E]) WithGuard(g Guard[S, E]) *Builder[S, E] {
	b.pending.Guards = append(b.pending.Guards, g)
	return b
}

func (b *Builder[S, E]) WithAction(a Action[S, E]) *Builder[S, E] {
	b.pending.Actions = append(b.pending.Actions, a)
	return b
}

// Add commits the pending transition.
func (b *Builder[S, E]) Add() *Builder[S, E] {
	if b.err == nil {
		b.err = b.machine.add(b.pending)
	}
	b.pending = Transition[S, E]{}
	return b
}

func (b *Builder[S, E]) Build() (*Machine[S, E], error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.machine, nil
}

// MustBuild panics on a malformed table. Meant for package-level tables.
func (b *Builder[S, E]) MustBuild() *Machine[S, E] {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
