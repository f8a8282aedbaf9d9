package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink/pkg/statemachine"
)

type state string
type event string

const (
	draft     state = "draft"
	published state = "published"
	archived  state = "archived"

	publish event = "publish"
	archive event = "archive"
)

func TestMachine(t *testing.T) {
	t.Parallel()

	var actionCalls int
	m, err := statemachine.NewBuilder[state, event]().
		From(draft).On(publish).To(published).
		WithGuard(func(_ context.Context, _ state, _ event, data any) bool { return data == "ok" }).
		WithAction(func(context.Context, state, state, event, any) error { actionCalls++; return nil }).
		Add().
		From(draft).On(archive).To(archived).Add().
		From(published).On(archive).To(archived).Add().
		Build()
	require.NoError(t, err)

	ctx := context.Background()

	next, err := m.Fire(ctx, draft, publish, "ok")
	require.NoError(t, err)
	assert.Equal(t, published, next)
	assert.Equal(t, 1, actionCalls)

	next, err = m.Fire(ctx, draft, publish, "nope")
	assert.True(t, statemachine.IsRejected(err))
	assert.Equal(t, draft, next)

	_, err = m.Fire(ctx, archived, publish, nil)
	assert.True(t, statemachine.IsNoTransition(err))
	assert.Contains(t, err.Error(), `"archived"`)

	assert.True(t, m.CanFire(ctx, published, archive, nil))
	assert.False(t, m.CanFire(ctx, published, publish, nil))
	assert.True(t, m.IsFinal(archived))
	assert.ElementsMatch(t, []event{publish, archive}, m.Events(draft))
}

func TestActionErrorAbortsTransition(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	m := statemachine.NewBuilder[state, event]().
		From(draft).On(publish).To(published).
		WithAction(func(context.Context, state, state, event, any) error { return boom }).
		Add().
		MustBuild()

	next, err := m.Fire(context.Background(), draft, publish, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, draft, next)
}

func TestBuilderRejectsIncompleteTransition(t *testing.T) {
	t.Parallel()

	_, err := statemachine.NewBuilder[state, event]().From(draft).To(published).Add().Build()
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)

	assert.Panics(t, func() {
		statemachine.NewBuilder[state, event]().On(publish).Add().MustBuild()
	})
}
