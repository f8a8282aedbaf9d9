package templates_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink/pkg/email/templates"
)

func TestRender(t *testing.T) {
	t.Parallel()

	out, err := templates.Render(context.Background(), templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<b>hi</b>")
		return err
	}))
	require.NoError(t, err)
	assert.Equal(t, "<b>hi</b>", out)

	_, err = templates.Render(context.Background(), templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("boom")
	}))
	assert.Error(t, err)
}
