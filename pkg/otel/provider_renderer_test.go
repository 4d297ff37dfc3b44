package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/adrianliechti/typst-bot/pkg/provider"

	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	err error
}

func (r *stubRenderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if r.err != nil {
		return nil, r.err
	}

	return &provider.Rendering{Pages: 1, Content: []byte(input)}, nil
}

func TestObservableRendererPassesThrough(t *testing.T) {
	r := NewRenderer("typst", "typst", &stubRenderer{})

	result, err := r.Render(context.Background(), "hello", nil)
	require.NoError(t, err)
	require.Equal(t, "hello", string(result.Content))

	compileErr := &provider.CompileError{Detail: "bad"}
	r = NewRenderer("typst", "typst", &stubRenderer{err: compileErr})

	_, err = r.Render(context.Background(), "#(", nil)
	require.ErrorIs(t, err, compileErr)

	failure := errors.New("boom")
	r = NewRenderer("typst", "typst", &stubRenderer{err: failure})

	_, err = r.Render(context.Background(), "x", nil)
	require.ErrorIs(t, err, failure)
}
