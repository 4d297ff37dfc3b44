package limiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adrianliechti/typst-bot/pkg/provider"

	"github.com/stretchr/testify/require"
)

type slowRenderer struct {
	delay time.Duration

	active atomic.Int64
	peak   atomic.Int64
}

func (r *slowRenderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	n := r.active.Add(1)
	defer r.active.Add(-1)

	for {
		peak := r.peak.Load()

		if n <= peak || r.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	time.Sleep(r.delay)

	return &provider.Rendering{Content: []byte(input)}, nil
}

func TestRendererConcurrency(t *testing.T) {
	p := &slowRenderer{delay: 20 * time.Millisecond}
	r := NewRenderer(nil, NewConcurrency(2), p)

	var wg sync.WaitGroup
	errs := make([]error, 8)

	for i := range errs {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, errs[i] = r.Render(context.Background(), "x", nil)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	require.LessOrEqual(t, p.peak.Load(), int64(2))
}

func TestRendererCanceled(t *testing.T) {
	p := &slowRenderer{delay: 200 * time.Millisecond}
	r := NewRenderer(nil, NewConcurrency(1), p)

	go r.Render(context.Background(), "busy", nil)
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Render(ctx, "waiting", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRendererUnlimited(t *testing.T) {
	require.Nil(t, NewRate(0))
	require.Nil(t, NewConcurrency(0))

	r := NewRenderer(NewRate(0), NewConcurrency(0), &slowRenderer{})

	result, err := r.Render(context.Background(), "hello", nil)
	require.NoError(t, err)
	require.Equal(t, "hello", string(result.Content))
}
