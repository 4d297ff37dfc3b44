package limiter

import (
	"context"

	"github.com/adrianliechti/typst-bot/pkg/provider"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

type Renderer interface {
	Limiter
	provider.Renderer
}

type limitedRenderer struct {
	limiter *rate.Limiter
	workers *semaphore.Weighted

	provider provider.Renderer
}

// NewRenderer wraps p so that renders wait for the rate limiter and run on at
// most as many goroutines as the semaphore admits. Either may be nil.
func NewRenderer(l *rate.Limiter, workers *semaphore.Weighted, p provider.Renderer) Renderer {
	return &limitedRenderer{
		limiter: l,
		workers: workers,

		provider: p,
	}
}

func (p *limitedRenderer) limiterSetup() {
}

func (p *limitedRenderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if p.workers != nil {
		if err := p.workers.Acquire(ctx, 1); err != nil {
			return nil, err
		}

		defer p.workers.Release(1)
	}

	return p.provider.Render(ctx, input, options)
}
