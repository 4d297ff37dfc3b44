package roundrobin

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/adrianliechti/typst-bot/pkg/provider"
	"github.com/adrianliechti/typst-bot/pkg/router"
)

// Renderer spreads renders randomly across healthy renderers. A renderer whose
// circuit is open is skipped until its recovery timeout has passed.
type Renderer struct {
	renderers []provider.Renderer
	stats     []*router.ProviderStats

	failureThreshold int
	recoveryTimeout  time.Duration
}

func NewRenderer(renderers ...provider.Renderer) (*Renderer, error) {
	if len(renderers) == 0 {
		return nil, errors.New("at least one renderer is required")
	}

	stats := make([]*router.ProviderStats, len(renderers))
	for i := range stats {
		stats[i] = router.NewProviderStats()
	}

	return &Renderer{
		renderers:        renderers,
		stats:            stats,
		failureThreshold: router.DefaultFailureThreshold,
		recoveryTimeout:  router.DefaultRecoveryTimeout,
	}, nil
}

func (r *Renderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	index := r.selectProvider()
	stats := r.stats[index]

	stats.AddInflight(1)
	defer stats.AddInflight(-1)

	timestamp := time.Now()

	result, err := r.renderers[index].Render(ctx, input, options)

	// rejected markup says nothing about the health of the renderer
	if err == nil || provider.IsCompileError(err) {
		stats.RecordSuccess(time.Since(timestamp), router.DefaultLatencyAlpha)
	} else if ctx.Err() == nil {
		stats.RecordFailure(r.failureThreshold)
	}

	return result, err
}

func (r *Renderer) selectProvider() int {
	candidates := make([]int, 0, len(r.renderers))

	for i, stat := range r.stats {
		if stat.IsAvailable(r.recoveryTimeout) {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		return r.fallbackProvider()
	}

	return candidates[rand.Intn(len(candidates))]
}

// fallbackProvider probes the least recently failed renderer when all circuits are open
func (r *Renderer) fallbackProvider() int {
	bestIndex := 0

	var oldestFailure time.Time

	for i, stat := range r.stats {
		lastFailure := stat.GetLastFailure()

		if i == 0 || lastFailure.Before(oldestFailure) {
			oldestFailure = lastFailure
			bestIndex = i
		}
	}

	r.stats[bestIndex].SetHalfOpen()

	return bestIndex
}
