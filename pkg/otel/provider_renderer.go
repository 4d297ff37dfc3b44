package otel

import (
	"context"
	"time"

	"github.com/adrianliechti/typst-bot/pkg/provider"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type Renderer interface {
	Observable
	provider.Renderer
}

type observableRenderer struct {
	model    string
	provider string

	renderer provider.Renderer

	durationMetric metric.Float64Histogram
	requestMetric  metric.Int64Counter
}

func NewRenderer(provider, model string, p provider.Renderer) Renderer {
	meter := otel.Meter(instrumentationName)

	durationMetric, _ := meter.Float64Histogram("typst.render.duration",
		metric.WithDescription("Duration of Typst compilations"),
		metric.WithUnit("s"),
	)

	requestMetric, _ := meter.Int64Counter("typst.render.requests",
		metric.WithDescription("Number of Typst compilations by outcome"),
	)

	return &observableRenderer{
		renderer: p,

		model:    model,
		provider: provider,

		durationMetric: durationMetric,
		requestMetric:  requestMetric,
	}
}

func (p *observableRenderer) otelSetup() {
}

func (p *observableRenderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "render "+p.model)
	defer span.End()

	timestamp := time.Now()

	result, err := p.renderer.Render(ctx, input, options)

	outcome := "success"

	switch {
	case err == nil:
		span.SetAttributes(Int("typst.pages", result.Pages), Int("typst.bytes", len(result.Content)))

	case provider.IsCompileError(err):
		outcome = "compile_error"
		span.RecordError(err)

	default:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	attrs := metric.WithAttributes(KeyValues([]KeyValue{
		String("typst.provider", p.provider),
		String("typst.model", p.model),
		String("typst.outcome", outcome),
	}, EndUserAttrs(ctx))...)

	p.durationMetric.Record(ctx, time.Since(timestamp).Seconds(), attrs)
	p.requestMetric.Add(ctx, 1, attrs)

	return result, err
}
