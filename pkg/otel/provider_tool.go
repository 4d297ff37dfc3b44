package otel

import (
	"context"

	"github.com/adrianliechti/typst-bot/pkg/tool"

	"go.opentelemetry.io/otel"
)

type Tool interface {
	Observable
	tool.Provider
}

type observableTool struct {
	provider string

	tool tool.Provider
}

func NewTool(provider string, p tool.Provider) Tool {
	return &observableTool{
		tool: p,

		provider: provider,
	}
}

func (p *observableTool) otelSetup() {
}

func (p *observableTool) Tools(ctx context.Context) ([]tool.Tool, error) {
	return p.tool.Tools(ctx)
}

func (p *observableTool) Execute(ctx context.Context, name string, parameters map[string]any) (any, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "execute_tool "+name)
	defer span.End()

	span.SetAttributes(String("tool.provider", p.provider))

	result, err := p.tool.Execute(ctx, name, parameters)

	if err != nil {
		span.RecordError(err)
	}

	return result, err
}
