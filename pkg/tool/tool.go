package tool

import (
	"context"
	"errors"

	"github.com/adrianliechti/typst-bot/pkg/provider"
)

var (
	ErrInvalidTool = errors.New("invalid tool")
)

type Tool struct {
	Name        string
	Description string

	Parameters map[string]any
}

type Provider interface {
	Tools(ctx context.Context) ([]Tool, error)
	Execute(ctx context.Context, name string, parameters map[string]any) (any, error)
}

type contextKey string

const filesContextKey contextKey = "tool.files"

func WithFiles(ctx context.Context, files []provider.File) context.Context {
	return context.WithValue(ctx, filesContextKey, files)
}

func FilesFromContext(ctx context.Context) ([]provider.File, bool) {
	files, ok := ctx.Value(filesContextKey).([]provider.File)
	return files, ok
}
