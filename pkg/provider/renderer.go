package provider

import (
	"context"
)

type Renderer interface {
	Render(ctx context.Context, input string, options *RenderOptions) (*Rendering, error)
}

type RenderOptions struct {
	// Files are placed next to the source so it can reference them, e.g. #image("logo.png").
	Files []File
}

type Rendering struct {
	ID    string
	Model string

	Pages int

	Content     []byte
	ContentType string
}
