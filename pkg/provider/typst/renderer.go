package typst

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/adrianliechti/typst-bot/pkg/provider"

	"github.com/google/uuid"
)

var _ provider.Renderer = (*Renderer)(nil)

// Renderer compiles Typst source to PNG using the typst command line compiler.
type Renderer struct {
	*Config
}

func NewRenderer(options ...Option) (*Renderer, error) {
	cfg := &Config{}

	for _, option := range options {
		option(cfg)
	}

	cfg.ensureDefaults()

	return &Renderer{
		Config: cfg,
	}, nil
}

func (r *Renderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if options == nil {
		options = new(provider.RenderOptions)
	}

	ws, err := newWorkspace(r.root)

	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	defer func() {
		if err := ws.Close(); err != nil {
			slog.WarnContext(ctx, "failed to remove typst workspace", "path", ws.dir, "error", err)
		}
	}()

	for _, f := range options.Files {
		if _, err := ws.WriteFile(f.Name, f.Content); err != nil {
			return nil, fmt.Errorf("write file %q: %w", f.Name, err)
		}
	}

	source, err := ws.WriteSource(input)

	if err != nil {
		return nil, fmt.Errorf("write source: %w", err)
	}

	if err := r.compile(ctx, ws, source); err != nil {
		return nil, err
	}

	pages, err := ws.Pages()

	if err != nil {
		return nil, err
	}

	if len(pages) == 0 {
		return nil, &provider.CompileError{Detail: "document has no pages"}
	}

	data, err := os.ReadFile(pages[0])

	if err != nil {
		return nil, err
	}

	return &provider.Rendering{
		ID:    uuid.NewString(),
		Model: "typst",

		Pages: len(pages),

		Content:     data,
		ContentType: "image/png",
	}, nil
}

func (r *Renderer) compile(ctx context.Context, ws *workspace, source string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := []string{
		"compile",
		"--root", ws.dir,
		"--format", "png",
		"--ppi", strconv.Itoa(r.ppi),
		"--diagnostic-format", "short",
	}

	for _, p := range r.fontPaths {
		args = append(args, "--font-path", p)
	}

	args = append(args, source, ws.PagePath())

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = ws.dir
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("typst compile: %w", ctx.Err())
		}

		var exitErr *exec.ExitError

		if errors.As(err, &exitErr) {
			return &provider.CompileError{
				Detail: stderr.String(),
			}
		}

		return fmt.Errorf("typst compile: %w", err)
	}

	return nil
}
