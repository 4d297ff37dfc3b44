package bot

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adrianliechti/typst-bot/pkg/provider"
)

var (
	ErrEmptyPayload = errors.New("empty payload")
)

type Request struct {
	Mode Mode

	// Keyword is stripped from Text. Leave empty when Text is the bare source.
	Keyword string
	Text    string

	Session string

	Files []provider.File
}

type Image struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type"`

	Pages int `json:"pages,omitempty"`
}

// Reply is what gets sent back to the chat: either an image or a text.
type Reply struct {
	Text  string `json:"text,omitempty"`
	Image *Image `json:"image,omitempty"`
}

type Handler struct {
	renderer provider.Renderer

	style    Style
	commands Commands
}

type Option func(*Handler)

func WithStyle(style Style) Option {
	return func(h *Handler) {
		if style.FontSize != "" {
			h.style.FontSize = style.FontSize
		}

		if style.Height != "" {
			h.style.Height = style.Height
		}
	}
}

func WithCommands(commands Commands) Option {
	return func(h *Handler) {
		h.commands = commands
	}
}

func New(renderer provider.Renderer, options ...Option) (*Handler, error) {
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}

	h := &Handler{
		renderer: renderer,

		style:    DefaultStyle(),
		commands: DefaultCommands(),
	}

	for _, option := range options {
		option(h)
	}

	if err := h.commands.Validate(); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *Handler) Style() Style {
	return h.style
}

func (h *Handler) Commands() Commands {
	return h.commands
}

// Parse turns a chat message into a render request.
func (h *Handler) Parse(session, text string) (Request, error) {
	cmd, ok := h.commands.Match(text)

	if !ok {
		return Request{}, ErrUnknownCommand
	}

	return Request{
		Mode:    cmd.Mode,
		Keyword: cmd.Keyword,
		Text:    text,
		Session: session,
	}, nil
}

// Source returns the Typst source compiled for req.
func (h *Handler) Source(req Request) (string, error) {
	payload := strings.TrimSpace(req.Text)

	if req.Keyword != "" {
		payload = h.commands.Payload(req.Keyword, req.Text)
	}

	if payload == "" {
		return "", ErrEmptyPayload
	}

	return Compose(req.Mode, h.style, payload), nil
}

// Render compiles req and returns the first page as base64 PNG.
func (h *Handler) Render(ctx context.Context, req Request) (*Image, error) {
	source, err := h.Source(req)

	if err != nil {
		return nil, err
	}

	options := &provider.RenderOptions{
		Files: req.Files,
	}

	rendering, err := h.renderer.Render(ctx, source, options)

	if err != nil {
		return nil, fmt.Errorf("render %s: %w", req.Mode, err)
	}

	contentType := rendering.ContentType

	if contentType == "" {
		contentType = "image/png"
	}

	slog.InfoContext(ctx, "typst rendered", "session", req.Session, "mode", req.Mode, "pages", rendering.Pages, "bytes", len(rendering.Content))

	return &Image{
		Data:        base64.StdEncoding.EncodeToString(rendering.Content),
		ContentType: contentType,

		Pages: rendering.Pages,
	}, nil
}

// Handle renders req and maps failures to user-facing texts. It never fails.
func (h *Handler) Handle(ctx context.Context, req Request) *Reply {
	image, err := h.Render(ctx, req)

	if err == nil {
		return &Reply{
			Image: image,
		}
	}

	if errors.Is(err, ErrEmptyPayload) {
		return &Reply{
			Text: h.emptyPayloadText(req.Mode),
		}
	}

	if provider.IsCompileError(err) {
		slog.WarnContext(ctx, "typst compile failed", "session", req.Session, "mode", req.Mode, "error", err)

		return &Reply{
			Text: "Failed to render the Typst code, please check the syntax.",
		}
	}

	slog.ErrorContext(ctx, "typst render failed", "session", req.Session, "mode", req.Mode, "error", err)

	return &Reply{
		Text: "Rendering is currently unavailable, please try again later.",
	}
}

func (h *Handler) emptyPayloadText(mode Mode) string {
	keyword := h.commands.Prefix + h.commands.Keyword(mode)

	switch mode {
	case ModeFormula:
		return "Please provide a formula to render, e.g. " + keyword + " $ x^2 + y^2 = z^2 $"

	case ModeThemed:
		return "Please provide Typst content to render with the theme, e.g. " + keyword + " = Hello"

	default:
		return "Please provide Typst code to render, e.g. " + keyword + " *Hello*"
	}
}
