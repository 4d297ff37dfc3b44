package render

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/adrianliechti/typst-bot/pkg/auth"
	"github.com/adrianliechti/typst-bot/pkg/bot"
	"github.com/adrianliechti/typst-bot/pkg/provider"
	"github.com/adrianliechti/typst-bot/pkg/tool"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var _ tool.Provider = (*Client)(nil)

// Client exposes the render modes as tools.
type Client struct {
	handler *bot.Handler
}

func New(handler *bot.Handler) (*Client, error) {
	if handler == nil {
		return nil, errors.New("handler is required")
	}

	return &Client{
		handler: handler,
	}, nil
}

var toolModes = map[string]bot.Mode{
	"render_typst":   bot.ModeRaw,
	"render_formula": bot.ModeFormula,
	"render_themed":  bot.ModeThemed,
}

func (c *Client) Tools(ctx context.Context) ([]tool.Tool, error) {
	source := func(description string) map[string]any {
		return map[string]any{
			"type": "object",

			"properties": map[string]any{
				"source": map[string]any{
					"type":        "string",
					"description": description,
				},

				"files": map[string]any{
					"type":        "array",
					"description": "Files the source can reference by name, e.g. #image(\"logo.png\").",

					"items": map[string]any{
						"type": "object",

						"properties": map[string]any{
							"name": map[string]any{
								"type": "string",
							},

							"data": map[string]any{
								"type":        "string",
								"description": "Base64 encoded file content.",
							},
						},

						"required": []string{"name", "data"},
					},
				},
			},

			"required": []string{"source"},
		}
	}

	tools := []tool.Tool{
		{
			Name:        "render_typst",
			Description: "Compile Typst markup and return the first page as a PNG image.",

			Parameters: source("Typst markup to compile as is."),
		},
		{
			Name:        "render_formula",
			Description: "Render a Typst math formula, centered on a tight page, as a PNG image.",

			Parameters: source("Typst math, e.g. $ x^2 + y^2 = z^2 $."),
		},
		{
			Name:        "render_themed",
			Description: "Render Typst content with the bot theme applied as a PNG image.",

			Parameters: source("Typst markup placed below the theme preamble."),
		},
	}

	commands := c.handler.Commands()

	var result []tool.Tool

	for _, t := range tools {
		if commands.Enabled(toolModes[t.Name]) {
			result = append(result, t)
		}
	}

	return result, nil
}

func (c *Client) Execute(ctx context.Context, name string, parameters map[string]any) (any, error) {
	mode, ok := toolModes[name]

	if !ok || !c.handler.Commands().Enabled(mode) {
		return nil, tool.ErrInvalidTool
	}

	source, _ := parameters["source"].(string)

	req := bot.Request{
		Mode: mode,
		Text: source,
	}

	if user, ok := auth.UserFromContext(ctx); ok {
		req.Session = user
	}

	if files, ok := tool.FilesFromContext(ctx); ok {
		req.Files = files
	}

	image, err := c.handler.Render(ctx, req)

	if errors.Is(err, bot.ErrEmptyPayload) || provider.IsCompileError(err) {
		return &mcp.CallToolResult{
			IsError: true,

			Content: []mcp.Content{
				&mcp.TextContent{
					Text: err.Error(),
				},
			},
		}, nil
	}

	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(image.Data)

	if err != nil {
		return nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.ImageContent{
				Data:     data,
				MIMEType: image.ContentType,
			},
		},
	}, nil
}
