package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adrianliechti/typst-bot/pkg/provider"
	"github.com/adrianliechti/typst-bot/pkg/tool"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	impl *mcp.Implementation
	opts *mcp.ServerOptions

	tools []tool.Provider
}

func New(name, instructions string, tools []tool.Provider) (*Server, error) {
	if name == "" {
		name = "typst-bot"
	}

	s := &Server{
		impl: &mcp.Implementation{
			Name: name,
		},

		opts: &mcp.ServerOptions{
			Instructions: instructions,
			KeepAlive:    time.Second * 30,
		},

		tools: tools,
	}

	return s, nil
}

// Handler serves the tools over the streamable HTTP transport.
func (s *Server) Handler(ctx context.Context) (http.Handler, error) {
	server, err := s.Server(ctx)

	if err != nil {
		return nil, err
	}

	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	}), nil
}

func (s *Server) Server(ctx context.Context) (*mcp.Server, error) {
	server := mcp.NewServer(s.impl, s.opts)

	for _, p := range s.tools {
		tools, err := p.Tools(ctx)

		if err != nil {
			return nil, err
		}

		for _, t := range tools {
			data, _ := json.Marshal(t.Parameters)

			schema := new(jsonschema.Schema)

			if err := schema.UnmarshalJSON(data); err != nil {
				return nil, err
			}

			server.AddTool(&mcp.Tool{
				Name:        t.Name,
				Description: t.Description,

				InputSchema: schema,
			}, toolHandler(p, t.Name))
		}
	}

	return server, nil
}

func toolHandler(p tool.Provider, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any

		if data, err := json.Marshal(req.Params.Arguments); err == nil {
			json.Unmarshal(data, &args)
		}

		files, err := filesArgument(args)

		if err != nil {
			return &mcp.CallToolResult{
				IsError: true,

				Content: []mcp.Content{
					&mcp.TextContent{
						Text: err.Error(),
					},
				},
			}, nil
		}

		if len(files) > 0 {
			ctx = tool.WithFiles(ctx, files)
		}

		result, err := p.Execute(ctx, name, args)

		if err != nil {
			return nil, err
		}

		switch v := result.(type) {
		case *mcp.CallToolResult:
			return v, nil

		case string:
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{
						Text: v,
					},
				},
			}, nil

		default:
			data, _ := json.Marshal(v)

			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{
						Text: string(data),
					},
				},
			}, nil
		}
	}
}

type fileArgument struct {
	Name string `json:"name"`
	Data string `json:"data"`

	ContentType string `json:"content_type,omitempty"`
}

// filesArgument removes the "files" argument (name and base64 data pairs)
// from args and decodes it.
func filesArgument(args map[string]any) ([]provider.File, error) {
	val, ok := args["files"]

	if !ok {
		return nil, nil
	}

	delete(args, "files")

	data, err := json.Marshal(val)

	if err != nil {
		return nil, err
	}

	var items []fileArgument

	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("invalid files argument: %w", err)
	}

	var files []provider.File

	for _, item := range items {
		content, err := base64.StdEncoding.DecodeString(item.Data)

		if err != nil {
			return nil, fmt.Errorf("invalid data for file %q: %w", item.Name, err)
		}

		files = append(files, provider.File{
			Name: item.Name,

			Content:     content,
			ContentType: item.ContentType,
		})
	}

	return files, nil
}
