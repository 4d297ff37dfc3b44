package config

import (
	"errors"

	"github.com/adrianliechti/typst-bot/pkg/mcp"
)

func (cfg *Config) MCP() (*mcp.Server, error) {
	if cfg.mcp == nil {
		return nil, errors.New("mcp not configured")
	}

	return cfg.mcp, nil
}

type mcpConfig struct {
	Name string `yaml:"name"`

	Tools []string `yaml:"tools"`

	Instructions string `yaml:"instructions"`
}

func (cfg *Config) registerMCP(f *configFile) error {
	if f.MCP == nil {
		return nil
	}

	tools := cfg.Tools()

	if len(f.MCP.Tools) > 0 {
		tools = nil

		for _, id := range f.MCP.Tools {
			t, err := cfg.Tool(id)

			if err != nil {
				return err
			}

			tools = append(tools, t)
		}
	}

	s, err := mcp.New(f.MCP.Name, f.MCP.Instructions, tools)

	if err != nil {
		return err
	}

	cfg.mcp = s

	return nil
}
