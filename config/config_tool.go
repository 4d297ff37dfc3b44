package config

import (
	"errors"
	"maps"
	"slices"

	"github.com/adrianliechti/typst-bot/pkg/otel"
	"github.com/adrianliechti/typst-bot/pkg/tool"
	"github.com/adrianliechti/typst-bot/pkg/tool/render"
)

func (c *Config) RegisterTool(id string, p tool.Provider) {
	if c.tools == nil {
		c.tools = make(map[string]tool.Provider)
	}

	c.tools[id] = p
}

func (cfg *Config) Tools() []tool.Provider {
	keys := slices.Sorted(maps.Keys(cfg.tools))

	var tools []tool.Provider

	for _, k := range keys {
		tools = append(tools, cfg.tools[k])
	}

	return tools
}

func (cfg *Config) Tool(id string) (tool.Provider, error) {
	if cfg.tools != nil {
		if p, ok := cfg.tools[id]; ok {
			return p, nil
		}
	}

	return nil, errors.New("tool not found: " + id)
}

func (cfg *Config) registerTools(f *configFile) error {
	if cfg.handler == nil {
		return nil
	}

	t, err := render.New(cfg.handler)

	if err != nil {
		return err
	}

	cfg.RegisterTool("render", otel.NewTool("render", t))

	return nil
}
