package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/typst-bot/pkg/provider"
	"github.com/adrianliechti/typst-bot/pkg/router/roundrobin"
)

type routerConfig struct {
	Type string `yaml:"type"`

	Renderers []string `yaml:"renderers"`
}

type routerContext struct {
	Renderers []provider.Renderer
}

func (cfg *Config) registerRouters(f *configFile) error {
	if f.Routers.Kind == 0 {
		return nil
	}

	var configs map[string]routerConfig

	if err := f.Routers.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Routers.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		context := routerContext{}

		for _, r := range config.Renderers {
			p, err := cfg.Renderer(r)

			if err != nil {
				return err
			}

			context.Renderers = append(context.Renderers, p)
		}

		r, err := createRouter(config, context)

		if err != nil {
			return err
		}

		cfg.RegisterRenderer(id, r)
	}

	return nil
}

func createRouter(cfg routerConfig, context routerContext) (provider.Renderer, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "roundrobin":
		return roundrobin.NewRenderer(context.Renderers...)

	default:
		return nil, errors.New("invalid router type: " + cfg.Type)
	}
}
