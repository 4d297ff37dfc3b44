package config

import (
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/adrianliechti/typst-bot/pkg/limiter"
	"github.com/adrianliechti/typst-bot/pkg/otel"
	"github.com/adrianliechti/typst-bot/pkg/provider"
	"github.com/adrianliechti/typst-bot/pkg/provider/typst"
)

func (cfg *Config) RegisterRenderer(id string, p provider.Renderer) {
	if cfg.renderer == nil {
		cfg.renderer = make(map[string]provider.Renderer)
	}

	cfg.renderer[id] = p
}

// Renderer returns the renderer registered as id. An empty id matches the
// only renderer when exactly one is configured.
func (cfg *Config) Renderer(id string) (provider.Renderer, error) {
	if id == "" && len(cfg.renderer) == 1 {
		for _, p := range cfg.renderer {
			return p, nil
		}
	}

	if cfg.renderer != nil {
		if p, ok := cfg.renderer[id]; ok {
			return p, nil
		}
	}

	return nil, errors.New("renderer not found: " + id)
}

type rendererConfig struct {
	Type string `yaml:"type"`

	Binary string `yaml:"binary"`
	Root   string `yaml:"root"`

	PPI       int      `yaml:"ppi"`
	FontPaths []string `yaml:"font_paths"`

	Timeout string `yaml:"timeout"`

	Limit       int `yaml:"limit"`
	Concurrency int `yaml:"concurrency"`
}

func (cfg *Config) registerRenderers(f *configFile) error {
	if f.Renderers.Kind == 0 {
		return cfg.registerRenderer("typst", rendererConfig{
			Concurrency: runtime.NumCPU(),
		})
	}

	var configs map[string]rendererConfig

	if err := f.Renderers.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Renderers.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		if err := cfg.registerRenderer(id, config); err != nil {
			return err
		}
	}

	return nil
}

func (cfg *Config) registerRenderer(id string, config rendererConfig) error {
	r, err := createRenderer(config)

	if err != nil {
		return err
	}

	if config.Limit > 0 || config.Concurrency > 0 {
		r = limiter.NewRenderer(limiter.NewRate(config.Limit), limiter.NewConcurrency(config.Concurrency), r)
	}

	if _, ok := r.(otel.Renderer); !ok {
		r = otel.NewRenderer("typst", id, r)
	}

	cfg.RegisterRenderer(id, r)

	return nil
}

func createRenderer(cfg rendererConfig) (provider.Renderer, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "typst":
		return typstRenderer(cfg)

	default:
		return nil, errors.New("invalid renderer type: " + cfg.Type)
	}
}

func typstRenderer(cfg rendererConfig) (provider.Renderer, error) {
	var options []typst.Option

	if cfg.Binary != "" {
		options = append(options, typst.WithBinary(cfg.Binary))
	}

	if cfg.Root != "" {
		options = append(options, typst.WithRoot(cfg.Root))
	}

	if cfg.PPI > 0 {
		options = append(options, typst.WithPPI(cfg.PPI))
	}

	if len(cfg.FontPaths) > 0 {
		options = append(options, typst.WithFontPaths(cfg.FontPaths...))
	}

	if cfg.Timeout != "" {
		timeout, err := time.ParseDuration(cfg.Timeout)

		if err != nil {
			return nil, err
		}

		options = append(options, typst.WithTimeout(timeout))
	}

	return typst.NewRenderer(options...)
}
