package config

import (
	"fmt"

	"github.com/adrianliechti/typst-bot/pkg/bot"
)

type pluginConfig struct {
	Renderer string `yaml:"renderer"`

	Prefix   *string         `yaml:"prefix"`
	Commands *commandsConfig `yaml:"commands"`

	MathFontSize string `yaml:"math_font_size"`
	MathHeight   string `yaml:"math_height"`
}

type commandsConfig struct {
	Raw     string `yaml:"raw"`
	Formula string `yaml:"formula"`
	Themed  string `yaml:"themed"`
}

// Handler returns the render request handler shared by all transports.
func (cfg *Config) Handler() *bot.Handler {
	return cfg.handler
}

func (cfg *Config) registerPlugin(f *configFile) error {
	renderer, err := cfg.Renderer(f.Plugin.Renderer)

	if err != nil {
		return err
	}

	commands := bot.DefaultCommands()

	if f.Plugin.Prefix != nil {
		commands.Prefix = *f.Plugin.Prefix
	}

	if c := f.Plugin.Commands; c != nil {
		commands.Raw = c.Raw
		commands.Formula = c.Formula
		commands.Themed = c.Themed
	}

	handler, err := bot.New(renderer,
		bot.WithCommands(commands),
		bot.WithStyle(bot.Style{
			FontSize: f.Plugin.MathFontSize,
			Height:   f.Plugin.MathHeight,
		}),
	)

	if err != nil {
		return fmt.Errorf("plugin: %w", err)
	}

	cfg.RegisterHandler(handler)

	return nil
}

func (cfg *Config) RegisterHandler(h *bot.Handler) {
	cfg.handler = h
}
