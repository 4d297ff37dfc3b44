package config

import (
	"bytes"
	"os"

	"github.com/adrianliechti/typst-bot/pkg/auth"
	"github.com/adrianliechti/typst-bot/pkg/bot"
	"github.com/adrianliechti/typst-bot/pkg/mcp"
	"github.com/adrianliechti/typst-bot/pkg/provider"
	"github.com/adrianliechti/typst-bot/pkg/tool"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Authorizers []auth.Provider

	renderer map[string]provider.Renderer

	handler *bot.Handler

	tools map[string]tool.Provider

	mcp *mcp.Server
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	return build(file)
}

func build(file *configFile) (*Config, error) {
	c := &Config{
		Address: ":8080",
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerRenderers(file); err != nil {
		return nil, err
	}

	if err := c.registerRouters(file); err != nil {
		return nil, err
	}

	if err := c.registerPlugin(file); err != nil {
		return nil, err
	}

	if err := c.registerTools(file); err != nil {
		return nil, err
	}

	if err := c.registerMCP(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Renderers yaml.Node `yaml:"renderers"`
	Routers   yaml.Node `yaml:"routers"`

	Plugin pluginConfig `yaml:"plugin"`

	MCP *mcpConfig `yaml:"mcp"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	return parseData(data)
}

func parseData(data []byte) (*configFile, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
