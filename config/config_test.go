package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrianliechti/typst-bot/pkg/bot"

	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0600))

	cfg, err := Parse(path)
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Address)
	require.Empty(t, cfg.Authorizers)

	_, err = cfg.Renderer("typst")
	require.NoError(t, err)

	h := cfg.Handler()
	require.NotNil(t, h)
	require.Equal(t, bot.DefaultStyle(), h.Style())
	require.Equal(t, bot.DefaultCommands(), h.Commands())

	_, err = cfg.Tool("render")
	require.NoError(t, err)

	_, err = cfg.MCP()
	require.Error(t, err)
}

func TestParseFull(t *testing.T) {
	t.Setenv("BOT_TOKEN", "secret")

	data := []byte(`
address: ":9090"

authorizers:
  - type: static
    tokens:
      ${BOT_TOKEN}: telegram

renderers:
  typst:
    binary: /usr/local/bin/typst
    timeout: 30s
    concurrency: 2
  typst-next:
    type: typst
    binary: /opt/typst/bin/typst
    limit: 5

routers:
  default:
    type: roundrobin
    renderers:
      - typst
      - typst-next

plugin:
  renderer: default
  prefix: "!"
  commands:
    raw: typst
    formula: math
  math_font_size: 18pt
  math_height: 4cm

mcp:
  name: typst
  tools:
    - render
`)

	file, err := parseData(data)
	require.NoError(t, err)

	cfg, err := build(file)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Address)
	require.Len(t, cfg.Authorizers, 1)

	for _, id := range []string{"typst", "typst-next", "default"} {
		_, err := cfg.Renderer(id)
		require.NoError(t, err, id)
	}

	h := cfg.Handler()
	require.Equal(t, bot.Style{FontSize: "18pt", Height: "4cm"}, h.Style())
	require.Equal(t, bot.Commands{Prefix: "!", Raw: "typst", Formula: "math"}, h.Commands())

	_, err = cfg.MCP()
	require.NoError(t, err)
}

func TestParseInvalid(t *testing.T) {
	for name, data := range map[string]string{
		"unknown field":     "unknown: true\n",
		"renderer type":     "renderers:\n  x:\n    type: latex\n",
		"timeout":           "renderers:\n  x:\n    timeout: soon\n",
		"router renderer":   "routers:\n  r:\n    renderers: [missing]\n",
		"plugin renderer":   "plugin:\n  renderer: missing\n",
		"no commands":       "plugin:\n  commands: {}\n",
		"duplicate command": "plugin:\n  commands:\n    raw: typ\n    formula: typ\n",
		"command space":     "plugin:\n  commands:\n    raw: \"ty p\"\n",
		"authorizer type":   "authorizers:\n  - type: magic\n",
		"mcp unknown tool":  "mcp:\n  tools: [missing]\n",
	} {
		t.Run(name, func(t *testing.T) {
			file, err := parseData([]byte(data))

			if err == nil {
				_, err = build(file)
			}

			require.Error(t, err)
		})
	}
}
