package typst

import (
	"os"
	"time"
)

type Config struct {
	binary string

	root string
	ppi  int

	fontPaths []string

	timeout time.Duration
}

type Option func(*Config)

// WithBinary sets the compiler executable. Defaults to "typst" resolved via PATH.
func WithBinary(path string) Option {
	return func(c *Config) {
		c.binary = path
	}
}

// WithRoot sets the directory under which per-request workspaces are created.
func WithRoot(dir string) Option {
	return func(c *Config) {
		c.root = dir
	}
}

func WithPPI(ppi int) Option {
	return func(c *Config) {
		c.ppi = ppi
	}
}

func WithFontPaths(paths ...string) Option {
	return func(c *Config) {
		c.fontPaths = append(c.fontPaths, paths...)
	}
}

// WithTimeout bounds a single compilation. Zero means no limit.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.timeout = timeout
	}
}

func (c *Config) ensureDefaults() {
	if c.binary == "" {
		c.binary = "typst"
	}

	if c.root == "" {
		c.root = os.TempDir()
	}

	if c.ppi <= 0 {
		c.ppi = 144
	}
}
