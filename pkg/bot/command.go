package bot

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

type Mode string

const (
	ModeRaw     Mode = "raw"
	ModeFormula Mode = "formula"
	ModeThemed  Mode = "themed"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownMode    = errors.New("unknown render mode")
	ErrNoCommands     = errors.New("at least one command is required")
)

func ParseMode(val string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "", "raw", "typ", "typst":
		return ModeRaw, nil

	case "formula", "math":
		return ModeFormula, nil

	case "themed", "theme":
		return ModeThemed, nil
	}

	return "", ErrUnknownMode
}

// Commands maps chat command keywords to render modes.
type Commands struct {
	Prefix string

	Raw     string
	Formula string
	Themed  string
}

func DefaultCommands() Commands {
	return Commands{
		Prefix: "/",

		Raw:     "typ",
		Formula: "tym",
		Themed:  "tyt",
	}
}

type Command struct {
	Keyword string
	Mode    Mode
}

func (c Commands) List() []Command {
	return []Command{
		{Keyword: c.Raw, Mode: ModeRaw},
		{Keyword: c.Formula, Mode: ModeFormula},
		{Keyword: c.Themed, Mode: ModeThemed},
	}
}

// Validate rejects keyword sets where a command could never match.
func (c Commands) Validate() error {
	if hasSpace(c.Prefix) {
		return fmt.Errorf("command prefix %q contains whitespace", c.Prefix)
	}

	seen := map[string]Mode{}

	for _, cmd := range c.List() {
		if cmd.Keyword == "" {
			continue
		}

		if hasSpace(cmd.Keyword) {
			return fmt.Errorf("command %q contains whitespace", cmd.Keyword)
		}

		if mode, ok := seen[cmd.Keyword]; ok {
			return fmt.Errorf("command %q is used for %s and %s", cmd.Keyword, mode, cmd.Mode)
		}

		seen[cmd.Keyword] = cmd.Mode
	}

	if len(seen) == 0 {
		return ErrNoCommands
	}

	return nil
}

// Enabled reports whether mode has a command keyword.
func (c Commands) Enabled(mode Mode) bool {
	return c.Keyword(mode) != ""
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

func (c Commands) Keyword(mode Mode) string {
	for _, cmd := range c.List() {
		if cmd.Mode == mode {
			return cmd.Keyword
		}
	}

	return ""
}

// Match returns the command whose keyword is the first word of text.
// The prefix is optional so hosts that already strip it are supported.
func (c Commands) Match(text string) (Command, bool) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	text = strings.TrimPrefix(text, c.Prefix)

	word := text

	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		word = text[:i]
	}

	if word == "" {
		return Command{}, false
	}

	for _, cmd := range c.List() {
		if cmd.Keyword != "" && word == cmd.Keyword {
			return cmd, true
		}
	}

	return Command{}, false
}

// Payload removes the leading prefix and keyword from text and trims the rest.
func (c Commands) Payload(keyword, text string) string {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	text = strings.TrimPrefix(text, c.Prefix)
	text = strings.TrimPrefix(text, keyword)

	return strings.TrimSpace(text)
}
