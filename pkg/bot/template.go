package bot

import (
	"fmt"
)

const (
	DefaultFontSize = "14pt"
	DefaultHeight   = "auto"
)

// Style holds the formula sizing read once at startup.
type Style struct {
	FontSize string
	Height   string
}

func DefaultStyle() Style {
	return Style{
		FontSize: DefaultFontSize,
		Height:   DefaultHeight,
	}
}

const themedPreamble = `#import "@preview/catppuccin:1.0.0": catppuccin, flavors
#show: catppuccin.with(flavors.mocha)
#set page(margin: auto, height: auto, width: auto)
#let persona = "typst-bot"`

func formulaTemplate(style Style) string {
	return fmt.Sprintf(`#set page(margin: auto, height: %s)
#show math.equation: set text(size: %s)
#set align(center + horizon)`, style.Height, style.FontSize)
}

func themedTemplate(Style) string {
	return themedPreamble
}

var templates = map[Mode]func(Style) string{
	ModeFormula: formulaTemplate,
	ModeThemed:  themedTemplate,
}

// Compose prepends the template of mode to payload.
func Compose(mode Mode, style Style, payload string) string {
	template, ok := templates[mode]

	if !ok {
		return payload
	}

	return template(style) + "\n" + payload
}
