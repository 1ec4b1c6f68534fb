package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named colour palette.
type Theme struct {
	Name    string
	Accent  lipgloss.Color
	Price   lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
}

// Themes lists the built-in palettes.
var Themes = map[string]Theme{
	"dark": {
		Name:    "dark",
		Accent:  lipgloss.Color("6"),
		Price:   lipgloss.Color("2"),
		Muted:   lipgloss.Color("245"),
		Border:  lipgloss.Color("238"),
		Error:   lipgloss.Color("1"),
		Warning: lipgloss.Color("3"),
	},
	"light": {
		Name:    "light",
		Accent:  lipgloss.Color("25"),
		Price:   lipgloss.Color("28"),
		Muted:   lipgloss.Color("242"),
		Border:  lipgloss.Color("250"),
		Error:   lipgloss.Color("160"),
		Warning: lipgloss.Color("130"),
	},
}

var current = Themes["dark"]

// UseTheme switches the package styles to the named palette.
func UseTheme(name string) error {
	t, ok := Themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown theme %q (want dark or light)", name)
	}
	current = t
	applyTheme(t)
	return nil
}

// CurrentTheme returns the palette in use.
func CurrentTheme() Theme { return current }

func applyTheme(t Theme) {
	titleStyle = lipgloss.NewStyle().Bold(true)
	priceStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Price)
	dimStyle = lipgloss.NewStyle().Foreground(t.Muted)
	cyanStyle = lipgloss.NewStyle().Foreground(t.Accent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error)
	warningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	borderStyle = lipgloss.NewStyle().Foreground(t.Border)
}
