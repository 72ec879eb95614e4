// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package perfui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/perfview/lib/config"
)

// Theme defines the color palette for the display. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	HeaderForeground lipgloss.Color
	ChartForeground  lipgloss.Color
	AxisForeground   lipgloss.Color
	NormalText       lipgloss.Color
	FaintText        lipgloss.Color
	WarningText      lipgloss.Color
}

// DefaultTheme is the built-in palette.
var DefaultTheme = Theme{
	HeaderForeground: lipgloss.Color("39"),  // Bright blue.
	ChartForeground:  lipgloss.Color("78"),  // Green.
	AxisForeground:   lipgloss.Color("243"), // Mid gray.
	NormalText:       lipgloss.Color("252"), // Light gray.
	FaintText:        lipgloss.Color("245"), // Gray.
	WarningText:      lipgloss.Color("214"), // Orange.
}

// NewRenderer returns a lipgloss renderer for output honoring the
// color mode. Auto detects the terminal's profile; always forces 256
// colors; never strips all styling.
func NewRenderer(output io.Writer, mode config.ColorMode) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(output)
	switch mode {
	case config.ColorAlways:
		renderer.SetColorProfile(termenv.ANSI256)
	case config.ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}
	return renderer
}

// styles are the theme's colors bound to a renderer.
type styles struct {
	header  lipgloss.Style
	chart   lipgloss.Style
	axis    lipgloss.Style
	text    lipgloss.Style
	faint   lipgloss.Style
	warning lipgloss.Style
}

func newStyles(renderer *lipgloss.Renderer, theme Theme) styles {
	return styles{
		header:  renderer.NewStyle().Foreground(theme.HeaderForeground).Bold(true),
		chart:   renderer.NewStyle().Foreground(theme.ChartForeground),
		axis:    renderer.NewStyle().Foreground(theme.AxisForeground),
		text:    renderer.NewStyle().Foreground(theme.NormalText),
		faint:   renderer.NewStyle().Foreground(theme.FaintText),
		warning: renderer.NewStyle().Foreground(theme.WarningText).Bold(true),
	}
}
