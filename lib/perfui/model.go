// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package perfui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/perfview/lib/monitor"
)

// DefaultRefreshInterval is how often the display drains and redraws
// when Options.RefreshInterval is zero.
const DefaultRefreshInterval = 50 * time.Millisecond

// idleAfter is how long without a sample before the header marks the
// stream idle.
const idleAfter = time.Second

// Default dimensions before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configures a Model. Zero values select defaults.
type Options struct {
	// Title is shown in the header, typically the socket path.
	Title string

	RefreshInterval time.Duration
	Keys            *KeyMap
	Theme           *Theme

	// Renderer binds styles to an output. Nil uses lipgloss's default
	// renderer for stdout.
	Renderer *lipgloss.Renderer
}

// tickMsg triggers a drain and redraw.
type tickMsg struct{}

// Model is the bubbletea model for the perfview display.
type Model struct {
	monitor *monitor.Monitor
	title   string
	refresh time.Duration
	keys    KeyMap
	styles  styles

	width     int
	height    int
	showStats bool
}

// NewModel creates a display model that drains and draws m.
func NewModel(m *monitor.Monitor, options Options) Model {
	keys := DefaultKeyMap
	if options.Keys != nil {
		keys = *options.Keys
	}
	theme := DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}
	renderer := options.Renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	refresh := options.RefreshInterval
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}

	return Model{
		monitor:   m,
		title:     options.Title,
		refresh:   refresh,
		keys:      keys,
		styles:    newStyles(renderer, theme),
		width:     defaultWidth,
		height:    defaultHeight,
		showStats: true,
	}
}

// Init implements tea.Model. Starts the refresh tick.
func (model Model) Init() tea.Cmd {
	return model.scheduleTick()
}

func (model Model) scheduleTick() tea.Cmd {
	return tea.Tick(model.refresh, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tickMsg:
		model.monitor.DrainApply()
		return model, model.scheduleTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit
		case key.Matches(message, model.keys.ToggleStats):
			model.showStats = !model.showStats
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
	}
	return model, nil
}

// View implements tea.Model.
func (model Model) View() string {
	var lines []string
	lines = append(lines, model.headerLine())

	// Header, stats, and footer each take one line.
	chartHeight := model.height - 2
	if model.showStats {
		chartHeight--
	}
	values := model.monitor.LoopTimes()
	if len(values) == 0 {
		lines = append(lines, model.styles.faint.Render("waiting for samples"))
	} else {
		for _, row := range renderChart(values, model.width, chartHeight) {
			lines = append(lines, model.styles.axis.Render(row.axis)+model.styles.chart.Render(row.plot))
		}
	}

	if model.showStats {
		lines = append(lines, model.statsLine())
	}
	lines = append(lines, model.footerLine())

	for i, line := range lines {
		lines[i] = ansi.Truncate(line, model.width, "…")
	}
	return strings.Join(lines, "\n")
}

func (model Model) headerLine() string {
	state := model.monitor.State()
	header := model.styles.header.Render("perfview") + " " +
		model.styles.text.Render("loop time (ms)")
	if model.title != "" {
		header += " " + model.styles.faint.Render(model.title)
	}
	header += " " + model.styles.faint.Render(fmt.Sprintf("%d/%d samples", len(model.monitor.LoopTimes()), state.Capacity()))
	if model.monitor.Disconnected() {
		header += " " + model.styles.warning.Render("disconnected")
	} else if idle, ok := state.SinceLastSample(); ok && idle >= idleAfter {
		header += " " + model.styles.warning.Render(fmt.Sprintf("idle %.1fs", idle.Seconds()))
	}
	return header
}

func (model Model) statsLine() string {
	summary := model.monitor.Summary()
	if summary.Count == 0 {
		return model.styles.faint.Render("no statistics yet")
	}
	fields := []struct {
		name  string
		value time.Duration
	}{
		{"last", summary.Last},
		{"min", summary.Min},
		{"max", summary.Max},
		{"mean", summary.Mean},
		{"p50", summary.P50},
		{"p99", summary.P99},
	}
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = model.styles.faint.Render(field.name) + " " +
			model.styles.text.Render(fmt.Sprintf("%.2f", milliseconds(field.value)))
	}
	return strings.Join(parts, "  ")
}

func (model Model) footerLine() string {
	var parts []string
	for _, binding := range model.keys.helpBindings() {
		help := binding.Help()
		parts = append(parts, model.styles.text.Render(help.Key)+" "+model.styles.faint.Render(help.Desc))
	}
	return strings.Join(parts, "  ")
}
