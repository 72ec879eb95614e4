// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package perfui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the perfview display.
type KeyMap struct {
	ToggleStats key.Binding
	Quit        key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	ToggleStats: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stats"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpBindings lists the bindings shown in the footer, in order.
func (keys KeyMap) helpBindings() []key.Binding {
	return []key.Binding{keys.ToggleStats, keys.Quit}
}
