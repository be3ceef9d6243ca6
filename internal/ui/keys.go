// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import "github.com/charmbracelet/bubbles/key"

// =============================================================================
// KEY BINDINGS
// =============================================================================

// KeyMap defines the keyboard shortcuts for the main view.
type KeyMap struct {
	Generate    key.Binding
	Improve     key.Binding
	Score       key.Binding
	FetchPapers key.Binding
	Save        key.Binding
	Notes       key.Binding
	Strategies  key.Binding

	Up         key.Binding
	Down       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding

	Confirm key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate hypotheses"),
		),
		Improve: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "improve with feedback"),
		),
		Score: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "score hallmarks"),
		),
		FetchPapers: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fetch papers"),
		),
		Save: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "save session"),
		),
		Notes: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "edit notes"),
		),
		Strategies: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "generation strategies"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous hypothesis"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next hypothesis"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup", "u"),
			key.WithHelp("pgup/u", "scroll detail up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown", "d"),
			key.WithHelp("pgdn/d", "scroll detail down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
