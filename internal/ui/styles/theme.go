// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// THEME
// =============================================================================

// Theme bundles the pane and chrome styles used across the interface.
type Theme struct {
	// Header
	HeaderTitle lipgloss.Style
	HeaderGoal  lipgloss.Style
	HeaderMeta  lipgloss.Style

	// Panes
	PaneFocused   lipgloss.Style
	PaneUnfocused lipgloss.Style
	PaneTitle     lipgloss.Style

	// List entries
	ListSelected   lipgloss.Style
	ListNormal     lipgloss.Style
	ListScoreBadge lipgloss.Style

	// Detail sections
	SectionLabel lipgloss.Style
	SectionBody  lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusMessage lipgloss.Style
	StatusRunning lipgloss.Style
	KeyHint       lipgloss.Style
	KeyDesc       lipgloss.Style
}

// DefaultTheme builds the standard wisteria look.
func DefaultTheme() *Theme {
	return &Theme{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(Wisteria).
			Bold(true),
		HeaderGoal: lipgloss.NewStyle().
			Foreground(TextPrimary),
		HeaderMeta: lipgloss.NewStyle().
			Foreground(TextMuted),

		PaneFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Wisteria),
		PaneUnfocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Overlay),
		PaneTitle: lipgloss.NewStyle().
			Foreground(TextSecondary).
			Bold(true),

		ListSelected: lipgloss.NewStyle().
			Foreground(Wisteria).
			Bold(true),
		ListNormal: lipgloss.NewStyle().
			Foreground(TextPrimary),
		ListScoreBadge: lipgloss.NewStyle().
			Foreground(TextMuted),

		SectionLabel: lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true),
		SectionBody: lipgloss.NewStyle().
			Foreground(TextPrimary),

		StatusBar: lipgloss.NewStyle().
			Background(SurfaceDim).
			Foreground(TextSecondary).
			Padding(0, 1),
		StatusMessage: lipgloss.NewStyle().
			Foreground(TextPrimary),
		StatusRunning: lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true),
		KeyHint: lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true),
		KeyDesc: lipgloss.NewStyle().
			Foreground(TextMuted),
	}
}
