// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the wisteria TUI.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/wisteria-research/wisteria-tui/internal/ui/styles"
	"github.com/wisteria-research/wisteria-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header renders the top banner: app name, research goal, model, and
// session identity.
type Header struct {
	Goal      string
	ModelName string
	SessionID string
	Width     int

	theme *styles.Theme
}

// NewHeader creates a header component.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the available width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render("wisteria")

	meta := ""
	if h.ModelName != "" {
		meta = h.theme.HeaderMeta.Render(h.ModelName)
	}
	if h.SessionID != "" {
		sess := h.theme.HeaderMeta.Render(fmt.Sprintf("[%s]", h.SessionID))
		if meta != "" {
			meta += " "
		}
		meta += sess
	}

	// Goal fills the space between the title and the metadata.
	avail := h.Width - lipgloss.Width(title) - lipgloss.Width(meta) - 4
	goal := ""
	if h.Goal != "" && avail > 8 {
		goal = h.theme.HeaderGoal.Render(util.TruncateWidth(h.Goal, avail))
	}

	line := title
	if goal != "" {
		line += "  " + goal
	}

	gap := h.Width - lipgloss.Width(line) - lipgloss.Width(meta) - 1
	if gap < 1 {
		gap = 1
	}
	line += lipgloss.NewStyle().Width(gap).Render("") + meta

	return lipgloss.NewStyle().
		Width(h.Width).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(styles.Overlay).
		Render(line)
}
