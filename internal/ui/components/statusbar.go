// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wisteria-research/wisteria-tui/internal/ui/styles"
	"github.com/wisteria-research/wisteria-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar renders the bottom line: the published status message on the
// left, running-task count and key hints on the right. The message is
// displayed exactly as published; formatting belongs to the publisher.
type StatusBar struct {
	Message      string
	RunningCount int
	SpinnerFrame string
	Width        int

	theme *styles.Theme
}

// NewStatusBar creates a status bar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the available width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	right := s.renderRight()

	avail := s.Width - lipgloss.Width(right) - 3
	if avail < 8 {
		avail = 8
	}
	message := s.theme.StatusMessage.Render(util.TruncateWidth(s.Message, avail))

	gap := s.Width - lipgloss.Width(message) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.
		Width(s.Width).
		Render(message + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) renderRight() string {
	var parts []string

	if s.RunningCount > 0 {
		label := fmt.Sprintf("%s %d running", s.SpinnerFrame, s.RunningCount)
		parts = append(parts, s.theme.StatusRunning.Render(label))
	}

	hints := []string{
		s.theme.KeyHint.Render("g") + s.theme.KeyDesc.Render("en"),
		s.theme.KeyHint.Render("i") + s.theme.KeyDesc.Render("mprove"),
		s.theme.KeyHint.Render("s") + s.theme.KeyDesc.Render("core"),
		s.theme.KeyHint.Render("f") + s.theme.KeyDesc.Render("etch"),
		s.theme.KeyHint.Render("w") + s.theme.KeyDesc.Render("rite"),
		s.theme.KeyHint.Render("S") + s.theme.KeyDesc.Render("trategies"),
		s.theme.KeyHint.Render("q") + s.theme.KeyDesc.Render("uit"),
	}
	parts = append(parts, strings.Join(hints, " "))

	return strings.Join(parts, "  ")
}
