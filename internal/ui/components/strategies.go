// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wisteria-research/wisteria-tui/internal/llm"
	"github.com/wisteria-research/wisteria-tui/internal/ui/styles"
	"github.com/wisteria-research/wisteria-tui/internal/util"
)

// =============================================================================
// STRATEGY SELECTION PANE
// =============================================================================

// StrategyPane renders the generation-strategy selection view that replaces
// the body panes while open. It is stateless; the set it renders lives on
// the root model.
type StrategyPane struct {
	Width  int
	Height int

	theme *styles.Theme
}

// NewStrategyPane creates a strategy pane component.
func NewStrategyPane(theme *styles.Theme) *StrategyPane {
	return &StrategyPane{
		Width:  80,
		Height: 20,
		theme:  theme,
	}
}

// SetSize updates the pane dimensions.
func (p *StrategyPane) SetSize(width, height int) {
	p.Width = width
	p.Height = height
}

// View renders the strategy list with per-strategy on/off state.
func (p *StrategyPane) View(set *llm.StrategySet) string {
	innerWidth := p.Width - 2
	innerHeight := p.Height - 2
	if innerWidth < 10 || innerHeight < 3 {
		return ""
	}

	var rows []string
	rows = append(rows, p.theme.PaneTitle.Render("Hypothesis Generation Strategies"))
	rows = append(rows, p.theme.SectionBody.Render("Current: "+set.Status()))
	rows = append(rows, p.theme.SectionBody.Render(
		util.TruncateWidth("0-9 toggle | d default | esc/enter close", innerWidth)))
	rows = append(rows, "")

	for _, st := range llm.Strategies {
		indicator := "[OFF]"
		style := lipgloss.NewStyle().Foreground(styles.TextMuted)
		switch {
		case set.DefaultMode():
			indicator = "[DEFAULT]"
			style = lipgloss.NewStyle().Foreground(styles.Amber)
		case set.IsActive(st.Key):
			indicator = "[ACTIVE]"
			style = lipgloss.NewStyle().Foreground(styles.Emerald)
		}

		line := st.Key + ". " + st.Name + ": " + st.Description
		line = util.TruncateWidth(line, innerWidth-10-1)

		pad := innerWidth - util.StringWidth(line) - util.StringWidth(indicator)
		if pad < 1 {
			pad = 1
		}
		rows = append(rows, line+strings.Repeat(" ", pad)+style.Render(indicator))
		if len(rows) >= innerHeight {
			break
		}
	}

	return p.theme.PaneFocused.
		Width(innerWidth).
		Height(innerHeight).
		Render(strings.Join(rows, "\n"))
}
