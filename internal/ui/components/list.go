// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wisteria-research/wisteria-tui/internal/model"
	"github.com/wisteria-research/wisteria-tui/internal/ui/styles"
	"github.com/wisteria-research/wisteria-tui/internal/util"
)

// =============================================================================
// HYPOTHESIS LIST PANE
// =============================================================================

// ListPane renders the hypothesis list: one row per hypothesis number,
// showing the latest version, with the selected row highlighted.
type ListPane struct {
	Width   int
	Height  int
	Focused bool

	items    []listItem
	selected int

	theme *styles.Theme
}

type listItem struct {
	label  string
	badge  string
	avg    float64
	scored bool
}

// NewListPane creates a list pane component.
func NewListPane(theme *styles.Theme) *ListPane {
	return &ListPane{
		Width:  30,
		Height: 10,
		theme:  theme,
	}
}

// SetSize updates the pane dimensions.
func (l *ListPane) SetSize(width, height int) {
	l.Width = width
	l.Height = height
}

// SetItems replaces the list contents from the latest hypothesis versions.
func (l *ListPane) SetItems(hyps []*model.Hypothesis, selected int) {
	l.items = l.items[:0]
	for _, h := range hyps {
		item := listItem{label: h.Label()}
		if h.Scores != nil {
			item.scored = true
			item.avg = h.Scores.Average()
			item.badge = fmt.Sprintf("%.1f", item.avg)
		}
		l.items = append(l.items, item)
	}
	l.selected = selected
	if l.selected >= len(l.items) {
		l.selected = len(l.items) - 1
	}
}

// Len returns the number of list rows.
func (l *ListPane) Len() int {
	return len(l.items)
}

// View renders the pane.
func (l *ListPane) View() string {
	innerWidth := l.Width - 2  // Border columns
	innerHeight := l.Height - 2
	if innerWidth < 4 || innerHeight < 1 {
		return ""
	}

	var rows []string
	rows = append(rows, l.theme.PaneTitle.Render(
		util.TruncateWidth(fmt.Sprintf("Hypotheses (%d)", len(l.items)), innerWidth)))

	// Keep the selection visible by scrolling the window.
	visible := innerHeight - 1
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}

	for i := start; i < len(l.items) && i-start < visible; i++ {
		item := l.items[i]

		badgeWidth := 0
		if item.scored {
			badgeWidth = util.StringWidth(item.badge) + 1
		}
		label := util.TruncateWidth(item.label, innerWidth-2-badgeWidth)

		row := "  " + label
		if i == l.selected {
			row = "> " + label
		}
		if item.scored {
			pad := innerWidth - util.StringWidth(row) - util.StringWidth(item.badge)
			if pad < 1 {
				pad = 1
			}
			badge := lipgloss.NewStyle().Foreground(styles.ScoreColor(item.avg)).Render(item.badge)
			row += strings.Repeat(" ", pad) + badge
		}

		if i == l.selected {
			row = l.theme.ListSelected.Render(row)
		} else {
			row = l.theme.ListNormal.Render(row)
		}
		rows = append(rows, row)
	}

	body := strings.Join(rows, "\n")
	border := l.theme.PaneUnfocused
	if l.Focused {
		border = l.theme.PaneFocused
	}
	return border.Width(innerWidth).Height(innerHeight).Render(body)
}
