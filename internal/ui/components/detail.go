// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/wisteria-research/wisteria-tui/internal/model"
	"github.com/wisteria-research/wisteria-tui/internal/ui/styles"
	"github.com/wisteria-research/wisteria-tui/internal/util"
)

// =============================================================================
// HYPOTHESIS DETAIL PANE
// =============================================================================

// DetailPane renders the selected hypothesis: description, hallmark
// analysis, scores, references, feedback history, and notes, scrollable
// when the content overflows the pane.
type DetailPane struct {
	Width   int
	Height  int
	Focused bool

	hyp    *model.Hypothesis
	lines  []string // Wrapped content, rebuilt on SetHypothesis/SetSize
	offset int

	theme *styles.Theme
}

// NewDetailPane creates a detail pane component.
func NewDetailPane(theme *styles.Theme) *DetailPane {
	return &DetailPane{
		Width:  50,
		Height: 20,
		theme:  theme,
	}
}

// SetSize updates the pane dimensions and rewraps the content.
func (d *DetailPane) SetSize(width, height int) {
	d.Width = width
	d.Height = height
	d.rebuild()
}

// SetHypothesis replaces the displayed hypothesis and resets scroll.
func (d *DetailPane) SetHypothesis(h *model.Hypothesis) {
	d.hyp = h
	d.offset = 0
	d.rebuild()
}

// Refresh rewraps the current hypothesis without resetting scroll, for
// in-place updates (new scores, annotated references, edited notes).
func (d *DetailPane) Refresh() {
	d.rebuild()
	max := len(d.lines) - d.visibleLines()
	if max < 0 {
		max = 0
	}
	if d.offset > max {
		d.offset = max
	}
}

// ScrollDown moves the view down by n lines, clamped to the content.
func (d *DetailPane) ScrollDown(n int) {
	max := len(d.lines) - d.visibleLines()
	if max < 0 {
		max = 0
	}
	d.offset += n
	if d.offset > max {
		d.offset = max
	}
}

// ScrollUp moves the view up by n lines.
func (d *DetailPane) ScrollUp(n int) {
	d.offset -= n
	if d.offset < 0 {
		d.offset = 0
	}
}

func (d *DetailPane) visibleLines() int {
	return d.Height - 2
}

// rebuild rewraps the hypothesis into display lines.
func (d *DetailPane) rebuild() {
	d.lines = d.lines[:0]
	if d.hyp == nil {
		return
	}
	width := d.Width - 4
	if width < 10 {
		return
	}

	h := d.hyp
	label := d.theme.SectionLabel
	add := func(text string) {
		d.lines = append(d.lines, util.WrapText(text, width)...)
	}
	section := func(name, text string) {
		if text == "" {
			return
		}
		d.lines = append(d.lines, "", label.Render(name))
		add(text)
	}

	d.lines = append(d.lines, label.Render(h.Label()))
	add(h.Description)

	if h.Scores != nil {
		d.lines = append(d.lines, "", label.Render("Scores")+" "+h.Scores.Summary())
	}

	section("Experimental validation", h.ExperimentalValidation)
	section("Theory and computation", h.TheoryAndComputation)
	section("Testability", h.Hallmarks.Testability)
	section("Specificity", h.Hallmarks.Specificity)
	section("Grounded knowledge", h.Hallmarks.GroundedKnowledge)
	section("Predictive power", h.Hallmarks.PredictivePower)
	section("Parsimony", h.Hallmarks.Parsimony)

	if h.ImprovementsMade != "" {
		section("Improvements made", h.ImprovementsMade)
	}

	if len(h.References) > 0 {
		d.lines = append(d.lines, "", label.Render("References"))
		for i, ref := range h.References {
			add(fmt.Sprintf("%d. %s", i+1, ref.Citation))
			if ref.Annotation != "" {
				add("   " + ref.Annotation)
			}
			if ref.Abstract != "" {
				add("   Abstract: " + ref.Abstract)
			}
		}
	}

	if len(h.FeedbackHistory) > 0 {
		d.lines = append(d.lines, "", label.Render("Feedback history"))
		for _, fb := range h.FeedbackHistory {
			add(fmt.Sprintf("v%s: %s", fb.Version, fb.Feedback))
		}
	}

	section("Notes", h.Notes)
}

// View renders the pane.
func (d *DetailPane) View() string {
	innerWidth := d.Width - 2
	innerHeight := d.visibleLines()
	if innerWidth < 4 || innerHeight < 1 {
		return ""
	}

	var body string
	if d.hyp == nil {
		body = d.theme.SectionBody.Foreground(styles.TextMuted).
			Render("No hypotheses yet. Press g to generate.")
	} else {
		end := d.offset + innerHeight
		if end > len(d.lines) {
			end = len(d.lines)
		}
		visible := d.lines[d.offset:end]
		body = strings.Join(visible, "\n")
	}

	border := d.theme.PaneUnfocused
	if d.Focused {
		border = d.theme.PaneFocused
	}
	return border.Width(innerWidth).Height(innerHeight).Render(body)
}
