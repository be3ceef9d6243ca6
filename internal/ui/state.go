// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"sync"

	"github.com/wisteria-research/wisteria-tui/internal/model"
	"github.com/wisteria-research/wisteria-tui/internal/storage"
)

// =============================================================================
// PANES
// =============================================================================

// pane identifies one region of the screen for dirty tracking.
type pane int

const (
	paneHeader pane = iota
	paneList
	paneDetail
	paneStatus
	paneCount
)

// =============================================================================
// SHARED APPLICATION STATE
// =============================================================================

// appState is the hypothesis data shared between the render loop and task
// callbacks running on worker goroutines. Everything here is guarded by mu;
// callbacks mutate and mark panes dirty, the render tick reads and clears.
type appState struct {
	mu sync.Mutex

	session  *storage.Session
	latest   []*model.Hypothesis // newest version per number, ordered
	selected int

	dirty [paneCount]bool
}

func newAppState(session *storage.Session) *appState {
	s := &appState{session: session}
	s.latest = session.LatestVersions()
	for p := pane(0); p < paneCount; p++ {
		s.dirty[p] = true
	}
	return s
}

// markDirty flags panes for re-render. Callers must hold mu.
func (s *appState) markDirty(panes ...pane) {
	for _, p := range panes {
		s.dirty[p] = true
	}
}

// nextNumber returns the next unused hypothesis number. Callers must hold mu.
func (s *appState) nextNumber() int {
	max := 0
	for _, h := range s.session.Hypotheses {
		if h.Number > max {
			max = h.Number
		}
	}
	return max + 1
}

// addVersions appends hypothesis versions and recomputes the latest view.
// Callers must hold mu.
func (s *appState) addVersions(hyps ...*model.Hypothesis) {
	s.session.Hypotheses = append(s.session.Hypotheses, hyps...)
	s.latest = s.session.LatestVersions()
}

// selectNumber moves the selection to the given hypothesis number.
// Callers must hold mu.
func (s *appState) selectNumber(number int) {
	for i, h := range s.latest {
		if h.Number == number {
			s.selected = i
			return
		}
	}
}

// current returns the selected hypothesis, or nil. Callers must hold mu.
func (s *appState) current() *model.Hypothesis {
	if s.selected < 0 || s.selected >= len(s.latest) {
		return nil
	}
	return s.latest[s.selected]
}

// moveSelection shifts the selection by delta, clamped. Callers must hold mu.
func (s *appState) moveSelection(delta int) {
	if len(s.latest) == 0 {
		return
	}
	s.selected += delta
	if s.selected < 0 {
		s.selected = 0
	}
	if s.selected >= len(s.latest) {
		s.selected = len(s.latest) - 1
	}
}
