// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// VIEW
// =============================================================================

// View composes the screen from per-pane render caches. Only panes marked
// dirty since the last frame are re-rendered; everything else is reused,
// which keeps the fixed tick cheap when nothing changed.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	m.refreshDirtyPanes()

	// The strategy view replaces the body while open. It is cheap and
	// short-lived, so it renders fresh each frame instead of through the
	// dirty-pane cache.
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.rendered[paneList], m.rendered[paneDetail])
	if m.strategyOpen {
		body = m.strategies.View(m.strategySet)
	}

	sections := []string{m.rendered[paneHeader], body}
	if m.mode != modeNormal {
		sections = append(sections, m.input.View())
	}
	sections = append(sections, m.rendered[paneStatus])

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// refreshDirtyPanes re-renders whatever changed, under the state lock.
func (m *Model) refreshDirtyPanes() {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if m.state.dirty[paneHeader] {
		m.header.SessionID = m.state.session.ID
		m.rendered[paneHeader] = m.header.View()
		m.state.dirty[paneHeader] = false
	}

	if m.state.dirty[paneList] {
		m.list.SetItems(m.state.latest, m.state.selected)
		m.rendered[paneList] = m.list.View()
		m.state.dirty[paneList] = false
	}

	if m.state.dirty[paneDetail] {
		// Keep the scroll position when the same hypothesis is redrawn;
		// reset it only when the selection actually moved.
		cur := m.state.current()
		if cur != m.detailShown {
			m.detail.SetHypothesis(cur)
			m.detailShown = cur
		} else {
			m.detail.Refresh()
		}
		m.rendered[paneDetail] = m.detail.View()
		m.state.dirty[paneDetail] = false
	}

	if m.state.dirty[paneStatus] {
		m.statusBar.Message = m.lastStatus
		m.statusBar.RunningCount = m.lastRunning
		m.statusBar.SpinnerFrame = m.spin.View()
		m.rendered[paneStatus] = m.statusBar.View()
		m.state.dirty[paneStatus] = false
	}
}
