// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wisteria-research/wisteria-tui/internal/model"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages: keys, window sizing, the render tick, and the
// spinner. Long-running work never happens here; keys only submit tasks.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.pollStatus()
		if m.quitting {
			return m, tea.Quit
		}
		return m, m.tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		// The spinner only shows while tasks run; advancing it means the
		// status pane must redraw.
		if m.lastRunning > 0 {
			m.state.mu.Lock()
			m.state.markDirty(paneStatus)
			m.state.mu.Unlock()
		}
		return m, cmd

	case tea.KeyMsg:
		if m.strategyOpen {
			return m.updateStrategies(msg)
		}
		if m.mode != modeNormal {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

// cleanupEvery is how often the tick sweeps old terminal task records.
const cleanupEvery = 1 * time.Minute

// pollStatus is the bounded render poll: re-read the published status and
// running count, and mark the status pane dirty on change.
func (m *Model) pollStatus() {
	current := m.opts.Sink.Current()
	running := m.opts.Pool.RunningCount()

	if current != m.lastStatus || running != m.lastRunning {
		m.lastStatus = current
		m.lastRunning = running
		m.state.mu.Lock()
		m.state.markDirty(paneStatus)
		m.state.mu.Unlock()
	}

	if now := time.Now(); m.opts.Config != nil && now.Sub(m.lastCleanup) >= cleanupEvery {
		m.lastCleanup = now
		m.opts.Pool.CleanupCompleted(m.opts.Config.CleanupAge())
	}
}

// resize recomputes the pane layout and forces a full redraw.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 2
	statusHeight := 1
	inputHeight := 0
	if m.mode != modeNormal {
		inputHeight = 1
	}
	bodyHeight := height - headerHeight - statusHeight - inputHeight
	if bodyHeight < 4 {
		bodyHeight = 4
	}

	listWidth := width / 3
	if listWidth > 48 {
		listWidth = 48
	}
	if listWidth < 20 {
		listWidth = 20
	}

	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.list.SetSize(listWidth, bodyHeight)
	m.detail.SetSize(width-listWidth, bodyHeight)
	m.strategies.SetSize(width, bodyHeight)
	m.input.Width = width - 4

	m.state.mu.Lock()
	m.state.markDirty(paneHeader, paneList, paneDetail, paneStatus)
	m.state.mu.Unlock()
}

// =============================================================================
// NORMAL MODE KEYS
// =============================================================================

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		m.state.mu.Lock()
		m.state.moveSelection(-1)
		m.state.markDirty(paneList, paneDetail)
		m.state.mu.Unlock()
		m.opts.Sink.ClearOnAction()

	case key.Matches(msg, keys.Down):
		m.state.mu.Lock()
		m.state.moveSelection(1)
		m.state.markDirty(paneList, paneDetail)
		m.state.mu.Unlock()
		m.opts.Sink.ClearOnAction()

	case key.Matches(msg, keys.ScrollUp):
		m.detail.ScrollUp(5)
		m.state.mu.Lock()
		m.state.markDirty(paneDetail)
		m.state.mu.Unlock()

	case key.Matches(msg, keys.ScrollDown):
		m.detail.ScrollDown(5)
		m.state.mu.Lock()
		m.state.markDirty(paneDetail)
		m.state.mu.Unlock()

	case key.Matches(msg, keys.Generate):
		m.enterInput(modeCount, "How many hypotheses? ", "3")

	case key.Matches(msg, keys.Improve):
		if m.selectedHypothesis() != nil {
			m.enterInput(modeFeedback, "Feedback: ", "")
		}

	case key.Matches(msg, keys.Score):
		if h := m.selectedHypothesis(); h != nil {
			m.opts.Sink.ClearOnAction()
			m.submitScore(h)
		}

	case key.Matches(msg, keys.FetchPapers):
		if h := m.selectedHypothesis(); h != nil {
			m.opts.Sink.ClearOnAction()
			m.submitFetchPapers(h)
		}

	case key.Matches(msg, keys.Save):
		m.opts.Sink.ClearOnAction()
		m.submitSave()

	case key.Matches(msg, keys.Notes):
		if h := m.selectedHypothesis(); h != nil {
			m.enterInput(modeNotes, "Notes: ", h.Notes)
		}

	case key.Matches(msg, keys.Strategies):
		m.strategyOpen = true
	}

	return m, nil
}

// =============================================================================
// STRATEGY VIEW KEYS
// =============================================================================

// updateStrategies handles keys while the strategy view is open: digits
// toggle individual strategies, d restores default mode, enter/esc close.
func (m *Model) updateStrategies(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch s := msg.String(); s {
	case "esc", "enter", "q":
		m.strategyOpen = false
		m.state.mu.Lock()
		m.state.markDirty(paneList, paneDetail)
		m.state.mu.Unlock()
		m.opts.Sink.Set("Strategies: "+m.strategySet.Status(), false, 0)

	case "d":
		m.strategySet.SetDefaultMode()

	default:
		m.strategySet.Toggle(s)
	}
	return m, nil
}

// selectedHypothesis reads the current selection under the state lock.
func (m *Model) selectedHypothesis() *model.Hypothesis {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	return m.state.current()
}

// =============================================================================
// INPUT MODE KEYS
// =============================================================================

// enterInput switches to a text entry mode at the bottom of the screen.
func (m *Model) enterInput(mode inputMode, prompt, initial string) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
	m.resize(m.width, m.height)
}

// leaveInput returns to normal mode.
func (m *Model) leaveInput() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
	m.resize(m.width, m.height)
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.leaveInput()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.leaveInput()
		m.applyInput(mode, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyInput dispatches a confirmed input line.
func (m *Model) applyInput(mode inputMode, value string) {
	switch mode {
	case modeCount:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 20 {
			m.opts.Sink.Set("Enter a number between 1 and 20", false, 0)
			return
		}
		m.submitGenerate(n)

	case modeFeedback:
		if value == "" {
			return
		}
		if h := m.selectedHypothesis(); h != nil {
			m.submitImprove(h, value)
		}

	case modeNotes:
		if h := m.selectedHypothesis(); h != nil {
			m.state.mu.Lock()
			h.Notes = value
			m.state.markDirty(paneDetail)
			m.state.mu.Unlock()
			m.opts.Sink.Set("Notes updated", false, 0)
		}
	}
}
