// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the Bubble Tea application for wisteria.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wisteria-research/wisteria-tui/internal/config"
	"github.com/wisteria-research/wisteria-tui/internal/llm"
	"github.com/wisteria-research/wisteria-tui/internal/model"
	"github.com/wisteria-research/wisteria-tui/internal/papers"
	"github.com/wisteria-research/wisteria-tui/internal/status"
	"github.com/wisteria-research/wisteria-tui/internal/storage"
	"github.com/wisteria-research/wisteria-tui/internal/tasks"
	"github.com/wisteria-research/wisteria-tui/internal/ui/components"
	"github.com/wisteria-research/wisteria-tui/internal/ui/styles"
)

// =============================================================================
// INPUT MODES
// =============================================================================

// inputMode tracks what the bottom input line is collecting.
type inputMode int

const (
	modeNormal   inputMode = iota
	modeFeedback           // text becomes improvement feedback
	modeNotes              // text replaces the hypothesis notes
	modeCount              // number of hypotheses to generate
)

// =============================================================================
// ROOT MODEL
// =============================================================================

// Options wires the engine and collaborators into the UI.
type Options struct {
	Config    *config.Config
	Pool      *tasks.Pool
	Sink      *status.Sink
	Tracker   *status.Tracker
	LLM       *llm.Client
	Papers    *papers.Client
	Store     *storage.SessionStore
	Archive   *storage.Archive // optional
	Session   *storage.Session
	ModelName string
}

// Model is the root Bubble Tea model: three panes plus status bar, driven
// by a fixed render tick that re-reads the published status and re-renders
// only panes marked dirty.
type Model struct {
	opts  Options
	keys  KeyMap
	theme *styles.Theme

	// Shared with task callbacks
	state *appState

	// Components
	header     *components.Header
	list       *components.ListPane
	detail     *components.DetailPane
	statusBar  *components.StatusBar
	strategies *components.StrategyPane
	spin       spinner.Model
	input      textinput.Model

	// Generation strategy state, edited through the strategy view
	strategySet  *llm.StrategySet
	strategyOpen bool

	// Cached renders, one per pane; refreshed when dirty
	rendered    [paneCount]string
	detailShown *model.Hypothesis

	mode   inputMode
	width  int
	height int

	// Values observed last tick, to detect status/running changes
	lastStatus  string
	lastRunning int
	lastCleanup time.Time

	quitting bool
}

// New builds the root model.
func New(opts Options) *Model {
	theme := styles.DefaultTheme()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Amber)

	in := textinput.New()
	in.CharLimit = 500

	m := &Model{
		opts:        opts,
		keys:        DefaultKeyMap(),
		theme:       theme,
		state:       newAppState(opts.Session),
		header:      components.NewHeader(theme),
		list:        components.NewListPane(theme),
		detail:      components.NewDetailPane(theme),
		statusBar:   components.NewStatusBar(theme),
		strategies:  components.NewStrategyPane(theme),
		strategySet: llm.NewStrategySet(),
		spin:        sp,
		input:       in,
		width:       100,
		height:      30,
	}

	m.header.Goal = opts.Session.ResearchGoal
	m.header.ModelName = opts.ModelName
	m.header.SessionID = opts.Session.ID
	m.list.Focused = true
	return m
}

// Init starts the render tick and spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.spin.Tick)
}

// tickInterval returns the render tick period from config.
func (m *Model) tickInterval() time.Duration {
	if m.opts.Config != nil {
		return m.opts.Config.TickInterval()
	}
	return 150 * time.Millisecond
}

// tickMsg drives the bounded render poll.
type tickMsg time.Time

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tickInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
