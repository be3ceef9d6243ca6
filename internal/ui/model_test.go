// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wisteria-research/wisteria-tui/internal/config"
	"github.com/wisteria-research/wisteria-tui/internal/llm"
	"github.com/wisteria-research/wisteria-tui/internal/model"
	"github.com/wisteria-research/wisteria-tui/internal/papers"
	"github.com/wisteria-research/wisteria-tui/internal/status"
	"github.com/wisteria-research/wisteria-tui/internal/storage"
	"github.com/wisteria-research/wisteria-tui/internal/tasks"
)

// newTestModel wires a model against a stub chat server and a running pool.
func newTestModel(t *testing.T, handler http.HandlerFunc) *Model {
	t.Helper()

	var client *llm.Client
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		cfg := llm.DefaultClientConfig()
		cfg.MaxRetries = 0
		client = llm.NewClientWithConfig(config.ModelServer{
			BaseURL: srv.URL, Model: "test-model",
		}, cfg)
	}

	store, err := storage.NewSessionStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	pool := tasks.NewPool()
	pool.Start(1)
	t.Cleanup(pool.Stop)

	session := &storage.Session{
		ID:           "session_test",
		ResearchGoal: "why do cells age",
		Model:        "test-model",
	}

	m := New(Options{
		Config:    config.Default(),
		Pool:      pool,
		Sink:      status.NewSink(),
		Tracker:   status.NewTracker(),
		LLM:       client,
		Store:     store,
		Session:   session,
		ModelName: "test-model",
	})
	m.resize(100, 30)
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// waitFor polls until cond is true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestAnnotateReferenceFillsAnnotationAndAbstract(t *testing.T) {
	h := model.NewHypothesis(1, model.KindOriginal, "One", "d")
	h.References = []model.Reference{{Citation: "Doe, J. (2021). A paper. Nature."}}

	annotateReference(h, papers.LookupResult{
		Index: 1,
		Paper: &papers.Paper{
			Title:    "A paper",
			Venue:    "Nature",
			Year:     2021,
			PDFURL:   "https://example.org/a.pdf",
			Abstract: "Cells accumulate damage over time.",
		},
	})

	ref := h.References[0]
	want := "Found: A paper - Nature 2021 - PDF: https://example.org/a.pdf"
	if ref.Annotation != want {
		t.Errorf("annotation = %q, want %q", ref.Annotation, want)
	}
	if ref.Abstract != "Cells accumulate damage over time." {
		t.Errorf("abstract = %q", ref.Abstract)
	}

	// Out-of-range indices leave the references untouched.
	annotateReference(h, papers.LookupResult{Index: 5, Paper: &papers.Paper{Title: "x"}})
	if h.References[0].Annotation != want {
		t.Errorf("annotation changed by out-of-range result: %q", h.References[0].Annotation)
	}
}

func TestSelectionNavigation(t *testing.T) {
	m := newTestModel(t, nil)

	m.state.mu.Lock()
	m.state.addVersions(
		model.NewHypothesis(1, model.KindOriginal, "One", "d"),
		model.NewHypothesis(2, model.KindOriginal, "Two", "d"),
		model.NewHypothesis(3, model.KindOriginal, "Three", "d"),
	)
	m.state.mu.Unlock()

	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	m.Update(keyMsg("j")) // clamped at the end
	if h := m.selectedHypothesis(); h == nil || h.Number != 3 {
		t.Errorf("selection = %+v, want hypothesis 3", h)
	}

	m.Update(keyMsg("k"))
	if h := m.selectedHypothesis(); h == nil || h.Number != 2 {
		t.Errorf("selection = %+v, want hypothesis 2", h)
	}
}

func TestPollStatusMarksStatusDirty(t *testing.T) {
	m := newTestModel(t, nil)
	m.View() // clear initial dirt

	m.opts.Sink.Set("Working on it", true, 0)
	m.Update(tickMsg(time.Now()))

	m.state.mu.Lock()
	dirty := m.state.dirty[paneStatus]
	m.state.mu.Unlock()
	if !dirty {
		t.Error("status change should mark the status pane dirty")
	}

	out := m.View()
	if !strings.Contains(out, "Working on it") {
		t.Error("view should show the published status")
	}
}

func TestViewUsesRenderCacheWhenClean(t *testing.T) {
	m := newTestModel(t, nil)
	first := m.View()

	// No state change between frames; the composed view must be identical
	// without re-rendering any pane.
	m.state.mu.Lock()
	for p := pane(0); p < paneCount; p++ {
		if m.state.dirty[p] {
			t.Errorf("pane %d still dirty after View", p)
		}
	}
	m.state.mu.Unlock()

	if second := m.View(); second != first {
		t.Error("clean frames should render identically from cache")
	}
}

func TestGenerateCountValidation(t *testing.T) {
	m := newTestModel(t, nil)

	m.applyInput(modeCount, "not a number")
	if got := m.opts.Sink.Current(); !strings.Contains(got, "between 1 and 20") {
		t.Errorf("status = %q, want validation message", got)
	}
}

func TestNotesEditing(t *testing.T) {
	m := newTestModel(t, nil)
	m.state.mu.Lock()
	m.state.addVersions(model.NewHypothesis(1, model.KindOriginal, "One", "d"))
	m.state.mu.Unlock()

	m.applyInput(modeNotes, "remember the control group")

	h := m.selectedHypothesis()
	if h.Notes != "remember the control group" {
		t.Errorf("Notes = %q", h.Notes)
	}
}

func TestStrategyViewTogglesStrategies(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(keyMsg("S"))
	if !m.strategyOpen {
		t.Fatal("S should open the strategy view")
	}

	out := m.View()
	if !strings.Contains(out, "Hypothesis Generation Strategies") {
		t.Error("strategy view should replace the body panes")
	}

	m.Update(keyMsg("3"))
	if !m.strategySet.IsActive("3") {
		t.Error("digit keys should toggle strategies while the view is open")
	}
	if m.strategySet.DefaultMode() {
		t.Error("toggling a strategy should leave default mode")
	}

	m.Update(keyMsg("d"))
	if !m.strategySet.DefaultMode() {
		t.Error("d should restore default mode")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.strategyOpen {
		t.Error("esc should close the strategy view")
	}
	if !strings.Contains(m.opts.Sink.Current(), "Strategies:") {
		t.Error("closing the view should publish the strategy status")
	}
}

func TestGenerateSendsActiveStrategies(t *testing.T) {
	var gotBody atomic.Value
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody.Store(string(raw))
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant",
			"content": "[{\"title\": \"T\", \"description\": \"D\"}]"}}]}`))
	})

	m.strategySet.Toggle("9")
	m.submitGenerate(1)

	waitFor(t, 5*time.Second, func() bool {
		m.state.mu.Lock()
		defer m.state.mu.Unlock()
		return len(m.state.latest) == 1
	})

	body, _ := gotBody.Load().(string)
	if !strings.Contains(body, "ADDITIONAL GENERATION STRATEGIES") {
		t.Error("generation request missing the strategies block")
	}
	if !strings.Contains(body, "bold, risky hypotheses") {
		t.Error("generation request missing the Risk-Taking directive")
	}
}

func TestSaveWritesSnapshotAndAdoptsID(t *testing.T) {
	m := newTestModel(t, nil)
	m.opts.Session.ID = "" // force Save to mint an ID

	m.state.mu.Lock()
	m.state.addVersions(model.NewHypothesis(1, model.KindOriginal, "One", "d"))
	m.state.mu.Unlock()

	m.submitSave()

	waitFor(t, 5*time.Second, func() bool {
		return strings.Contains(m.opts.Sink.Current(), "Session saved as")
	})

	m.state.mu.Lock()
	id := m.state.session.ID
	m.state.mu.Unlock()
	if id == "" {
		t.Fatal("session ID not adopted after save")
	}

	// The write went through a deep copy, so the stored file must match
	// the live session.
	loaded, err := m.opts.Store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Hypotheses) != 1 || loaded.Hypotheses[0].Title != "One" {
		t.Errorf("stored session = %+v, want the snapshotted hypothesis", loaded.Hypotheses)
	}
}

func TestGenerateFlowEndToEnd(t *testing.T) {
	hypJSON := `[{"title": "Generated idea", "description": "From the model.",
		"hallmarks": {"testability": "t", "specificity": "s", "grounded_knowledge": "g",
		"predictive_power": "p", "parsimony": "pa"}, "references": []}]`

	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": ` +
			jsonQuote(hypJSON) + `}}]}`))
	})

	m.submitGenerate(1)

	waitFor(t, 5*time.Second, func() bool {
		m.state.mu.Lock()
		defer m.state.mu.Unlock()
		return len(m.state.latest) == 1
	})

	h := m.selectedHypothesis()
	if h.Title != "Generated idea" {
		t.Errorf("Title = %q", h.Title)
	}
	if h.Number != 1 || h.Version != "1.0" {
		t.Errorf("Number/Version = %d/%s", h.Number, h.Version)
	}

	waitFor(t, time.Second, func() bool {
		return strings.Contains(m.opts.Sink.Current(), "Generated 1 hypotheses")
	})
}

// jsonQuote JSON-quotes a string for embedding in a response body.
func jsonQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
