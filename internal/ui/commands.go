// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/wisteria-research/wisteria-tui/internal/model"
	"github.com/wisteria-research/wisteria-tui/internal/papers"
	"github.com/wisteria-research/wisteria-tui/internal/tasks"
)

// =============================================================================
// TASK SUBMISSION
// =============================================================================
//
// Every operation here is fire-and-forget: Submit returns immediately and
// the callback folds the result into appState on a worker goroutine. The
// render tick picks up the dirty panes on its next pass.

// submitGenerate queues generation of n new hypotheses.
func (m *Model) submitGenerate(n int) {
	state := m.state
	sink := m.opts.Sink
	client := m.opts.LLM
	goal := m.opts.Session.ResearchGoal
	strategies := m.strategySet.PromptAddition() // read now; the set is UI-owned

	state.mu.Lock()
	start := state.nextNumber()
	state.mu.Unlock()

	name := fmt.Sprintf("Generating %d hypotheses", n)
	m.opts.Pool.Submit(name, func(ctx context.Context) (any, error) {
		return client.GenerateHypotheses(ctx, goal, n, start, strategies)
	}, tasks.PriorityHigh, func(t *tasks.Task) {
		if t.Err != nil {
			sink.Set(fmt.Sprintf("Generation failed: %v", t.Err), false, 0)
			return
		}
		hyps := t.Result.([]*model.Hypothesis)

		state.mu.Lock()
		state.addVersions(hyps...)
		state.selectNumber(hyps[0].Number)
		state.markDirty(paneHeader, paneList, paneDetail)
		state.mu.Unlock()

		sink.Set(fmt.Sprintf("Generated %d hypotheses", len(hyps)), false, 0)
	})
}

// submitImprove queues an improvement round for the selected hypothesis.
func (m *Model) submitImprove(h *model.Hypothesis, feedback string) {
	state := m.state
	sink := m.opts.Sink
	client := m.opts.LLM
	goal := m.opts.Session.ResearchGoal

	name := fmt.Sprintf("Improving hypothesis %d", h.Number)
	m.opts.Pool.Submit(name, func(ctx context.Context) (any, error) {
		return client.ImproveHypothesis(ctx, goal, h, feedback)
	}, tasks.PriorityHigh, func(t *tasks.Task) {
		if t.Err != nil {
			sink.Set(fmt.Sprintf("Improvement failed: %v", t.Err), false, 0)
			return
		}
		improved := t.Result.(*model.Hypothesis)

		state.mu.Lock()
		state.addVersions(improved)
		state.selectNumber(improved.Number)
		state.markDirty(paneList, paneDetail)
		state.mu.Unlock()

		sink.Set(fmt.Sprintf("Hypothesis %d improved to v%s", improved.Number, improved.Version), false, 0)
	})
}

// submitScore queues a hallmark scoring pass for the selected hypothesis.
func (m *Model) submitScore(h *model.Hypothesis) {
	state := m.state
	sink := m.opts.Sink
	client := m.opts.LLM

	name := fmt.Sprintf("Scoring hypothesis %d", h.Number)
	m.opts.Pool.Submit(name, func(ctx context.Context) (any, error) {
		return client.ScoreHypothesis(ctx, h)
	}, tasks.PriorityMedium, func(t *tasks.Task) {
		if t.Err != nil {
			sink.Set(fmt.Sprintf("Scoring failed: %v", t.Err), false, 0)
			return
		}
		scores := t.Result.(*model.Scores)

		state.mu.Lock()
		h.Scores = scores
		state.markDirty(paneList, paneDetail)
		state.mu.Unlock()

		sink.Set(fmt.Sprintf("Hypothesis %d scored: %s", h.Number, scores.Summary()), false, 0)
	})
}

// submitFetchPapers queues a reference lookup for the selected hypothesis,
// reporting per-reference progress through the tracker.
func (m *Model) submitFetchPapers(h *model.Hypothesis) {
	if len(h.References) == 0 {
		m.opts.Sink.Set("No references to fetch", false, 0)
		return
	}

	state := m.state
	sink := m.opts.Sink
	tracker := m.opts.Tracker
	pool := m.opts.Pool
	client := m.opts.Papers
	total := len(h.References)

	name := fmt.Sprintf("Fetching papers for hypothesis %d", h.Number)
	// The payload needs its own task ID for progress reporting; hand it
	// over through a buffered channel so the worker can start immediately.
	idCh := make(chan string, 1)
	id := pool.Submit(name, func(ctx context.Context) (any, error) {
		taskID := <-idCh
		tracker.Add(taskID, "papers", total, "Fetching papers")
		defer tracker.Remove(taskID)

		return client.FetchForHypothesis(ctx, h, func(done, total int) {
			tracker.Update(taskID, done, "")
			pool.SetProgress(taskID, float64(done)/float64(total))
		})
	}, tasks.PriorityMedium, func(t *tasks.Task) {
		if t.Err != nil {
			sink.Set(fmt.Sprintf("Paper fetch failed: %v", t.Err), false, 0)
			return
		}
		results := t.Result.([]papers.LookupResult)

		state.mu.Lock()
		for _, r := range results {
			if r.Err != nil || r.Paper == nil {
				continue
			}
			annotateReference(h, r)
		}
		state.markDirty(paneDetail)
		state.mu.Unlock()

		sink.Set(fmt.Sprintf("Fetched %d/%d papers", papers.Fetched(results), total), false, 0)
	})
	idCh <- id
}

// annotateReference folds a successful lookup into the matching reference.
// Callers must hold the state lock.
func annotateReference(h *model.Hypothesis, r papers.LookupResult) {
	idx := r.Index - 1
	if idx < 0 || idx >= len(h.References) {
		return
	}
	p := r.Paper

	var parts []string
	parts = append(parts, "Found: "+p.Title)
	if p.Venue != "" && p.Year > 0 {
		parts = append(parts, fmt.Sprintf("%s %d", p.Venue, p.Year))
	}
	if p.PDFURL != "" {
		parts = append(parts, "PDF: "+p.PDFURL)
	} else if p.URL != "" {
		parts = append(parts, p.URL)
	}
	h.References[idx].Annotation = strings.Join(parts, " - ")
	if p.Abstract != "" {
		h.References[idx].Abstract = p.Abstract
	}
}

// submitSave queues a session save (and archive, when one is open).
func (m *Model) submitSave() {
	sink := m.opts.Sink
	store := m.opts.Store
	archive := m.opts.Archive
	session := m.opts.Session
	state := m.state

	m.opts.Pool.Submit("Saving session", func(ctx context.Context) (any, error) {
		// Snapshot under the lock, write outside it: the render loop and
		// every keypress contend on this mutex, so the disk and sqlite
		// writes must not happen while it is held.
		state.mu.Lock()
		snapshot := session.Clone()
		state.mu.Unlock()

		id, err := store.Save(snapshot)
		if err != nil {
			return nil, err
		}
		if archive != nil {
			if err := archive.PutSession(snapshot); err != nil {
				return nil, err
			}
		}

		// Adopt the identity and timestamps Save assigned to the snapshot.
		state.mu.Lock()
		session.ID = snapshot.ID
		session.CreatedAt = snapshot.CreatedAt
		session.UpdatedAt = snapshot.UpdatedAt
		state.mu.Unlock()
		return id, nil
	}, tasks.PriorityLow, func(t *tasks.Task) {
		if t.Err != nil {
			sink.Set(fmt.Sprintf("Save failed: %v", t.Err), false, 0)
			return
		}
		state.mu.Lock()
		state.markDirty(paneHeader)
		state.mu.Unlock()
		sink.Set(fmt.Sprintf("Session saved as %s", t.Result.(string)), false, 0)
	})
}
