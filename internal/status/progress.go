// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package status provides the shared status line and progress reporting.
package status

import (
	"sync"
	"time"
)

// =============================================================================
// PROGRESS OPERATIONS
// =============================================================================

// Operation is one named long-running operation with a known item count,
// for callers that want finer-grained progress than the task lifecycle
// offers (e.g. "Scoring hypothesis 3/5"). Operations are ephemeral: the
// code driving one adds it, updates it, and removes it when done.
type Operation struct {
	// Kind labels the operation category (e.g. "scoring", "fetching")
	Kind string

	// Current is the number of items finished so far
	Current int

	// Total is the number of items the operation will process
	Total int

	// Message is free text shown alongside the counts
	Message string

	// StartedAt anchors elapsed-time and ETA computation
	StartedAt time.Time
}

// Tracker is a thread-safe registry of in-flight progress operations,
// consumed by the Publisher on each tick.
type Tracker struct {
	mu  sync.Mutex
	ops map[string]*Operation

	now func() time.Time
}

// NewTracker creates an empty progress tracker.
func NewTracker() *Tracker {
	return &Tracker{
		ops: make(map[string]*Operation),
		now: time.Now,
	}
}

// Add registers a new operation under the given ID.
func (t *Tracker) Add(id, kind string, total int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ops[id] = &Operation{
		Kind:      kind,
		Total:     total,
		Message:   message,
		StartedAt: t.now(),
	}
}

// Update advances an operation's counter and optionally replaces its
// message. Unknown IDs are ignored.
func (t *Tracker) Update(id string, current int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	op, ok := t.ops[id]
	if !ok {
		return
	}
	op.Current = current
	if message != "" {
		op.Message = message
	}
}

// Remove deletes a finished operation.
func (t *Tracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ops, id)
}

// Snapshot returns a defensive copy of all operations.
func (t *Tracker) Snapshot() map[string]Operation {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make(map[string]Operation, len(t.ops))
	for id, op := range t.ops {
		result[id] = *op
	}
	return result
}

// Len returns the number of in-flight operations.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ops)
}
