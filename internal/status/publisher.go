// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package status provides the shared status line and progress reporting.
package status

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wisteria-research/wisteria-tui/internal/tasks"
	"github.com/wisteria-research/wisteria-tui/internal/util"
)

// =============================================================================
// PROGRESS PUBLISHER
// =============================================================================

// DefaultInterval is the publisher tick period.
const DefaultInterval = 400 * time.Millisecond

// RunningSource supplies snapshots of in-flight tasks. Satisfied by
// *tasks.Pool.
type RunningSource interface {
	Running() map[string]*tasks.Task
}

// Publisher periodically aggregates in-flight task state and item-counted
// progress operations into a single status line. It runs on its own timer,
// independent of both the render loop and the workers.
//
// While anything is running the published line is persistent, so the
// timeout-based reversion to Idle cannot erase it mid-operation. When
// nothing is running the publisher leaves the status untouched, letting a
// just-set one-shot message live out its timeout window.
type Publisher struct {
	source   RunningSource
	tracker  *Tracker
	sink     *Sink
	interval time.Duration

	stop chan struct{}
	done chan struct{}

	now func() time.Time
}

// NewPublisher creates a publisher over the given task source, progress
// tracker, and sink. Interval defaults to DefaultInterval when zero.
func NewPublisher(source RunningSource, tracker *Tracker, sink *Sink, interval time.Duration) *Publisher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Publisher{
		source:   source,
		tracker:  tracker,
		sink:     sink,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Start launches the publisher goroutine.
func (p *Publisher) Start() {
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				p.publish()
			}
		}
	}()
}

// Stop halts the publisher and waits for its goroutine to exit.
func (p *Publisher) Stop() {
	close(p.stop)
	<-p.done
}

// publish builds and sets the combined status line for this tick.
func (p *Publisher) publish() {
	now := p.now()

	running := p.source.Running()
	ops := p.tracker.Snapshot()
	if len(running) == 0 && len(ops) == 0 {
		return
	}

	var fragments []string

	// Simple running tasks show elapsed time only. Sorted by start time so
	// the line is stable from tick to tick.
	tasksByStart := make([]*tasks.Task, 0, len(running))
	for _, t := range running {
		tasksByStart = append(tasksByStart, t)
	}
	sort.Slice(tasksByStart, func(i, j int) bool {
		if !tasksByStart[i].StartedAt.Equal(tasksByStart[j].StartedAt) {
			return tasksByStart[i].StartedAt.Before(tasksByStart[j].StartedAt)
		}
		return tasksByStart[i].ID < tasksByStart[j].ID
	})
	for _, t := range tasksByStart {
		fragments = append(fragments, fmt.Sprintf("%s (%s)", t.Name, util.FormatElapsed(now.Sub(t.StartedAt))))
	}

	// Item-counted operations show percentage and, once the rate is known,
	// an ETA extrapolated from the per-item pace so far.
	opIDs := make([]string, 0, len(ops))
	for id := range ops {
		opIDs = append(opIDs, id)
	}
	sort.Slice(opIDs, func(i, j int) bool {
		a, b := ops[opIDs[i]], ops[opIDs[j]]
		if !a.StartedAt.Equal(b.StartedAt) {
			return a.StartedAt.Before(b.StartedAt)
		}
		return opIDs[i] < opIDs[j]
	})
	for _, id := range opIDs {
		fragments = append(fragments, formatOperation(ops[id], now))
	}

	p.sink.Set(strings.Join(fragments, " | "), true, 0)
}

// formatOperation renders one progress operation fragment.
func formatOperation(op Operation, now time.Time) string {
	elapsed := now.Sub(op.StartedAt)

	if op.Total <= 1 {
		return fmt.Sprintf("%s (%s)", op.Message, util.FormatElapsed(elapsed))
	}

	percent := 0.0
	if op.Total > 0 {
		percent = float64(op.Current) / float64(op.Total) * 100
	}

	if op.Current > 0 && elapsed > 0 {
		perItem := elapsed / time.Duration(op.Current)
		eta := perItem * time.Duration(op.Total-op.Current)
		return fmt.Sprintf("%s (%d/%d) %.0f%% - ETA: %s",
			op.Message, op.Current, op.Total, percent, util.FormatETA(eta))
	}
	return fmt.Sprintf("%s (%d/%d) %.0f%%", op.Message, op.Current, op.Total, percent)
}
