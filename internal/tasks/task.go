// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tasks provides the background task engine for long-running operations.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// PRIORITY
// =============================================================================

// Priority determines dequeue order: higher priorities run first.
type Priority int

const (
	// PriorityLow is for deferrable work such as session autosaves
	PriorityLow Priority = 1

	// PriorityMedium is the default for most background operations
	PriorityMedium Priority = 2

	// PriorityHigh is for operations the user is actively waiting on
	PriorityHigh Priority = 3

	// PriorityCritical preempts all other pending work
	PriorityCritical Priority = 4
)

// String returns the display name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// =============================================================================
// STATUS
// =============================================================================

// Status represents the current state of a background task.
//
// Transitions are monotonic: Pending -> Running -> Completed/Failed, or
// Pending -> Cancelled. Terminal states are never left.
type Status string

const (
	// StatusPending indicates the task is queued and has not started
	StatusPending Status = "Pending"

	// StatusRunning indicates a worker is executing the payload
	StatusRunning Status = "Running"

	// StatusCompleted indicates the payload returned normally
	StatusCompleted Status = "Completed"

	// StatusFailed indicates the payload returned an error or panicked
	StatusFailed Status = "Failed"

	// StatusCancelled indicates the task was cancelled before it started
	StatusCancelled Status = "Cancelled"
)

// String returns the string representation of the task status.
func (s Status) String() string {
	return string(s)
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// =============================================================================
// TASK
// =============================================================================

// Payload is the body of a background task. The context it receives is never
// cancelled mid-run: a running task always runs to completion. Payloads that
// need retries embed their own backoff; the engine never retries.
type Payload func(ctx context.Context) (any, error)

// Callback is invoked on a worker goroutine once its task reaches a terminal
// state. It receives a snapshot of the task, never the live record.
type Callback func(*Task)

// Task represents one submitted unit of background work.
//
// The live record is owned by the Pool and mutated only under the pool's
// lock. Accessors on the Pool return snapshots, so fields here carry no
// locking of their own.
type Task struct {
	// ID is a process-unique identifier, assigned at submission
	ID string

	// Name is a human-readable label shown in status output; not unique
	Name string

	// Priority controls dequeue order relative to other pending tasks
	Priority Priority

	// Status is the current lifecycle state
	Status Status

	// Result is set exactly when Status is Completed
	Result any

	// Err is set exactly when Status is Failed
	Err error

	// CallbackErr records an error swallowed while running the callback.
	// The task's own status is unaffected by callback failures.
	CallbackErr error

	// Progress is in [0, 1]; forced to 1 on completion. Many tasks never
	// update it and stay at 0 until they finish.
	Progress float64

	// CreatedAt is set at submission
	CreatedAt time.Time

	// StartedAt is set when a worker claims the task
	StartedAt time.Time

	// CompletedAt is set on any terminal transition
	CompletedAt time.Time

	// payload and callback are captured at submission and owned by the
	// record until execution completes
	payload  Payload
	callback Callback
}

// newTask creates a pending task record for submission.
func newTask(name string, payload Payload, priority Priority, callback Callback) *Task {
	return &Task{
		ID:        uuid.New().String(),
		Name:      name,
		Priority:  priority,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		payload:   payload,
		callback:  callback,
	}
}

// snapshot returns a copy of the task without the payload or callback.
// Must be called with the pool lock held.
func (t *Task) snapshot() *Task {
	return &Task{
		ID:          t.ID,
		Name:        t.Name,
		Priority:    t.Priority,
		Status:      t.Status,
		Result:      t.Result,
		Err:         t.Err,
		CallbackErr: t.CallbackErr,
		Progress:    t.Progress,
		CreatedAt:   t.CreatedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}

// Duration returns how long the task has been running or took to complete.
func (t *Task) Duration() time.Duration {
	if t.StartedAt.IsZero() {
		return 0
	}
	if t.CompletedAt.IsZero() {
		return time.Since(t.StartedAt)
	}
	return t.CompletedAt.Sub(t.StartedAt)
}

// Summary returns a one-line summary of the task.
func (t *Task) Summary() string {
	summary := fmt.Sprintf("[%s] %s - %s", t.ID[:8], t.Name, t.Status)
	if d := t.Duration(); d > 0 {
		summary += fmt.Sprintf(" (%.1fs)", d.Seconds())
	}
	return summary
}
