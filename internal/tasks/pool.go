// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tasks provides the background task engine for long-running operations.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// WORKER POOL
// =============================================================================

// DefaultWorkers is the worker count used when Start is given zero.
const DefaultWorkers = 3

// dequeueTimeout bounds how long an idle worker blocks before re-checking
// for shutdown.
const dequeueTimeout = 1 * time.Second

// Pool runs submitted tasks on a fixed set of worker goroutines and is the
// single source of truth for task status queries.
//
// One engine-wide mutex guards the task registry, so compound operations
// (read a status, then decide) cannot lose updates to a concurrent
// transition. Results and errors never propagate out of a worker: a failing
// payload marks its task Failed, a failing callback is recorded on the task,
// and the pool keeps processing.
type Pool struct {
	mu    sync.Mutex
	queue *Queue
	tasks map[string]*Task

	workers int
	started bool
	stopped atomic.Bool
	wg      sync.WaitGroup
}

// NewPool creates a pool. Tasks may be submitted and cancelled before
// Start is called; they stay Pending until a worker claims them.
func NewPool() *Pool {
	return &Pool{
		queue: NewQueue(),
		tasks: make(map[string]*Task),
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start launches n worker goroutines (DefaultWorkers if n <= 0).
// Calling Start on a running pool is a no-op.
func (p *Pool) Start(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	if n <= 0 {
		n = DefaultWorkers
	}
	p.started = true
	p.workers = n
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop shuts the pool down cooperatively: one poison pill per worker is
// enqueued above every real priority, workers finish their current task and
// exit, and Stop returns once all have. Tasks still Pending are never
// executed and keep their Pending status.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped.Load() {
		p.mu.Unlock()
		return
	}
	workers := p.workers
	p.mu.Unlock()

	p.stopped.Store(true)
	for i := 0; i < workers; i++ {
		p.queue.Enqueue(poisonPriority, poisonPill)
	}
	p.wg.Wait()
}

// =============================================================================
// SUBMISSION AND CONTROL
// =============================================================================

// Submit registers a task and enqueues it. It never blocks: the returned ID
// can be polled with Get while the task runs in the background. The callback,
// if any, runs on a worker goroutine after the task reaches a terminal state.
func (p *Pool) Submit(name string, payload Payload, priority Priority, callback Callback) string {
	task := newTask(name, payload, priority, callback)

	p.mu.Lock()
	p.tasks[task.ID] = task
	p.mu.Unlock()

	p.queue.Enqueue(priority, task.ID)
	return task.ID
}

// Get returns a snapshot of the task, or nil if the ID is unknown.
func (p *Pool) Get(id string) *Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	if task, ok := p.tasks[id]; ok {
		return task.snapshot()
	}
	return nil
}

// Cancel marks a Pending task Cancelled and reports whether it succeeded.
// A task already claimed by a worker runs to completion; there is no
// mechanism to interrupt a running payload, and the rejected request is a
// normal false return, not an error.
func (p *Pool) Cancel(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	task, ok := p.tasks[id]
	if !ok || task.Status != StatusPending {
		return false
	}
	task.Status = StatusCancelled
	task.CompletedAt = time.Now()
	return true
}

// SetProgress updates a running task's progress, clamped to [0, 1].
// Intended for payloads that can estimate their own completion.
func (p *Pool) SetProgress(id string, progress float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	task, ok := p.tasks[id]
	if !ok || task.Status != StatusRunning {
		return
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	task.Progress = progress
}

// =============================================================================
// QUERIES
// =============================================================================

// All returns a snapshot of every task in the registry.
func (p *Pool) All() map[string]*Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make(map[string]*Task, len(p.tasks))
	for id, task := range p.tasks {
		result[id] = task.snapshot()
	}
	return result
}

// Running returns a snapshot of tasks currently being executed.
func (p *Pool) Running() map[string]*Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make(map[string]*Task)
	for id, task := range p.tasks {
		if task.Status == StatusRunning {
			result[id] = task.snapshot()
		}
	}
	return result
}

// RunningCount returns the number of tasks currently being executed.
func (p *Pool) RunningCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for _, task := range p.tasks {
		if task.Status == StatusRunning {
			count++
		}
	}
	return count
}

// Summary returns a formatted summary of the registry.
func (p *Pool) Summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var pending, running, completed, failed int
	for _, task := range p.tasks {
		switch task.Status {
		case StatusPending:
			pending++
		case StatusRunning:
			running++
		case StatusCompleted:
			completed++
		case StatusFailed:
			failed++
		}
	}
	return fmt.Sprintf("Running: %d | Pending: %d | Completed: %d | Failed: %d",
		running, pending, completed, failed)
}

// CleanupCompleted removes terminal records older than maxAge. This is the
// only way records leave the registry; normal execution never deletes them.
func (p *Pool) CleanupCompleted(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)

	p.mu.Lock()
	defer p.mu.Unlock()

	for id, task := range p.tasks {
		if task.Status.Terminal() && !task.CompletedAt.IsZero() && task.CompletedAt.Before(cutoff) {
			delete(p.tasks, id)
		}
	}
}

// =============================================================================
// WORKER LOOP
// =============================================================================

// worker dequeues and executes tasks until it consumes a poison pill.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		id, ok := p.queue.Dequeue(dequeueTimeout)
		if !ok {
			if p.stopped.Load() {
				return
			}
			continue
		}
		if id == poisonPill {
			return
		}

		// Claim the task. Cancelled or swept entries are skipped without
		// touching timestamps or callbacks.
		p.mu.Lock()
		task, exists := p.tasks[id]
		if !exists || task.Status != StatusPending {
			p.mu.Unlock()
			continue
		}
		task.Status = StatusRunning
		task.StartedAt = time.Now()
		payload := task.payload
		callback := task.callback
		p.mu.Unlock()

		result, err := runPayload(payload)

		p.mu.Lock()
		if err != nil {
			task.Status = StatusFailed
			task.Err = err
		} else {
			task.Status = StatusCompleted
			task.Result = result
			task.Progress = 1.0
		}
		task.CompletedAt = time.Now()
		snapshot := task.snapshot()
		p.mu.Unlock()

		if callback != nil {
			if cbErr := runCallback(callback, snapshot); cbErr != nil {
				// Isolation boundary: a faulty callback must not kill the
				// worker. The error is kept on the record for diagnosis.
				p.mu.Lock()
				task.CallbackErr = cbErr
				p.mu.Unlock()
			}
		}
	}
}

// runPayload invokes the task body, converting panics into errors so one bad
// task cannot take down a worker.
func runPayload(payload Payload) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return payload(context.Background())
}

// runCallback invokes a completion callback, converting panics into errors.
func runCallback(callback Callback, task *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panicked: %v", r)
		}
	}()
	callback(task)
	return nil
}
