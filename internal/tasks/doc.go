// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tasks provides the background task engine for long-running operations.
//
// The engine runs latency-variable work (LLM calls, paper lookups, scoring)
// off the render loop on a fixed pool of workers, ordered by priority with
// FIFO fairness inside each priority band. Task lifecycle is tracked in a
// registry guarded by one engine-wide lock, and completion callbacks fold
// results back into application state on the worker goroutine.
//
// # Key Types
//
//   - Pool: worker pool, task registry, and submission surface
//   - Task: one unit of background work with identity, priority, and lifecycle
//   - Queue: priority queue of pending task IDs with blocking dequeue
//   - Priority: Low, Medium, High, Critical
//   - Status: Pending, Running, Completed, Failed, Cancelled
//
// # Usage
//
// Create a pool, start workers, and submit work:
//
//	pool := tasks.NewPool()
//	pool.Start(3)
//	id := pool.Submit("Generating hypothesis", func(ctx context.Context) (any, error) {
//	    return client.GenerateHypotheses(ctx, goal, 1, 1, "")
//	}, tasks.PriorityHigh, func(t *tasks.Task) {
//	    // runs on a worker goroutine after the task finishes
//	})
//
// Poll status without blocking:
//
//	if t := pool.Get(id); t != nil && t.Status.Terminal() { ... }
//
// # Isolation
//
// Payload errors and panics mark the task Failed and never escape the
// worker. Callback panics are recorded on the task's CallbackErr field and
// likewise swallowed. Shutdown is cooperative: Stop lets in-flight payloads
// finish and abandons still-Pending tasks silently.
package tasks
