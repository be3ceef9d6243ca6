// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tasks provides the background task engine for long-running operations.
package tasks

import (
	"container/heap"
	"sync"
	"time"
)

// =============================================================================
// PRIORITY QUEUE
// =============================================================================

// poisonPill is the sentinel ID that tells a worker to exit. It is enqueued
// above PriorityCritical so shutdown is prompt even under load.
const poisonPill = ""

// poisonPriority outranks every real priority.
const poisonPriority = PriorityCritical + 1

// queueItem is one pending entry: a task ID plus its ordering keys.
type queueItem struct {
	priority Priority
	seq      uint64 // submission order, breaks ties within a priority band
	id       string
}

// itemHeap orders by priority descending, then submission order ascending
// (FIFO within a priority band, so equal-priority tasks cannot starve).
type itemHeap []queueItem

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) { *h = append(*h, x.(queueItem)) }

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue is an ordered queue of pending task IDs: highest priority first,
// FIFO among equals. Dequeue blocks with a timeout so workers can
// periodically re-check for shutdown.
type Queue struct {
	mu    sync.Mutex
	items itemHeap
	seq   uint64

	// wake signals waiting workers that an item arrived
	wake chan struct{}
}

// NewQueue creates an empty priority queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Enqueue inserts a task ID at the given priority.
func (q *Queue) Enqueue(priority Priority, id string) {
	q.mu.Lock()
	q.seq++
	heap.Push(&q.items, queueItem{priority: priority, seq: q.seq, id: id})
	q.mu.Unlock()
	q.signal()
}

// Dequeue removes and returns the highest-priority, earliest-submitted task
// ID, blocking up to timeout. Returns ok=false if nothing arrived in time.
func (q *Queue) Dequeue(timeout time.Duration) (id string, ok bool) {
	deadline := time.Now().Add(timeout)
	for {
		q.mu.Lock()
		if q.items.Len() > 0 {
			item := heap.Pop(&q.items).(queueItem)
			remaining := q.items.Len() > 0
			q.mu.Unlock()
			if remaining {
				// Pass the wakeup on so a second waiter sees the
				// items we left behind.
				q.signal()
			}
			return item.id, true
		}
		q.mu.Unlock()

		wait := time.Until(deadline)
		if wait <= 0 {
			return "", false
		}
		timer := time.NewTimer(wait)
		select {
		case <-q.wake:
			timer.Stop()
		case <-timer.C:
			return "", false
		}
	}
}

// Len returns the number of pending entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// signal wakes at most one waiting worker without blocking.
func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
