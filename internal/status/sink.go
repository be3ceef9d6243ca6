// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package status provides the shared status line and progress reporting.
package status

import (
	"sync"
	"time"
)

// =============================================================================
// STATUS SINK
// =============================================================================

// Idle is the string the status line reverts to when a non-persistent
// message times out.
const Idle = "Ready"

// DefaultTimeout is how long a non-persistent message stays visible.
const DefaultTimeout = 3 * time.Second

// Sink is the single process-wide status line. Any component may publish to
// it; the render loop reads it verbatim on every frame.
//
// Timeouts are evaluated lazily on read rather than by a timer: Current
// reverts an expired non-persistent message to Idle as a side effect. This
// is correct as long as the UI polls more often than the shortest timeout,
// which it does (the render tick is well under a second).
type Sink struct {
	mu         sync.Mutex
	message    string
	setAt      time.Time
	persistent bool
	timeout    time.Duration

	// defaultTimeout applies when Set is called with timeout <= 0
	defaultTimeout time.Duration

	// now is injectable so timeout behavior is testable without sleeping
	now func() time.Time
}

// NewSink creates a status sink showing the idle message.
func NewSink() *Sink {
	return NewSinkWithTimeout(DefaultTimeout)
}

// NewSinkWithTimeout creates a sink whose non-persistent messages expire
// after d by default (DefaultTimeout when d <= 0). Individual Set calls may
// still override per message.
func NewSinkWithTimeout(d time.Duration) *Sink {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &Sink{
		message:        Idle,
		defaultTimeout: d,
		now:            time.Now,
	}
}

// Set publishes a status message. Persistent messages stay until replaced;
// others revert to Idle once timeout has elapsed (the sink's configured
// default if zero).
func (s *Sink) Set(message string, persistent bool, timeout time.Duration) {
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	s.setAt = s.now()
	s.persistent = persistent
	s.timeout = timeout
}

// Current returns the status line to display. Non-blocking; expires stale
// non-persistent messages as described on Sink.
func (s *Sink) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.persistent && !s.setAt.IsZero() && s.now().Sub(s.setAt) > s.timeout {
		s.message = Idle
		s.setAt = time.Time{}
	}
	return s.message
}

// ClearOnAction resets a non-persistent message to Idle. Called when the
// user performs an action that makes the old message stale.
func (s *Sink) ClearOnAction() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.persistent {
		s.message = Idle
		s.setAt = time.Time{}
	}
}
