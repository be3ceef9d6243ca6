// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package status

import (
	"testing"
	"time"
)

// fakeClock is a controllable time source for timeout tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestSinkStartsIdle(t *testing.T) {
	sink := NewSink()
	if got := sink.Current(); got != Idle {
		t.Errorf("Current() = %q, want %q", got, Idle)
	}
}

func TestSinkNonPersistentTimesOut(t *testing.T) {
	clock := newFakeClock()
	sink := NewSink()
	sink.now = clock.now

	sink.Set("X", false, 100*time.Millisecond)
	if got := sink.Current(); got != "X" {
		t.Errorf("Current() = %q before timeout, want 'X'", got)
	}

	clock.advance(200 * time.Millisecond)
	if got := sink.Current(); got != Idle {
		t.Errorf("Current() = %q after timeout, want %q", got, Idle)
	}
}

func TestSinkPersistentSurvivesTimeout(t *testing.T) {
	clock := newFakeClock()
	sink := NewSink()
	sink.now = clock.now

	sink.Set("X", true, 100*time.Millisecond)
	clock.advance(200 * time.Millisecond)

	if got := sink.Current(); got != "X" {
		t.Errorf("Current() = %q, want persistent 'X'", got)
	}
}

func TestSinkTimeoutWithRealClock(t *testing.T) {
	sink := NewSink()

	sink.Set("X", false, 100*time.Millisecond)
	time.Sleep(200 * time.Millisecond)

	if got := sink.Current(); got != Idle {
		t.Errorf("Current() = %q after sleeping past timeout, want %q", got, Idle)
	}
}

func TestSinkDefaultTimeout(t *testing.T) {
	clock := newFakeClock()
	sink := NewSink()
	sink.now = clock.now

	// Zero timeout falls back to the default, not instant expiry.
	sink.Set("X", false, 0)
	clock.advance(DefaultTimeout / 2)
	if got := sink.Current(); got != "X" {
		t.Errorf("Current() = %q halfway through default timeout, want 'X'", got)
	}

	clock.advance(DefaultTimeout)
	if got := sink.Current(); got != Idle {
		t.Errorf("Current() = %q past default timeout, want %q", got, Idle)
	}
}

func TestSinkConfiguredTimeout(t *testing.T) {
	clock := newFakeClock()
	sink := NewSinkWithTimeout(50 * time.Millisecond)
	sink.now = clock.now

	// Zero-timeout Set calls honor the configured default, not the
	// built-in one.
	sink.Set("X", false, 0)
	clock.advance(100 * time.Millisecond)
	if got := sink.Current(); got != Idle {
		t.Errorf("Current() = %q past configured timeout, want %q", got, Idle)
	}

	// An explicit per-message timeout still wins.
	sink.Set("Y", false, time.Hour)
	clock.advance(time.Minute)
	if got := sink.Current(); got != "Y" {
		t.Errorf("Current() = %q, explicit timeout should override the default", got)
	}
}

func TestSinkConfiguredTimeoutNonPositive(t *testing.T) {
	sink := NewSinkWithTimeout(0)
	if sink.defaultTimeout != DefaultTimeout {
		t.Errorf("defaultTimeout = %v, want %v", sink.defaultTimeout, DefaultTimeout)
	}
}

func TestSinkClearOnAction(t *testing.T) {
	sink := NewSink()

	sink.Set("transient", false, time.Hour)
	sink.ClearOnAction()
	if got := sink.Current(); got != Idle {
		t.Errorf("Current() = %q after ClearOnAction, want %q", got, Idle)
	}

	sink.Set("sticky", true, time.Hour)
	sink.ClearOnAction()
	if got := sink.Current(); got != "sticky" {
		t.Errorf("Current() = %q, persistent message should survive ClearOnAction", got)
	}
}

func TestSinkReplacingMessageResetsTimeout(t *testing.T) {
	clock := newFakeClock()
	sink := NewSink()
	sink.now = clock.now

	sink.Set("first", false, time.Second)
	clock.advance(900 * time.Millisecond)
	sink.Set("second", false, time.Second)
	clock.advance(500 * time.Millisecond)

	if got := sink.Current(); got != "second" {
		t.Errorf("Current() = %q, want 'second' (timeout restarts on Set)", got)
	}
}
