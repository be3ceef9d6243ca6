// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package status provides the shared status line and progress reporting.
//
// The status line is a single process-wide string shown at the bottom of
// the TUI. Anything may publish to it through the Sink; the render loop
// reads it verbatim every frame. Non-persistent messages expire back to
// "Ready" after a timeout, evaluated lazily on read.
//
// # Key Types
//
//   - Sink: the status line itself, with persistence and timeout policy
//   - Tracker: registry of item-counted progress operations
//   - Publisher: periodic aggregator of running tasks and progress
//     operations into one combined, persistent status line
//
// # Usage
//
//	sink := status.NewSink()
//	tracker := status.NewTracker()
//	pub := status.NewPublisher(pool, tracker, sink, 0)
//	pub.Start()
//	defer pub.Stop()
//
//	sink.Set("Session saved", false, 0) // auto-clears after 3s
//
//	tracker.Add(opID, "scoring", 5, "Scoring hypotheses")
//	tracker.Update(opID, 2, "")
//	tracker.Remove(opID)
package status
