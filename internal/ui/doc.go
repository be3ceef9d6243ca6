// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the Bubble Tea application for wisteria.
//
// The root Model composes four panes: a header, the hypothesis list, the
// hypothesis detail, and the status bar. A fixed render tick (default
// 150ms) re-reads the published status line and the running-task count;
// each pane carries a dirty flag and only dirty panes are re-rendered, so
// an idle screen costs almost nothing per tick.
//
// Key presses never block: every model operation is submitted to the task
// engine and its callback mutates the shared appState under one mutex,
// marking the affected panes dirty for the next tick to pick up.
package ui
