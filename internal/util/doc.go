// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the wisteria TUI.
//
// # Key Functions
//
// String utilities (width-aware via go-runewidth):
//   - TruncateWidth: display-width truncation with ellipsis
//   - WrapText: word wrapping for pane rendering
//
// Formatting:
//   - FormatElapsed, FormatETA: durations for status line fragments
//
// File operations:
//   - AtomicWriteFile: crash-safe file writing via temp file + rename
package util
