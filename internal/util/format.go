// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the wisteria TUI.
package util

import (
	"fmt"
	"time"
)

// FormatElapsed renders an elapsed duration for status fragments: whole
// seconds under a minute, tenths of minutes above.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

// FormatETA renders an estimated time remaining, same shape as FormatElapsed.
func FormatETA(d time.Duration) string {
	return FormatElapsed(d)
}
