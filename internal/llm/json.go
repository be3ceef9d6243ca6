// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides the HTTP client for OpenAI-compatible generation APIs.
package llm

import (
	"strings"
)

// extractJSON pulls the outermost open..close span out of model output.
// Models often wrap JSON in prose or markdown fences; everything outside
// the first opening and last closing delimiter is discarded.
func extractJSON(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return cleanJSONString(text[start : end+1]), true
}

// cleanJSONString strips control characters that some models emit inside
// string literals and would otherwise break decoding. Newlines and tabs
// become spaces; other C0 controls are dropped.
func cleanJSONString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteByte(' ')
		case r < 0x20:
			// drop
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
