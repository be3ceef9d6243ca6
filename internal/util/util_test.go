// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTruncateWidth(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"tiny width", "hello", 2, "he"},
		{"zero width", "hello", 0, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateWidth(tc.input, tc.maxWidth); got != tc.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tc.input, tc.maxWidth, got, tc.want)
			}
		})
	}
}

func TestTruncateWidthCJK(t *testing.T) {
	// Double-width characters: four columns of text in a five-column budget.
	got := TruncateWidth("日本語のテスト", 5)
	if StringWidth(got) > 5 {
		t.Errorf("TruncateWidth produced width %d, want <= 5", StringWidth(got))
	}
}

func TestWrapText(t *testing.T) {
	lines := WrapText("the quick brown fox jumps over the lazy dog", 10)
	for _, line := range lines {
		if StringWidth(line) > 10 {
			t.Errorf("line %q exceeds width 10", line)
		}
	}
	if len(lines) < 4 {
		t.Errorf("expected at least 4 lines, got %d: %v", len(lines), lines)
	}
}

func TestWrapTextLongWord(t *testing.T) {
	lines := WrapText("antidisestablishmentarianism", 10)
	if len(lines) < 3 {
		t.Errorf("long word should be split across lines, got %v", lines)
	}
	for _, line := range lines {
		if StringWidth(line) > 10 {
			t.Errorf("line %q exceeds width 10", line)
		}
	}
}

func TestWrapTextPreservesParagraphs(t *testing.T) {
	lines := WrapText("first\n\nsecond", 20)
	want := []string{"first", "", "second"}
	if len(lines) != len(want) {
		t.Fatalf("WrapText = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{59 * time.Second, "59s"},
		{90 * time.Second, "1.5m"},
		{-time.Second, "0s"},
	}

	for _, tc := range cases {
		if got := FormatElapsed(tc.d); got != tc.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	if err := AtomicWriteFile(path, []byte("payload"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q, want 'payload'", data)
	}

	// Overwrite must replace, not append.
	if err := AtomicWriteFile(path, []byte("v2"), 0644); err != nil {
		t.Fatalf("second AtomicWriteFile failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "v2" {
		t.Errorf("content after overwrite = %q, want 'v2'", data)
	}
}
