// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package papers

import (
	"regexp"
	"strings"
)

// citationInfo holds the parts recoverable from a free-text citation.
type citationInfo struct {
	Author  string
	Title   string
	Year    string
	Journal string
}

var yearRe = regexp.MustCompile(`\((\d{4})\)`)

// parseCitation extracts author, title, and year from an
// "Author. (Year). Title. Journal." style citation. Best effort; absent
// parts come back empty.
func parseCitation(citation string) citationInfo {
	var info citationInfo

	if m := yearRe.FindStringSubmatch(citation); m != nil {
		info.Year = m[1]
	}

	parts := strings.Split(citation, ".")
	if len(parts) < 3 {
		return info
	}
	info.Author = strings.TrimSpace(parts[0])

	// The title usually follows the part containing the year.
	if info.Year != "" {
		for i, part := range parts {
			if strings.Contains(part, info.Year) && i+1 < len(parts) {
				info.Title = strings.TrimSpace(parts[i+1])
				if i+2 < len(parts) {
					info.Journal = strings.TrimSpace(parts[i+2])
				}
				break
			}
		}
	}
	if info.Title == "" && len(parts) > 1 {
		info.Title = strings.TrimSpace(parts[1])
		if len(parts) > 2 {
			info.Journal = strings.TrimSpace(parts[2])
		}
	}
	return info
}

// queryFromCitation picks the best search query for a citation: the
// title when one was recovered, author plus year otherwise, falling back
// to a prefix of the raw string.
func queryFromCitation(citation string) string {
	info := parseCitation(citation)
	if info.Title != "" {
		return info.Title
	}
	if q := strings.TrimSpace(info.Author + " " + info.Year); q != "" {
		return q
	}
	fallback := strings.TrimSpace(citation)
	if len(fallback) > 50 {
		fallback = fallback[:50]
	}
	return strings.TrimSpace(fallback)
}
