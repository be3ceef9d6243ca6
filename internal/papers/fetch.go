// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package papers

import (
	"context"
	"fmt"

	"github.com/wisteria-research/wisteria-tui/internal/model"
)

// ProgressFunc reports progress through a multi-reference fetch:
// done references completed out of total.
type ProgressFunc func(done, total int)

// FetchForHypothesis looks up the best-matching paper for every
// reference in the hypothesis. Each reference is resolved independently;
// one failed lookup never aborts the rest. The caller decides what to do
// with the results (annotate references, persist abstracts); nothing is
// written here.
//
// progress may be nil. The rate limiter paces requests, so a fetch over
// many references is slow by design.
func (c *Client) FetchForHypothesis(ctx context.Context, h *model.Hypothesis, progress ProgressFunc) ([]LookupResult, error) {
	if len(h.References) == 0 {
		return nil, fmt.Errorf("hypothesis %d has no references", h.Number)
	}

	total := len(h.References)
	results := make([]LookupResult, 0, total)
	for i, ref := range h.References {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		r := LookupResult{Index: i + 1, Citation: ref.Citation}
		if ref.Citation == "" {
			r.Err = fmt.Errorf("reference %d has an empty citation", i+1)
		} else {
			r.Paper, r.Err = c.SearchForReference(ctx, ref.Citation)
			if r.Err == nil && r.Paper == nil {
				r.Err = fmt.Errorf("no papers found for %q", queryFromCitation(ref.Citation))
			}
		}
		results = append(results, r)

		if progress != nil {
			progress(i+1, total)
		}
	}
	return results, nil
}

// Fetched counts the lookups that resolved to a paper.
func Fetched(results []LookupResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil && r.Paper != nil {
			n++
		}
	}
	return n
}
