// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package papers looks up supporting literature on Semantic Scholar.
//
// Each hypothesis carries plain-text citations from the generation model;
// this package parses them into search queries (author, year, title
// heuristics), queries the graph API with client-side rate limiting, and
// returns per-reference results so one failed lookup never aborts the rest.
//
// # Usage
//
//	client := papers.NewClient(cfg.Papers)
//	results, err := client.FetchForHypothesis(ctx, hyp, func(done, total int) {
//		// progress tick
//	})
//
// An API key is optional; when the configured environment variable is set
// it is sent as the x-api-key header for higher rate limits.
package papers
