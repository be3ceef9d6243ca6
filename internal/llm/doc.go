// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides the HTTP client for OpenAI-compatible generation APIs.
//
// The client drives the three model operations wisteria needs: generating
// hypotheses for a research goal, revising one from user feedback, and
// scoring hallmark analyses on a 1-5 scale. Each runs as a background task
// payload; transient failures (connection errors, 429s, 5xx) are retried
// here with exponential backoff because the task engine never retries.
//
// # Usage
//
//	server, _ := cfg.FindModel("local")
//	client := llm.NewClient(server)
//	hyps, err := client.GenerateHypotheses(ctx, goal, 5, 1, "")
//
// Responses are parsed tolerantly: JSON is extracted from surrounding prose
// or markdown fences, and stray control characters are stripped before
// decoding.
package llm
