// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for research hypotheses.
//
// # Key Types
//
//   - Hypothesis: one hypothesis with analysis, references, and history
//   - Hallmarks: per-hallmark analysis paragraphs from generation
//   - Scores: 1-5 hallmark ratings from an AI evaluation pass
//   - Reference: a supporting citation with annotation
//
// # Usage
//
//	h := model.NewHypothesis(1, model.KindOriginal, title, description)
//	h.RecordFeedback("tighten the falsifiable prediction")
//	fmt.Println(h.Label()) // "1. v1.1 ..."
package model
