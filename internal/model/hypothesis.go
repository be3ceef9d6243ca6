// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for research hypotheses.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// HYPOTHESIS TYPES
// =============================================================================

// Kind describes how a hypothesis entered the session.
type Kind string

const (
	// KindOriginal is a hypothesis from the initial generation round
	KindOriginal Kind = "original"

	// KindImprovement is a revision produced from user feedback
	KindImprovement Kind = "improvement"

	// KindNew is an additional hypothesis generated mid-session
	KindNew Kind = "new"
)

// Reference is one citation supporting a hypothesis.
type Reference struct {
	// Citation in roughly APA form: Author (Year). Title. Journal.
	Citation string `json:"citation"`

	// Annotation explains how the reference relates to the hypothesis
	Annotation string `json:"annotation"`

	// Abstract of the looked-up paper, filled in by a fetch. Persisted
	// with the session so fetched literature stays readable offline.
	Abstract string `json:"abstract,omitempty"`
}

// Hallmarks holds the model's analysis of the hypothesis against the five
// hallmarks of a strong scientific hypothesis, one paragraph each.
type Hallmarks struct {
	Testability       string `json:"testability"`
	Specificity       string `json:"specificity"`
	GroundedKnowledge string `json:"grounded_knowledge"`
	PredictivePower   string `json:"predictive_power"`
	Parsimony         string `json:"parsimony"`
}

// Scores holds 1-5 hallmark ratings from an AI evaluation pass.
type Scores struct {
	Testability       int `json:"testability"`
	Specificity       int `json:"specificity"`
	GroundedKnowledge int `json:"grounded_knowledge"`
	PredictivePower   int `json:"predictive_power"`
	Parsimony         int `json:"parsimony"`
}

// Average returns the mean of the five hallmark scores.
func (s Scores) Average() float64 {
	sum := s.Testability + s.Specificity + s.GroundedKnowledge + s.PredictivePower + s.Parsimony
	return float64(sum) / 5.0
}

// Summary renders the scores for status lines and exports,
// e.g. "T:4 S:3 G:5 P:4 Pa:2 (avg 3.6)".
func (s Scores) Summary() string {
	return fmt.Sprintf("T:%d S:%d G:%d P:%d Pa:%d (avg %.1f)",
		s.Testability, s.Specificity, s.GroundedKnowledge, s.PredictivePower, s.Parsimony, s.Average())
}

// Valid reports whether every score is in the 1-5 range.
func (s Scores) Valid() bool {
	for _, v := range []int{s.Testability, s.Specificity, s.GroundedKnowledge, s.PredictivePower, s.Parsimony} {
		if v < 1 || v > 5 {
			return false
		}
	}
	return true
}

// FeedbackEntry records one round of user feedback on a hypothesis.
type FeedbackEntry struct {
	Feedback  string    `json:"feedback"`
	Timestamp time.Time `json:"timestamp"`

	// Version the feedback produced (the post-improvement version)
	Version string `json:"version"`
}

// =============================================================================
// HYPOTHESIS
// =============================================================================

// Hypothesis is one research hypothesis with its analysis, references,
// score, and improvement history.
type Hypothesis struct {
	// Number groups versions of the same hypothesis in a session; Version
	// distinguishes revisions within the group ("1.0", "1.1", ...)
	Number  int    `json:"number"`
	Version string `json:"version"`
	Kind    Kind   `json:"type"`

	Title                  string `json:"title"`
	Description            string `json:"description"`
	ExperimentalValidation string `json:"experimental_validation"`
	TheoryAndComputation   string `json:"theory_and_computation,omitempty"`

	Hallmarks  Hallmarks   `json:"hallmarks"`
	References []Reference `json:"references"`

	// Scores is nil until an evaluation pass has run
	Scores *Scores `json:"scores,omitempty"`

	// ImprovementsMade summarizes what changed in this revision
	ImprovementsMade string `json:"improvements_made,omitempty"`

	FeedbackHistory []FeedbackEntry `json:"feedback_history,omitempty"`

	// Notes are free-text user annotations, never touched by the model
	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewHypothesis creates a first-version hypothesis of the given kind.
func NewHypothesis(number int, kind Kind, title, description string) *Hypothesis {
	now := time.Now()
	return &Hypothesis{
		Number:      number,
		Version:     "1.0",
		Kind:        kind,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Label returns the display label for list panes, e.g. "3. v1.2 Title".
func (h *Hypothesis) Label() string {
	return fmt.Sprintf("%d. v%s %s", h.Number, h.Version, h.Title)
}

// RecordFeedback appends a feedback round and bumps the version.
func (h *Hypothesis) RecordFeedback(feedback string) {
	h.Version = BumpVersion(h.Version)
	h.Kind = KindImprovement
	h.UpdatedAt = time.Now()
	h.FeedbackHistory = append(h.FeedbackHistory, FeedbackEntry{
		Feedback:  feedback,
		Timestamp: h.UpdatedAt,
		Version:   h.Version,
	})
}

// Clone returns a deep copy of the hypothesis.
func (h *Hypothesis) Clone() *Hypothesis {
	clone := *h
	clone.References = append([]Reference(nil), h.References...)
	clone.FeedbackHistory = append([]FeedbackEntry(nil), h.FeedbackHistory...)
	if h.Scores != nil {
		scores := *h.Scores
		clone.Scores = &scores
	}
	return &clone
}

// BumpVersion increments the minor part of a "major.minor" version string.
// Unparseable versions restart at "1.1".
func BumpVersion(version string) string {
	parts := strings.SplitN(version, ".", 2)
	if len(parts) == 2 {
		major, errMajor := strconv.Atoi(parts[0])
		minor, errMinor := strconv.Atoi(parts[1])
		if errMajor == nil && errMinor == nil {
			return fmt.Sprintf("%d.%d", major, minor+1)
		}
	}
	return "1.1"
}
