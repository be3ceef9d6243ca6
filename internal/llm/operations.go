// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wisteria-research/wisteria-tui/internal/model"
)

// =============================================================================
// WIRE HYPOTHESIS
// =============================================================================

// wireHypothesis mirrors the JSON structure the prompts ask the model for.
type wireHypothesis struct {
	Title                  string            `json:"title"`
	Description            string            `json:"description"`
	ExperimentalValidation string            `json:"experimental_validation"`
	TheoryAndComputation   string            `json:"theory_and_computation"`
	Hallmarks              model.Hallmarks   `json:"hallmarks"`
	References             []model.Reference `json:"references"`
	ImprovementsMade       string            `json:"improvements_made"`
}

func (w *wireHypothesis) apply(h *model.Hypothesis) {
	h.Title = w.Title
	h.Description = w.Description
	h.ExperimentalValidation = w.ExperimentalValidation
	h.TheoryAndComputation = w.TheoryAndComputation
	h.Hallmarks = w.Hallmarks
	h.References = w.References
	h.ImprovementsMade = w.ImprovementsMade
}

// =============================================================================
// GENERATION
// =============================================================================

// GenerateHypotheses asks the model for n new hypotheses for the research
// goal. Numbering starts at startNumber so additions mid-session continue
// the sequence. strategies is the combined prompt addition from a
// StrategySet ("" for the plain prompt).
func (c *Client) GenerateHypotheses(ctx context.Context, goal string, n, startNumber int, strategies string) ([]*model.Hypothesis, error) {
	user := generationPrompt(goal, n, strategies)
	text, err := c.chat(ctx, generationSystemPrompt, user, &c.config.Temperature)
	if err != nil {
		return nil, err
	}

	raw, ok := extractJSON(text, '[', ']')
	if !ok {
		return nil, ErrInvalidResponse
	}
	var wire []wireHypothesis
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode hypotheses", Cause: err}
	}
	if len(wire) == 0 {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "model returned no hypotheses"}
	}

	kind := model.KindOriginal
	if startNumber > 1 {
		kind = model.KindNew
	}
	result := make([]*model.Hypothesis, 0, len(wire))
	for i := range wire {
		h := model.NewHypothesis(startNumber+i, kind, wire[i].Title, wire[i].Description)
		wire[i].apply(h)
		result = append(result, h)
	}
	return result, nil
}

// ImproveHypothesis produces a revised version of the hypothesis from user
// feedback. The returned hypothesis keeps the original's number and carries
// the feedback in its history with a bumped version.
func (c *Client) ImproveHypothesis(ctx context.Context, goal string, h *model.Hypothesis, feedback string) (*model.Hypothesis, error) {
	user := improvementPrompt(goal, h, feedback)
	text, err := c.chat(ctx, improvementSystemPrompt, user, &c.config.Temperature)
	if err != nil {
		return nil, err
	}

	raw, ok := extractJSON(text, '{', '}')
	if !ok {
		return nil, ErrInvalidResponse
	}
	var wire wireHypothesis
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode improved hypothesis", Cause: err}
	}

	improved := h.Clone()
	wire.apply(improved)
	improved.Scores = nil // a revision needs rescoring
	improved.RecordFeedback(feedback)
	return improved, nil
}

// ScoreHypothesis rates the hypothesis hallmarks 1-5 with a deterministic
// evaluation pass (temperature 0).
func (c *Client) ScoreHypothesis(ctx context.Context, h *model.Hypothesis) (*model.Scores, error) {
	zero := 0.0
	text, err := c.chat(ctx, scoringSystemPrompt, scoringPrompt(h), &zero)
	if err != nil {
		return nil, err
	}

	raw, ok := extractJSON(text, '{', '}')
	if !ok {
		return nil, ErrInvalidResponse
	}
	var scores model.Scores
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode scores", Cause: err}
	}
	if !scores.Valid() {
		return nil, &ClientError{Type: ErrTypeInvalidResponse,
			Message: fmt.Sprintf("scores out of 1-5 range: %+v", scores)}
	}
	return &scores, nil
}
