// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides the HTTP client for OpenAI-compatible generation APIs.
package llm

import (
	"fmt"
	"strings"

	"github.com/wisteria-research/wisteria-tui/internal/model"
)

// =============================================================================
// PROMPTS
// =============================================================================

const generationSystemPrompt = "You are an expert research scientist capable of generating creative, novel, " +
	"and scientifically rigorous hypotheses. You excel at identifying unexplored research directions and " +
	"formulating testable predictions that advance scientific understanding. Your hypotheses are grounded " +
	"in existing knowledge while pushing the boundaries of current understanding."

const improvementSystemPrompt = "You are an expert research scientist who refines scientific hypotheses " +
	"based on feedback while preserving their core insight. Always respond with valid JSON."

const scoringSystemPrompt = "You are a rigorous scientific evaluator who scores hypothesis hallmarks " +
	"objectively and uses the full 1-5 scale aggressively. Always respond with valid JSON."

const hallmarksRubric = `The Five Hallmarks of a Strong Scientific Hypothesis:

1. Testability (Falsifiability): it makes clear, empirical predictions that could be disproven by an experiment or observation.
2. Specificity and Clarity: the variables, expected relationships, and scope are precisely stated.
3. Grounded in Prior Knowledge: it builds on and is logically consistent with established theory and evidence.
4. Predictive Power & Novel Insight: beyond explaining known data, it forecasts new, non-obvious phenomena or quantitative outcomes.
5. Parsimony: among competing explanations, it employs the fewest necessary assumptions.`

const hypothesisJSONShape = `{
  "title": "Hypothesis title",
  "description": "Detailed paragraph description",
  "experimental_validation": "Comprehensive experimental validation plan",
  "theory_and_computation": "Theoretical frameworks and computational approaches",
  "hallmarks": {
    "testability": "...",
    "specificity": "...",
    "grounded_knowledge": "...",
    "predictive_power": "...",
    "parsimony": "..."
  },
  "references": [
    {"citation": "Author, A. (Year). Title. Journal.", "annotation": "How this supports the hypothesis"}
  ]
}`

// generationPrompt builds the user message for a generation round.
// strategies is the combined addition from a StrategySet, "" for the plain
// prompt.
func generationPrompt(goal string, n int, strategies string) string {
	return fmt.Sprintf(`Based on the following research goal, generate %d creative and novel scientific hypotheses. Each hypothesis should be original, testable, and provide new insights into the research area.

RESEARCH GOAL:
%s%s

%s

For each hypothesis provide a title, a detailed description, an experimental validation plan, theoretical and computational approaches, an analysis against each of the five hallmarks, and 3-5 supporting references.

Format your response as a JSON array of objects with this structure:
%s

Ensure each hypothesis is substantively different from the others.`, n, goal, strategies, hallmarksRubric, hypothesisJSONShape)
}

// improvementPrompt builds the user message for an improvement round.
func improvementPrompt(goal string, h *model.Hypothesis, feedback string) string {
	current, _ := hypothesisForPrompt(h)
	return fmt.Sprintf(`Improve the following scientific hypothesis based on the user's feedback, preserving its core insight.

RESEARCH GOAL:
%s

CURRENT HYPOTHESIS:
%s

USER FEEDBACK:
%s

%s

Respond with a single JSON object in this structure, plus an "improvements_made" field summarizing what changed:
%s`, goal, current, feedback, hallmarksRubric, hypothesisJSONShape)
}

// scoringPrompt builds the user message for a hallmark scoring pass.
func scoringPrompt(h *model.Hypothesis) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Score each hallmark analysis of the following hypothesis on a scale from 1 (very weak) to 5 (exceptional).

TITLE: %s

DESCRIPTION:
%s

TESTABILITY ANALYSIS:
%s

SPECIFICITY ANALYSIS:
%s

GROUNDED KNOWLEDGE ANALYSIS:
%s

PREDICTIVE POWER ANALYSIS:
%s

PARSIMONY ANALYSIS:
%s

Respond with exactly this JSON object:
{"testability": N, "specificity": N, "grounded_knowledge": N, "predictive_power": N, "parsimony": N}`,
		h.Title, h.Description,
		orNoAnalysis(h.Hallmarks.Testability),
		orNoAnalysis(h.Hallmarks.Specificity),
		orNoAnalysis(h.Hallmarks.GroundedKnowledge),
		orNoAnalysis(h.Hallmarks.PredictivePower),
		orNoAnalysis(h.Hallmarks.Parsimony))
	return b.String()
}

func orNoAnalysis(s string) string {
	if s == "" {
		return "No analysis provided"
	}
	return s
}

// hypothesisForPrompt renders the parts of a hypothesis the improvement
// prompt needs.
func hypothesisForPrompt(h *model.Hypothesis) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n\nDescription:\n%s\n\nExperimental validation:\n%s\n",
		h.Title, h.Description, h.ExperimentalValidation)
	if len(h.References) > 0 {
		b.WriteString("\nReferences:\n")
		for _, ref := range h.References {
			fmt.Fprintf(&b, "- %s\n", ref.Citation)
		}
	}
	return b.String(), nil
}
