// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"fmt"
	"strings"
)

// =============================================================================
// GENERATION STRATEGIES
// =============================================================================

// Strategy is one optional generation directive. Active strategies append
// their PromptAddition to the generation prompt; they never affect
// improvement or scoring passes.
type Strategy struct {
	Name           string
	Key            string // toggle key in the selection view
	Description    string
	PromptAddition string
}

// Strategies lists every available generation strategy in display order.
var Strategies = []Strategy{
	{
		Name:        "Boundary-Pushing",
		Key:         "1",
		Description: "Challenge assumptions and push boundaries",
		PromptAddition: "Formulate hypotheses that explicitly challenge conventional understanding " +
			"or integrate concepts from distinct and unexpected scientific domains.",
	},
	{
		Name:        "Human Curiosity",
		Key:         "2",
		Description: "Emphasize surprising and intriguing outcomes",
		PromptAddition: "Suggest hypotheses that, if confirmed, would be surprising, intriguing, or " +
			"counterintuitive to scientists in this field, sparking further curiosity and exploration.",
	},
	{
		Name:        "Real-World Impact",
		Key:         "3",
		Description: "Focus on practical implications and societal benefits",
		PromptAddition: "Each hypothesis should clearly articulate its potential impact on society, " +
			"medicine, technology, or fundamental understanding, highlighting why confirmation would be significant.",
	},
	{
		Name:        "Analogical Thinking",
		Key:         "4",
		Description: "Use creative analogies and metaphors",
		PromptAddition: "Use creative analogies, metaphors, or comparisons from everyday life or " +
			"unrelated fields to generate novel and intriguing scientific hypotheses.",
	},
	{
		Name:        "Interdisciplinary",
		Key:         "5",
		Description: "Leverage multiple disciplines",
		PromptAddition: "Generate hypotheses that explicitly draw insights from multiple disciplines, " +
			"combining perspectives in ways rarely or never previously explored.",
	},
	{
		Name:        "What-If Scenarios",
		Key:         "6",
		Description: "Explore provocative thought experiments",
		PromptAddition: "Formulate hypotheses around imaginative 'what if?' scenarios or thought " +
			"experiments that expand conventional scientific thinking.",
	},
	{
		Name:        "Provocative Reactions",
		Key:         "7",
		Description: "Provoke curiosity and debate",
		PromptAddition: "Hypotheses should provoke reactions such as curiosity, excitement, debate, " +
			"or even mild controversy among scientists upon reading them.",
	},
	{
		Name:        "Narrative Context",
		Key:         "8",
		Description: "Frame within compelling stories",
		PromptAddition: "Frame each hypothesis within a brief narrative or scenario that illustrates " +
			"why exploring it would be scientifically exciting or culturally significant.",
	},
	{
		Name:        "Risk-Taking",
		Key:         "9",
		Description: "Encourage bold, high-risk ideas",
		PromptAddition: "Prioritize bold, risky hypotheses—those with lower probability of " +
			"confirmation but extremely high potential impact if validated.",
	},
	{
		Name:        "Visionary Thinking",
		Key:         "0",
		Description: "Future-oriented and forward-looking",
		PromptAddition: "Generate visionary hypotheses that anticipate future discoveries or " +
			"technological breakthroughs, proposing directions science may move in 5-10 years " +
			"ahead of current thinking.",
	},
}

// =============================================================================
// STRATEGY SET
// =============================================================================

// StrategySet tracks which strategies are active. The zero value is default
// mode: no additions, the plain generation prompt. Not safe for concurrent
// use; the UI owns it and reads the combined addition before submitting a
// generation task.
type StrategySet struct {
	active      map[string]bool // keyed by Strategy.Key
	defaultMode bool
}

// NewStrategySet returns a set in default mode.
func NewStrategySet() *StrategySet {
	return &StrategySet{
		active:      make(map[string]bool),
		defaultMode: true,
	}
}

// Toggle flips the strategy with the given key and reports whether the key
// matched one. Activating any strategy leaves default mode.
func (s *StrategySet) Toggle(key string) bool {
	for _, st := range Strategies {
		if st.Key != key {
			continue
		}
		if s.active[key] {
			delete(s.active, key)
		} else {
			s.active[key] = true
			s.defaultMode = false
		}
		return true
	}
	return false
}

// SetDefaultMode returns to the plain prompt, clearing all strategies.
func (s *StrategySet) SetDefaultMode() {
	s.defaultMode = true
	s.active = make(map[string]bool)
}

// DefaultMode reports whether the set is in default mode.
func (s *StrategySet) DefaultMode() bool {
	return s.defaultMode
}

// IsActive reports whether the strategy with the given key is on.
func (s *StrategySet) IsActive(key string) bool {
	return s.active[key]
}

// Active returns the active strategies in display order.
func (s *StrategySet) Active() []Strategy {
	if s.defaultMode {
		return nil
	}
	var out []Strategy
	for _, st := range Strategies {
		if s.active[st.Key] {
			out = append(out, st)
		}
	}
	return out
}

// PromptAddition returns the combined prompt block for the active
// strategies, or "" in default mode.
func (s *StrategySet) PromptAddition() string {
	active := s.Active()
	if len(active) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nADDITIONAL GENERATION STRATEGIES:\n")
	for i, st := range active {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- " + st.PromptAddition)
	}
	return b.String()
}

// Status returns a short description of the set for display.
func (s *StrategySet) Status() string {
	active := s.Active()
	switch {
	case s.defaultMode:
		return "Default"
	case len(active) == 0:
		return "None"
	default:
		names := make([]string, 0, len(active))
		for _, st := range active {
			names = append(names, st.Name)
		}
		shown := strings.Join(names, ", ")
		if len(names) > 2 {
			shown = strings.Join(names[:2], ", ") + "..."
		}
		return fmt.Sprintf("%d active: %s", len(active), shown)
	}
}
