// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wisteria-research/wisteria-tui/internal/config"
	"github.com/wisteria-research/wisteria-tui/internal/model"
)

// newTestClient builds a client against a stub server with fast retries.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultClientConfig()
	cfg.MaxRetries = 2
	cfg.RetryDelay = 5 * time.Millisecond
	cfg.Timeout = 5 * time.Second

	return NewClientWithConfig(config.ModelServer{
		Shortname: "test",
		BaseURL:   srv.URL,
		Model:     "test-model",
	}, cfg)
}

// respondWith wraps assistant content in a chat-completions response.
func respondWith(w http.ResponseWriter, content string) {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	json.NewEncoder(w).Encode(resp)
}

const sampleHypothesisJSON = `{
  "title": "Mitochondrial timing",
  "description": "A detailed description.",
  "experimental_validation": "A plan.",
  "theory_and_computation": "A model.",
  "hallmarks": {
    "testability": "t", "specificity": "s", "grounded_knowledge": "g",
    "predictive_power": "p", "parsimony": "pa"
  },
  "references": [{"citation": "Doe, J. (2021). Title. Journal.", "annotation": "supports"}]
}`

func TestGenerateHypotheses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "test-model" {
			t.Errorf("model = %q, want 'test-model'", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Error("expected a system + user message pair")
		}
		respondWith(w, "Here are your hypotheses:\n["+sampleHypothesisJSON+"]")
	})

	hyps, err := client.GenerateHypotheses(context.Background(), "why do cells age", 1, 1, "")
	if err != nil {
		t.Fatalf("GenerateHypotheses failed: %v", err)
	}
	if len(hyps) != 1 {
		t.Fatalf("got %d hypotheses, want 1", len(hyps))
	}

	h := hyps[0]
	if h.Title != "Mitochondrial timing" {
		t.Errorf("Title = %q", h.Title)
	}
	if h.Number != 1 || h.Version != "1.0" || h.Kind != model.KindOriginal {
		t.Errorf("Number/Version/Kind = %d/%s/%s", h.Number, h.Version, h.Kind)
	}
	if len(h.References) != 1 {
		t.Errorf("References = %d, want 1", len(h.References))
	}
	if h.Hallmarks.Testability != "t" {
		t.Errorf("hallmarks not carried over: %+v", h.Hallmarks)
	}
}

func TestGenerateHypothesesMidSessionKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondWith(w, "["+sampleHypothesisJSON+"]")
	})

	hyps, err := client.GenerateHypotheses(context.Background(), "goal", 1, 4, "")
	if err != nil {
		t.Fatalf("GenerateHypotheses failed: %v", err)
	}
	if hyps[0].Number != 4 {
		t.Errorf("Number = %d, want 4", hyps[0].Number)
	}
	if hyps[0].Kind != model.KindNew {
		t.Errorf("Kind = %q, want new", hyps[0].Kind)
	}
}

func TestImproveHypothesis(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		improved := `{"title": "Refined title", "description": "Refined.", "experimental_validation": "Plan v2.",
			"hallmarks": {"testability": "t2", "specificity": "s2", "grounded_knowledge": "g2",
			"predictive_power": "p2", "parsimony": "pa2"},
			"references": [], "improvements_made": "clarified the prediction"}`
		respondWith(w, "```json\n"+improved+"\n```")
	})

	orig := model.NewHypothesis(2, model.KindOriginal, "Old title", "Old desc")
	orig.Scores = &model.Scores{Testability: 3, Specificity: 3, GroundedKnowledge: 3, PredictivePower: 3, Parsimony: 3}

	improved, err := client.ImproveHypothesis(context.Background(), "goal", orig, "sharpen it")
	if err != nil {
		t.Fatalf("ImproveHypothesis failed: %v", err)
	}

	if improved.Title != "Refined title" {
		t.Errorf("Title = %q", improved.Title)
	}
	if improved.Number != 2 {
		t.Errorf("Number = %d, improvement must keep the original number", improved.Number)
	}
	if improved.Version != "1.1" {
		t.Errorf("Version = %q, want bumped '1.1'", improved.Version)
	}
	if improved.Scores != nil {
		t.Error("a revision must be rescored; Scores should be nil")
	}
	if len(improved.FeedbackHistory) != 1 || improved.FeedbackHistory[0].Feedback != "sharpen it" {
		t.Errorf("FeedbackHistory = %+v", improved.FeedbackHistory)
	}
	if improved.ImprovementsMade != "clarified the prediction" {
		t.Errorf("ImprovementsMade = %q", improved.ImprovementsMade)
	}

	// The original must be untouched.
	if orig.Title != "Old title" || orig.Version != "1.0" {
		t.Error("ImproveHypothesis mutated its input")
	}
}

func TestScoreHypothesis(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Temperature == nil || *req.Temperature != 0 {
			t.Error("scoring must run at temperature 0")
		}
		respondWith(w, `{"testability": 4, "specificity": 3, "grounded_knowledge": 5, "predictive_power": 4, "parsimony": 2}`)
	})

	h := model.NewHypothesis(1, model.KindOriginal, "T", "D")
	scores, err := client.ScoreHypothesis(context.Background(), h)
	if err != nil {
		t.Fatalf("ScoreHypothesis failed: %v", err)
	}
	if scores.GroundedKnowledge != 5 {
		t.Errorf("GroundedKnowledge = %d, want 5", scores.GroundedKnowledge)
	}
	if avg := scores.Average(); avg != 3.6 {
		t.Errorf("Average() = %f, want 3.6", avg)
	}
}

func TestScoreHypothesisRejectsOutOfRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondWith(w, `{"testability": 9, "specificity": 3, "grounded_knowledge": 5, "predictive_power": 4, "parsimony": 2}`)
	})

	h := model.NewHypothesis(1, model.KindOriginal, "T", "D")
	if _, err := client.ScoreHypothesis(context.Background(), h); err == nil {
		t.Error("expected error for out-of-range score")
	}
}

func TestChatRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		respondWith(w, `{"testability": 3, "specificity": 3, "grounded_knowledge": 3, "predictive_power": 3, "parsimony": 3}`)
	})

	h := model.NewHypothesis(1, model.KindOriginal, "T", "D")
	if _, err := client.ScoreHypothesis(context.Background(), h); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestChatGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	h := model.NewHypothesis(1, model.KindOriginal, "T", "D")
	_, err := client.ScoreHypothesis(context.Background(), h)
	if err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error chain should include ErrRateLimited, got %v", err)
	}
	if calls.Load() != 3 { // initial + 2 retries
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestChatDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	h := model.NewHypothesis(1, model.KindOriginal, "T", "D")
	if _, err := client.ScoreHypothesis(context.Background(), h); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, 4xx responses must not be retried", calls.Load())
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		open byte
		clos byte
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, '{', '}', `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":1}\n```", '{', '}', `{"a":1}`, true},
		{"prose around array", `Sure! [1,2] there you go`, '[', ']', `[1,2]`, true},
		{"missing", `no json here`, '{', '}', "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractJSON(tc.in, tc.open, tc.clos)
			if ok != tc.ok || got != tc.want {
				t.Errorf("extractJSON(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestCleanJSONString(t *testing.T) {
	in := "{\"a\":\x01\"b\nc\"}"
	got := cleanJSONString(in)
	if got != `{"a":"b c"}` {
		t.Errorf("cleanJSONString = %q", got)
	}
}
