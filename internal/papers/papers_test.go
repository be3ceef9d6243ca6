// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package papers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/wisteria-research/wisteria-tui/internal/config"
	"github.com/wisteria-research/wisteria-tui/internal/model"
)

const sampleSearchResponse = `{
  "total": 1,
  "data": [
    {
      "paperId": "abc123",
      "title": "Circadian control of mitochondrial fission",
      "year": 2021,
      "venue": "Cell Metabolism",
      "url": "https://www.semanticscholar.org/paper/abc123",
      "authors": [{"name": "J. Doe"}, {"name": "A. Smith"}],
      "abstract": "We show that fission follows the clock.",
      "openAccessPdf": {"url": "https://example.org/paper.pdf"},
      "externalIds": {"DOI": "10.1000/xyz", "ArXiv": "2101.00001"}
    }
  ]
}`

// newTestClient points a fast-limiter client at a stub server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.PapersConfig{
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		MaxResults:        3,
	})
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/paper/search" {
			t.Errorf("path = %q, want /paper/search", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "mitochondrial fission" {
			t.Errorf("query = %q", q.Get("query"))
		}
		if q.Get("limit") != "3" {
			t.Errorf("limit = %q, want 3", q.Get("limit"))
		}
		w.Write([]byte(sampleSearchResponse))
	})

	papers, err := client.Search(context.Background(), "mitochondrial fission")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("got %d papers, want 1", len(papers))
	}

	p := papers[0]
	if p.Title != "Circadian control of mitochondrial fission" {
		t.Errorf("Title = %q", p.Title)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "J. Doe" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Year != 2021 || p.Venue != "Cell Metabolism" {
		t.Errorf("Year/Venue = %d/%q", p.Year, p.Venue)
	}
	if p.PDFURL != "https://example.org/paper.pdf" {
		t.Errorf("PDFURL = %q", p.PDFURL)
	}
	if p.DOI != "10.1000/xyz" || p.ArxivID != "2101.00001" {
		t.Errorf("DOI/ArxivID = %q/%q", p.DOI, p.ArxivID)
	}
}

func TestSearchSendsAPIKeyHeader(t *testing.T) {
	t.Setenv("TEST_SS_KEY", "sekrit")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "sekrit" {
			t.Errorf("x-api-key = %q, want 'sekrit'", r.Header.Get("x-api-key"))
		}
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	client := NewClient(config.PapersConfig{
		BaseURL:           srv.URL,
		APIKeyEnv:         "TEST_SS_KEY",
		RequestsPerSecond: 1000,
		MaxResults:        3,
	})
	if _, err := client.Search(context.Background(), "anything"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
}

func TestSearchServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})
	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Error("expected error on HTTP 429")
	}
}

func TestSearchForReferenceNoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	})

	p, err := client.SearchForReference(context.Background(),
		"Doe, J. (2021). An unfindable paper. Nowhere Journal.")
	if err != nil {
		t.Fatalf("SearchForReference failed: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil paper, got %+v", p)
	}
}

func TestFetchForHypothesis(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// First citation resolves, second finds nothing.
		if calls.Add(1) == 1 {
			w.Write([]byte(sampleSearchResponse))
			return
		}
		w.Write([]byte(`{"data": []}`))
	})

	h := model.NewHypothesis(1, model.KindOriginal, "T", "D")
	h.References = []model.Reference{
		{Citation: "Doe, J. (2021). Circadian control of mitochondrial fission. Cell Metabolism."},
		{Citation: "Smith, A. (2019). A lost result. Obscure Letters."},
	}

	var ticks []int
	results, err := client.FetchForHypothesis(context.Background(), h, func(done, total int) {
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
		ticks = append(ticks, done)
	})
	if err != nil {
		t.Fatalf("FetchForHypothesis failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Err != nil || results[0].Paper == nil {
		t.Errorf("first lookup should succeed: %+v", results[0])
	}
	if results[0].Index != 1 {
		t.Errorf("Index = %d, want 1", results[0].Index)
	}
	if results[1].Err == nil {
		t.Error("second lookup should report no papers found")
	}
	if Fetched(results) != 1 {
		t.Errorf("Fetched = %d, want 1", Fetched(results))
	}
	if len(ticks) != 2 || ticks[0] != 1 || ticks[1] != 2 {
		t.Errorf("progress ticks = %v, want [1 2]", ticks)
	}
}

func TestFetchForHypothesisNoReferences(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})
	h := model.NewHypothesis(1, model.KindOriginal, "T", "D")
	if _, err := client.FetchForHypothesis(context.Background(), h, nil); err == nil {
		t.Error("expected error for hypothesis without references")
	}
}

func TestParseCitation(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		author string
		title  string
		year   string
	}{
		{
			name:   "standard form",
			in:     "Doe, J. (2021). Circadian control of mitochondrial fission. Cell Metabolism.",
			author: "Doe, J",
			title:  "Circadian control of mitochondrial fission",
			year:   "2021",
		},
		{
			name:   "no year",
			in:     "Doe, J. Circadian control. Cell Metabolism.",
			author: "Doe, J",
			title:  "Circadian control",
		},
		{
			name: "unstructured",
			in:   "a bare string with no periods",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseCitation(tc.in)
			if got.Author != tc.author || got.Title != tc.title || got.Year != tc.year {
				t.Errorf("parseCitation(%q) = %+v", tc.in, got)
			}
		})
	}
}

func TestQueryFromCitation(t *testing.T) {
	if q := queryFromCitation("Doe, J. (2021). The title. Journal."); q != "The title" {
		t.Errorf("query = %q, want title", q)
	}
	if q := queryFromCitation("a bare string with no periods"); q != "a bare string with no periods" {
		t.Errorf("query = %q, want raw fallback", q)
	}
}
