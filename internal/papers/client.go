// Copyright (c) 2025 Wisteria Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package papers looks up literature on the Semantic Scholar graph API.
package papers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/wisteria-research/wisteria-tui/internal/config"
)

// =============================================================================
// TYPES
// =============================================================================

// Paper is one search result from the graph API.
type Paper struct {
	PaperID  string
	Title    string
	Authors  []string
	Year     int
	Venue    string
	Abstract string
	URL      string
	PDFURL   string
	DOI      string
	ArxivID  string
}

// LookupResult pairs one reference citation with its best match.
// Index is 1-based, matching reference numbering in the detail pane.
type LookupResult struct {
	Index    int
	Citation string
	Paper    *Paper
	Err      error
}

// Client searches Semantic Scholar with client-side rate limiting.
// Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	maxResults int
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewClient builds a client from the papers config section. The API key
// is resolved from the configured environment variable; without one the
// public rate limits apply, so keep requests_per_second conservative.
func NewClient(cfg config.PapersConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1.0
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 3
	}
	apiKey := ""
	if cfg.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.APIKeyEnv)
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     apiKey,
		maxResults: maxResults,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// =============================================================================
// SEARCH
// =============================================================================

// searchResponse mirrors the graph API paper/search payload.
type searchResponse struct {
	Data []struct {
		PaperID string `json:"paperId"`
		Title   string `json:"title"`
		Year    int    `json:"year"`
		Venue   string `json:"venue"`
		URL     string `json:"url"`
		Authors []struct {
			Name string `json:"name"`
		} `json:"authors"`
		Abstract      string `json:"abstract"`
		OpenAccessPDF *struct {
			URL string `json:"url"`
		} `json:"openAccessPdf"`
		ExternalIDs map[string]any `json:"externalIds"`
	} `json:"data"`
}

// Search queries the paper/search endpoint and returns up to the
// configured number of results, most relevant first. Blocks on the rate
// limiter before hitting the network.
func (c *Client) Search(ctx context.Context, query string) ([]*Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(c.maxResults))
	params.Set("fields", "title,authors,year,externalIds,url,venue,openAccessPdf,abstract,paperId")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/paper/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paper search failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paper search returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	papers := make([]*Paper, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		p := &Paper{
			PaperID:  d.PaperID,
			Title:    d.Title,
			Year:     d.Year,
			Venue:    d.Venue,
			Abstract: d.Abstract,
			URL:      d.URL,
		}
		for _, a := range d.Authors {
			if a.Name != "" {
				p.Authors = append(p.Authors, a.Name)
			}
		}
		if d.OpenAccessPDF != nil {
			p.PDFURL = d.OpenAccessPDF.URL
		}
		if doi, ok := d.ExternalIDs["DOI"].(string); ok {
			p.DOI = doi
		}
		if arxiv, ok := d.ExternalIDs["ArXiv"].(string); ok {
			p.ArxivID = arxiv
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// SearchForReference searches using the structured parts of a citation
// string and returns the most relevant match, or nil when nothing was
// found.
func (c *Client) SearchForReference(ctx context.Context, citation string) (*Paper, error) {
	query := queryFromCitation(citation)
	if query == "" {
		return nil, fmt.Errorf("citation has no searchable content")
	}
	papers, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, nil
	}
	return papers[0], nil
}
