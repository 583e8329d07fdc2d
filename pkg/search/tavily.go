// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cast"
)

func init() {
	Register("TAVILY_API", func(_ context.Context, config map[string]any) (Searcher, error) {
		apiKey := cast.ToString(config["TAVILY_API_KEY"])
		if apiKey == "" {
			return nil, fmt.Errorf("%w: tavily API key cannot be empty", ErrNotConfigured)
		}
		return NewTavilySearcher(apiKey), nil
	})
}

// TavilySearcher performs web searches using the Tavily Search API.
type TavilySearcher struct {
	apiKey     string
	httpClient *http.Client
}

// NewTavilySearcher creates a new Tavily Search backend.
func NewTavilySearcher(apiKey string) *TavilySearcher {
	return &TavilySearcher{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// Search queries the Tavily Search API and returns normalized results.
func (t *TavilySearcher) Search(ctx context.Context, query string) ([]Result, error) {
	reqBody := tavilySearchRequest{
		APIKey: t.apiKey,
		Query:  query,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.tavily.com/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily search returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result tavilySearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	var results []Result
	for _, r := range result.Results {
		results = append(results, Result{
			Title:       r.Title,
			Description: truncate(r.Content, maxDerivedDescription),
			Content:     r.Content,
			URL:         r.URL,
			Metadata:    map[string]any{"score": r.Score},
		})
	}
	return results, nil
}

type tavilySearchRequest struct {
	APIKey string `json:"api_key"`
	Query  string `json:"query"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}
