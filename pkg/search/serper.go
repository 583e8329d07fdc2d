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
	Register("SERPER_API", func(_ context.Context, config map[string]any) (Searcher, error) {
		apiKey := cast.ToString(config["SERPER_API_KEY"])
		if apiKey == "" {
			return nil, fmt.Errorf("%w: serper API key cannot be empty", ErrNotConfigured)
		}
		return NewSerperSearcher(apiKey), nil
	})
}

// SerperSearcher performs web searches using the Serper Google Search API.
type SerperSearcher struct {
	apiKey     string
	httpClient *http.Client
}

// NewSerperSearcher creates a new Serper backend.
func NewSerperSearcher(apiKey string) *SerperSearcher {
	return &SerperSearcher{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// Search queries the Serper API and returns normalized results.
func (s *SerperSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	body, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://google.serper.dev/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper search request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper search returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result serperSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	var results []Result
	for _, r := range result.Organic {
		results = append(results, Result{
			Title:       r.Title,
			Description: r.Snippet,
			Content:     r.Snippet,
			URL:         r.Link,
			Metadata:    map[string]any{"position": r.Position},
		})
	}
	return results, nil
}

type serperSearchResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Position int    `json:"position"`
	} `json:"organic"`
}
