// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// nonToolSegments are path endings that never name a tool: the discovery
// document itself and the documentation routes MCPO serves alongside it.
var nonToolSegments = map[string]bool{
	"openapi.json": true,
	"docs":         true,
	"redoc":        true,
}

// DiscoverTools fetches the gateway's OpenAPI document and returns the
// tool names it declares. A tool is any POST-capable path inside the
// server's namespace; the heuristic is best-effort since MCPO publishes no
// dedicated discovery endpoint. Results are never cached.
func (c *MCPOClient) DiscoverTools(ctx context.Context) ([]string, error) {
	if c.openapiURL == "" {
		return nil, fmt.Errorf("%w: mcpo openapi URL is not set", ErrNotConfigured)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.openapiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mcpo openapi fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mcpo openapi fetch returned status %d: %s", resp.StatusCode, string(body))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("mcpo openapi endpoint did not return valid JSON")
	}

	return c.toolsFromDocument(body), nil
}

// toolsFromDocument parses an OpenAPI document and extracts tool names. A
// document without a usable paths object yields an empty list, not an
// error: discovery degrades gracefully against whatever the gateway
// serves. Path order inside a JSON object is not observable after
// decoding, so paths are visited in sorted order and de-duplicated
// first-seen.
func (c *MCPOClient) toolsFromDocument(body []byte) []string {
	doc, err := openapi3.NewLoader().LoadFromData(body)
	if err != nil || doc == nil || doc.Paths == nil {
		return nil
	}

	basePaths := c.basePathSet(doc.Servers)

	pathItems := doc.Paths.Map()
	rawPaths := make([]string, 0, len(pathItems))
	for raw := range pathItems {
		rawPaths = append(rawPaths, raw)
	}
	sort.Strings(rawPaths)

	var tools []string
	seen := make(map[string]bool)
	for _, raw := range rawPaths {
		item := pathItems[raw]
		if item == nil || item.Post == nil {
			continue
		}

		segments := pathSegments(raw)
		if len(segments) == 0 {
			continue
		}
		for _, base := range basePaths {
			if hasSegmentPrefix(segments, base) {
				segments = segments[len(base):]
				break
			}
		}
		if len(segments) == 0 {
			continue
		}

		name := segments[len(segments)-1]
		if name == c.server || nonToolSegments[name] {
			continue
		}
		if !seen[name] {
			seen[name] = true
			tools = append(tools, name)
		}
	}
	return tools
}

// basePathSet builds the prefixes a tool path may sit under: the
// configured server identifier first, then each server URL the document
// declares, in document order. Only the first matching prefix is stripped.
func (c *MCPOClient) basePathSet(servers openapi3.Servers) [][]string {
	var bases [][]string
	if segs := pathSegments(c.server); len(segs) > 0 {
		bases = append(bases, segs)
	}
	for _, srv := range servers {
		if srv == nil || srv.URL == "" {
			continue
		}
		u, err := url.Parse(srv.URL)
		if err != nil {
			continue
		}
		if segs := pathSegments(u.Path); len(segs) > 0 {
			bases = append(bases, segs)
		}
	}
	return bases
}

// pathSegments splits a path into its non-empty segments, dropping
// template placeholders like {id}.
func pathSegments(p string) []string {
	var segments []string
	for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

func hasSegmentPrefix(segments, prefix []string) bool {
	if len(prefix) == 0 || len(segments) < len(prefix) {
		return false
	}
	for i, seg := range prefix {
		if segments[i] != seg {
			return false
		}
	}
	return true
}
