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
	"strings"
	"time"

	"github.com/spf13/cast"
)

const mcpoDefaultTimeout = 30 * time.Second

func init() {
	Register("MCPO_CONNECTOR", func(_ context.Context, config map[string]any) (Searcher, error) {
		return NewMCPOSearcher(config)
	})
}

// MCPOConfig holds the settings for a single MCPO tool endpoint. BaseURL
// and Server are required; everything else is optional. A zero Timeout
// means the 30 second default.
type MCPOConfig struct {
	BaseURL    string
	Server     string
	Tool       string
	APIKey     string
	QueryParam string
	StaticArgs map[string]any
	ResultPath string
	Timeout    time.Duration
	OpenAPIURL string
}

// MCPOClient invokes tools exposed through an MCPO deployment: a gateway
// that fronts MCP servers with per-server REST endpoints. The client is
// immutable after construction; WithTool returns a fresh instance, so
// concurrent calls against one client are safe.
type MCPOClient struct {
	baseURL    string
	server     string
	tool       string
	apiKey     string
	queryParam string
	staticArgs map[string]any
	resultPath []string
	openapiURL string
	httpClient *http.Client
}

// NewMCPOClient validates the configuration and builds a client. The
// OpenAPI document URL defaults to <base>/<server>/openapi.json unless
// overridden; an override that trims to nothing disables discovery.
func NewMCPOClient(cfg MCPOConfig) (*MCPOClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: mcpo base URL cannot be empty", ErrNotConfigured)
	}
	server := strings.Trim(strings.TrimSpace(cfg.Server), "/")
	if server == "" {
		return nil, fmt.Errorf("%w: mcpo server identifier cannot be empty", ErrNotConfigured)
	}

	c := &MCPOClient{
		baseURL:    baseURL,
		server:     server,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		queryParam: strings.TrimSpace(cfg.QueryParam),
		staticArgs: cfg.StaticArgs,
	}

	if cfg.Tool != "" {
		tool := strings.Trim(strings.TrimSpace(cfg.Tool), "/")
		if tool == "" {
			return nil, fmt.Errorf("%w: mcpo tool name cannot be empty", ErrNotConfigured)
		}
		c.tool = tool
	}

	if cfg.ResultPath != "" {
		for _, token := range strings.Split(cfg.ResultPath, ".") {
			if token = strings.TrimSpace(token); token != "" {
				c.resultPath = append(c.resultPath, token)
			}
		}
	}

	switch {
	case strings.TrimSpace(cfg.OpenAPIURL) != "":
		c.openapiURL = strings.TrimSpace(cfg.OpenAPIURL)
	case cfg.OpenAPIURL != "":
		// A whitespace-only override disables discovery entirely.
	default:
		c.openapiURL = fmt.Sprintf("%s/%s/openapi.json", c.baseURL, c.server)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = mcpoDefaultTimeout
	}
	c.httpClient = &http.Client{Timeout: timeout}

	return c, nil
}

// NewMCPOClientFromConfig builds a client from a persisted connector
// configuration map, as sanitized by the schema validator. The query
// parameter name defaults to "query" when the key is absent; a present
// null value means the query is not sent at all.
func NewMCPOClientFromConfig(config map[string]any) (*MCPOClient, error) {
	cfg := MCPOConfig{
		BaseURL:    cast.ToString(config["MCPO_BASE_URL"]),
		Server:     cast.ToString(config["MCPO_SERVER"]),
		APIKey:     cast.ToString(config["MCPO_API_KEY"]),
		ResultPath: cast.ToString(config["MCPO_RESULT_PATH"]),
		OpenAPIURL: cast.ToString(config["MCPO_OPENAPI_URL"]),
	}

	if v, ok := config["MCPO_QUERY_PARAM"]; ok {
		cfg.QueryParam = cast.ToString(v)
	} else {
		cfg.QueryParam = "query"
	}
	if args, ok := config["MCPO_STATIC_ARGS"].(map[string]any); ok {
		cfg.StaticArgs = args
	}
	if v, ok := config["MCPO_TIMEOUT"]; ok {
		seconds, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("%w: mcpo timeout must be a number", ErrNotConfigured)
		}
		cfg.Timeout = time.Duration(seconds * float64(time.Second))
	}

	return NewMCPOClient(cfg)
}

// WithTool returns an equivalent client configured for the given tool.
func (c *MCPOClient) WithTool(tool string) (*MCPOClient, error) {
	trimmed := strings.Trim(strings.TrimSpace(tool), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("%w: mcpo tool name cannot be empty", ErrNotConfigured)
	}
	clone := *c
	clone.tool = trimmed
	return &clone, nil
}

// Invoke calls the configured tool with the given query and returns the
// normalized results. The request body is the static argument map merged
// with, when a query parameter name is configured, the query string under
// that name; the query value wins on a key collision.
func (c *MCPOClient) Invoke(ctx context.Context, query string) ([]Result, error) {
	if c.tool == "" {
		return nil, fmt.Errorf("%w: mcpo tool name has not been set", ErrNotConfigured)
	}

	payload := make(map[string]any, len(c.staticArgs)+1)
	for k, v := range c.staticArgs {
		payload[k] = v
	}
	if c.queryParam != "" {
		payload[c.queryParam] = query
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.server, c.tool)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mcpo invoke %s: %w", c.tool, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mcpo invoke %s returned status %d: %s", c.tool, resp.StatusCode, string(respBody))
	}

	// The gateway declares no response schema, so the body is parsed as
	// JSON regardless of content type; a body that is not JSON is carried
	// through extraction as a plain string.
	var data any
	if err := json.Unmarshal(respBody, &data); err != nil {
		data = string(respBody)
	}

	container := c.extractContainer(data)

	var results []Result
	switch v := container.(type) {
	case nil:
	case []any:
		for i, item := range v {
			results = append(results, normalizeItem(item, i+1))
		}
	default:
		results = append(results, normalizeItem(v, 1))
	}
	return results, nil
}

// mcpoSearcher fans a query out over the connector's configured tools,
// falling back to discovery when none are configured.
type mcpoSearcher struct {
	client *MCPOClient
	tools  []string
}

// NewMCPOSearcher builds the registry-facing searcher from a sanitized
// connector configuration map.
func NewMCPOSearcher(config map[string]any) (Searcher, error) {
	client, err := NewMCPOClientFromConfig(config)
	if err != nil {
		return nil, err
	}
	s := &mcpoSearcher{client: client}
	switch tools := config["MCPO_TOOLS"].(type) {
	case []string:
		s.tools = tools
	case []any:
		for _, t := range tools {
			s.tools = append(s.tools, cast.ToString(t))
		}
	}
	return s, nil
}

func (s *mcpoSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	tools := s.tools
	if len(tools) == 0 {
		discovered, err := s.client.DiscoverTools(ctx)
		if err != nil {
			return nil, err
		}
		tools = discovered
	}
	if len(tools) == 0 {
		return nil, fmt.Errorf("%w: no mcpo tools configured or discovered", ErrNotConfigured)
	}

	var results []Result
	for _, tool := range tools {
		client, err := s.client.WithTool(tool)
		if err != nil {
			return nil, err
		}
		res, err := client.Invoke(ctx, query)
		if err != nil {
			return nil, err
		}
		results = append(results, res...)
	}
	return results, nil
}
