// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "time"

// ConnectorType identifies a search-source connector kind. Each kind has
// its own persisted-configuration rule in validate.go.
type ConnectorType string

const (
	ConnectorTypeSerper         ConnectorType = "SERPER_API"
	ConnectorTypeTavily         ConnectorType = "TAVILY_API"
	ConnectorTypeLinkup         ConnectorType = "LINKUP_API"
	ConnectorTypeSlack          ConnectorType = "SLACK_CONNECTOR"
	ConnectorTypeNotion         ConnectorType = "NOTION_CONNECTOR"
	ConnectorTypeGitHub         ConnectorType = "GITHUB_CONNECTOR"
	ConnectorTypeLinear         ConnectorType = "LINEAR_CONNECTOR"
	ConnectorTypeDiscord        ConnectorType = "DISCORD_CONNECTOR"
	ConnectorTypeJira           ConnectorType = "JIRA_CONNECTOR"
	ConnectorTypeConfluence     ConnectorType = "CONFLUENCE_CONNECTOR"
	ConnectorTypeClickUp        ConnectorType = "CLICKUP_CONNECTOR"
	ConnectorTypeGoogleCalendar ConnectorType = "GOOGLE_CALENDAR_CONNECTOR"
	ConnectorTypeGoogleGmail    ConnectorType = "GOOGLE_GMAIL_CONNECTOR"
	ConnectorTypeMCPO           ConnectorType = "MCPO_CONNECTOR"
)

// Connector represents a registered search-source connector
type Connector struct {
	ConnectorID   string         `json:"connector_id"`
	Object        string         `json:"object"` // Always "connector"
	Name          string         `json:"name"`
	ConnectorType ConnectorType  `json:"connector_type"`
	IsIndexable   bool           `json:"is_indexable"`
	LastIndexedAt *time.Time     `json:"last_indexed_at,omitempty"`
	Config        map[string]any `json:"config"`
	CreatedAt     int64          `json:"created_at"`
}

// CreateConnectorRequest represents a request to register a connector
type CreateConnectorRequest struct {
	Name          string         `json:"name"`           // Required
	ConnectorType ConnectorType  `json:"connector_type"` // Required
	IsIndexable   bool           `json:"is_indexable"`
	Config        map[string]any `json:"config"` // Required, validated per kind
}

// UpdateConnectorRequest represents a partial connector update
type UpdateConnectorRequest struct {
	Name        *string        `json:"name,omitempty"`
	IsIndexable *bool          `json:"is_indexable,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
}

// ListConnectorsResponse represents a list of connectors
type ListConnectorsResponse struct {
	Object  string      `json:"object"` // Always "list"
	Data    []Connector `json:"data"`
	FirstID string      `json:"first_id,omitempty"`
	LastID  string      `json:"last_id,omitempty"`
	HasMore bool        `json:"has_more"`
}

// DeleteConnectorResponse represents the response from deleting a connector
type DeleteConnectorResponse struct {
	ConnectorID string `json:"connector_id"`
	Object      string `json:"object"`  // Always "connector.deleted"
	Deleted     bool   `json:"deleted"` // Always true
}

// SearchRequest represents a query against a connector
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResult is the wire form of a normalized result record
type SearchResult struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata"`
	URL         string         `json:"url,omitempty"`
}

// SearchResponse represents the ordered result list for a query
type SearchResponse struct {
	Object string         `json:"object"` // Always "list"
	Data   []SearchResult `json:"data"`
}

// ToolsResponse represents the tool names discovered for a connector
type ToolsResponse struct {
	Object string   `json:"object"` // Always "list"
	Data   []string `json:"data"`
}
