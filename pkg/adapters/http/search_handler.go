// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"net/http"

	"github.com/docmesh/connector-gw/pkg/core/schema"
)

// handleSearchConnector handles POST /v1/connectors/{connector_id}/search
func (h *Handler) handleSearchConnector(w http.ResponseWriter, r *http.Request) {
	connectorID := r.PathValue("connector_id")
	if connectorID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Connector ID is required")
		return
	}

	var req schema.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if req.Query == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "query is required")
		return
	}

	results, err := h.connectors.Search(r.Context(), connectorID, req.Query)
	if err != nil {
		h.logger.Error("Search failed", "error", err, "connector_id", connectorID)
		h.writeServiceError(w, err)
		return
	}

	data := make([]schema.SearchResult, 0, len(results))
	for _, res := range results {
		data = append(data, schema.SearchResult{
			Title:       res.Title,
			Description: res.Description,
			Content:     res.Content,
			Metadata:    res.Metadata,
			URL:         res.URL,
		})
	}

	h.writeJSON(w, http.StatusOK, schema.SearchResponse{Object: "list", Data: data})
}

// handleListConnectorTools handles GET /v1/connectors/{connector_id}/tools
func (h *Handler) handleListConnectorTools(w http.ResponseWriter, r *http.Request) {
	connectorID := r.PathValue("connector_id")
	if connectorID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Connector ID is required")
		return
	}

	tools, err := h.connectors.ListTools(r.Context(), connectorID)
	if err != nil {
		h.logger.Error("Tool discovery failed", "error", err, "connector_id", connectorID)
		h.writeServiceError(w, err)
		return
	}
	if tools == nil {
		tools = []string{}
	}

	h.writeJSON(w, http.StatusOK, schema.ToolsResponse{Object: "list", Data: tools})
}
