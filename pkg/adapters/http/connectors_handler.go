// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/docmesh/connector-gw/pkg/core/schema"
	"github.com/docmesh/connector-gw/pkg/core/state"
)

// handleCreateConnector handles POST /v1/connectors
func (h *Handler) handleCreateConnector(w http.ResponseWriter, r *http.Request) {
	var req schema.CreateConnectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to parse connector request", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if req.ConnectorType == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "connector_type is required")
		return
	}

	connector, err := h.connectors.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("Failed to create connector", "error", err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toSchemaConnector(connector))
}

// handleListConnectors handles GET /v1/connectors
func (h *Handler) handleListConnectors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	after := query.Get("after")
	before := query.Get("before")

	limit := 50
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	connectors, hasMore, err := h.connectors.List(r.Context(), after, before, limit)
	if err != nil {
		h.logger.Error("Failed to list connectors", "error", err)
		h.writeError(w, http.StatusInternalServerError, "list_error", err.Error())
		return
	}

	data := make([]schema.Connector, 0, len(connectors))
	for _, connector := range connectors {
		data = append(data, toSchemaConnector(connector))
	}

	listResp := schema.ListConnectorsResponse{
		Object:  "list",
		Data:    data,
		HasMore: hasMore,
	}
	if len(data) > 0 {
		listResp.FirstID = data[0].ConnectorID
		listResp.LastID = data[len(data)-1].ConnectorID
	}

	h.writeJSON(w, http.StatusOK, listResp)
}

// handleGetConnector handles GET /v1/connectors/{connector_id}
func (h *Handler) handleGetConnector(w http.ResponseWriter, r *http.Request) {
	connectorID := r.PathValue("connector_id")
	if connectorID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Connector ID is required")
		return
	}

	connector, err := h.connectors.Get(r.Context(), connectorID)
	if err != nil {
		h.logger.Error("Failed to get connector", "error", err, "connector_id", connectorID)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toSchemaConnector(connector))
}

// handleUpdateConnector handles PATCH /v1/connectors/{connector_id}
func (h *Handler) handleUpdateConnector(w http.ResponseWriter, r *http.Request) {
	connectorID := r.PathValue("connector_id")
	if connectorID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Connector ID is required")
		return
	}

	var req schema.UpdateConnectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}

	connector, err := h.connectors.Update(r.Context(), connectorID, req)
	if err != nil {
		h.logger.Error("Failed to update connector", "error", err, "connector_id", connectorID)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toSchemaConnector(connector))
}

// handleDeleteConnector handles DELETE /v1/connectors/{connector_id}
func (h *Handler) handleDeleteConnector(w http.ResponseWriter, r *http.Request) {
	connectorID := r.PathValue("connector_id")
	if connectorID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Connector ID is required")
		return
	}

	if err := h.connectors.Delete(r.Context(), connectorID); err != nil {
		h.logger.Error("Failed to delete connector", "error", err, "connector_id", connectorID)
		if errors.Is(err, state.ErrConnectorNotFound) {
			h.writeError(w, http.StatusNotFound, "connector_not_found", err.Error())
		} else {
			h.writeError(w, http.StatusInternalServerError, "deletion_error", err.Error())
		}
		return
	}

	h.writeJSON(w, http.StatusOK, schema.DeleteConnectorResponse{
		ConnectorID: connectorID,
		Object:      "connector.deleted",
		Deleted:     true,
	})
}

func toSchemaConnector(connector *state.Connector) schema.Connector {
	return schema.Connector{
		ConnectorID:   connector.ConnectorID,
		Object:        "connector",
		Name:          connector.Name,
		ConnectorType: schema.ConnectorType(connector.ConnectorType),
		IsIndexable:   connector.IsIndexable,
		LastIndexedAt: connector.LastIndexedAt,
		Config:        connector.Config,
		CreatedAt:     connector.CreatedAt.Unix(),
	}
}
