// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docmesh/connector-gw/pkg/core/schema"
	"github.com/docmesh/connector-gw/pkg/core/services"
	"github.com/docmesh/connector-gw/pkg/core/state"
	"github.com/docmesh/connector-gw/pkg/observability/logging"
	"github.com/docmesh/connector-gw/pkg/search"
)

// Handler implements the HTTP adapter
type Handler struct {
	connectors *services.ConnectorService
	logger     *logging.Logger
	mux        *http.ServeMux
}

// New creates a new HTTP handler
func New(connectors *services.ConnectorService, logger *logging.Logger) *Handler {
	h := &Handler{
		connectors: connectors,
		logger:     logger,
		mux:        http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /health", h.handleHealth)

	// Connectors API
	h.mux.HandleFunc("POST /v1/connectors", h.handleCreateConnector)
	h.mux.HandleFunc("GET /v1/connectors", h.handleListConnectors)
	h.mux.HandleFunc("GET /v1/connectors/{connector_id}", h.handleGetConnector)
	h.mux.HandleFunc("PATCH /v1/connectors/{connector_id}", h.handleUpdateConnector)
	h.mux.HandleFunc("DELETE /v1/connectors/{connector_id}", h.handleDeleteConnector)

	// Query API
	h.mux.HandleFunc("POST /v1/connectors/{connector_id}/search", h.handleSearchConnector)
	h.mux.HandleFunc("GET /v1/connectors/{connector_id}/tools", h.handleListConnectorTools)

	return h
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	h.mux.ServeHTTP(w, r)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"type":    code,
			"message": message,
		},
	})
}

// writeServiceError maps service errors onto HTTP statuses: validation and
// configuration problems are the client's fault, a missing connector is
// 404, and anything else (transport failures included) is a bad gateway.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *schema.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, search.ErrNotConfigured):
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, state.ErrConnectorNotFound):
		h.writeError(w, http.StatusNotFound, "connector_not_found", err.Error())
	default:
		h.writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}
