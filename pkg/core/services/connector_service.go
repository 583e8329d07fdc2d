// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docmesh/connector-gw/pkg/core/schema"
	"github.com/docmesh/connector-gw/pkg/core/state"
	"github.com/docmesh/connector-gw/pkg/observability/logging"
	"github.com/docmesh/connector-gw/pkg/search"
)

// ConnectorService owns the connector lifecycle: configurations are
// validated and sanitized once at create/update time and stored as-is;
// queries build a search backend from the stored configuration without
// re-validating.
type ConnectorService struct {
	store  state.ConnectorStore
	logger *logging.Logger
}

// NewConnectorService creates a new connector service
func NewConnectorService(store state.ConnectorStore, logger *logging.Logger) *ConnectorService {
	return &ConnectorService{store: store, logger: logger}
}

// Create validates the request and persists a new connector.
func (s *ConnectorService) Create(ctx context.Context, req schema.CreateConnectorRequest) (*state.Connector, error) {
	if req.Name == "" {
		return nil, &schema.ValidationError{Field: "name", Reason: "is required"}
	}

	config, err := schema.ValidateConnectorConfig(req.ConnectorType, req.Config)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	connector := &state.Connector{
		ConnectorID:   "conn_" + uuid.NewString(),
		Name:          req.Name,
		ConnectorType: string(req.ConnectorType),
		IsIndexable:   req.IsIndexable,
		Config:        config,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateConnector(ctx, connector); err != nil {
		return nil, err
	}
	s.logger.Info("Connector created",
		"connector_id", connector.ConnectorID,
		"connector_type", connector.ConnectorType)
	return connector, nil
}

// Update applies a partial update. A new configuration map replaces the
// stored one wholesale after passing validation.
func (s *ConnectorService) Update(ctx context.Context, connectorID string, req schema.UpdateConnectorRequest) (*state.Connector, error) {
	connector, err := s.store.GetConnector(ctx, connectorID)
	if err != nil {
		return nil, err
	}

	updated := *connector
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.IsIndexable != nil {
		updated.IsIndexable = *req.IsIndexable
	}
	if req.Config != nil {
		config, err := schema.ValidateConnectorConfig(schema.ConnectorType(connector.ConnectorType), req.Config)
		if err != nil {
			return nil, err
		}
		updated.Config = config
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateConnector(ctx, &updated); err != nil {
		return nil, err
	}
	s.logger.Info("Connector updated", "connector_id", connectorID)
	return &updated, nil
}

// Get retrieves a connector by ID.
func (s *ConnectorService) Get(ctx context.Context, connectorID string) (*state.Connector, error) {
	return s.store.GetConnector(ctx, connectorID)
}

// Delete removes a connector.
func (s *ConnectorService) Delete(ctx context.Context, connectorID string) error {
	if err := s.store.DeleteConnector(ctx, connectorID); err != nil {
		return err
	}
	s.logger.Info("Connector deleted", "connector_id", connectorID)
	return nil
}

// List returns a page of connectors.
func (s *ConnectorService) List(ctx context.Context, after, before string, limit int) ([]*state.Connector, bool, error) {
	return s.store.ListConnectorsPaginated(ctx, after, before, limit)
}

// Search runs a query against the connector's backend and returns the
// normalized results. Transport failures are surfaced as-is; retry policy
// belongs to the caller.
func (s *ConnectorService) Search(ctx context.Context, connectorID, query string) ([]search.Result, error) {
	connector, err := s.store.GetConnector(ctx, connectorID)
	if err != nil {
		return nil, err
	}

	searcher, err := search.New(ctx, connector.ConnectorType, connector.Config)
	if err != nil {
		return nil, err
	}

	results, err := searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search connector %s: %w", connectorID, err)
	}
	s.logger.Info("Search completed",
		"connector_id", connectorID,
		"results", len(results))
	return results, nil
}

// ListTools discovers the tool names a gateway connector exposes. Only
// meaningful for the MCPO kind.
func (s *ConnectorService) ListTools(ctx context.Context, connectorID string) ([]string, error) {
	connector, err := s.store.GetConnector(ctx, connectorID)
	if err != nil {
		return nil, err
	}
	if connector.ConnectorType != string(schema.ConnectorTypeMCPO) {
		return nil, fmt.Errorf("%w: connector %s does not expose tools", search.ErrNotConfigured, connectorID)
	}

	client, err := search.NewMCPOClientFromConfig(connector.Config)
	if err != nil {
		return nil, err
	}
	return client.DiscoverTools(ctx)
}
