// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/docmesh/connector-gw/pkg/core/state"
)

// ConnectorsStore is an in-memory connectors store. Insertion order is
// kept so cursor pagination is stable.
type ConnectorsStore struct {
	mu         sync.RWMutex
	connectors map[string]*state.Connector // keyed by ConnectorID
	order      []string
}

// NewConnectorsStore creates a new connectors store
func NewConnectorsStore() *ConnectorsStore {
	return &ConnectorsStore{
		connectors: make(map[string]*state.Connector),
	}
}

// CreateConnector creates a connector
func (s *ConnectorsStore) CreateConnector(ctx context.Context, connector *state.Connector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.connectors[connector.ConnectorID]; exists {
		return fmt.Errorf("connector %s already exists", connector.ConnectorID)
	}
	s.connectors[connector.ConnectorID] = connector
	s.order = append(s.order, connector.ConnectorID)
	return nil
}

// GetConnector retrieves a connector by ID
func (s *ConnectorsStore) GetConnector(ctx context.Context, connectorID string) (*state.Connector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	connector, exists := s.connectors[connectorID]
	if !exists {
		return nil, fmt.Errorf("connector %s: %w", connectorID, state.ErrConnectorNotFound)
	}
	return connector, nil
}

// UpdateConnector replaces an existing connector
func (s *ConnectorsStore) UpdateConnector(ctx context.Context, connector *state.Connector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.connectors[connector.ConnectorID]; !exists {
		return fmt.Errorf("connector %s: %w", connector.ConnectorID, state.ErrConnectorNotFound)
	}
	s.connectors[connector.ConnectorID] = connector
	return nil
}

// DeleteConnector deletes a connector
func (s *ConnectorsStore) DeleteConnector(ctx context.Context, connectorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.connectors[connectorID]; !exists {
		return fmt.Errorf("connector %s: %w", connectorID, state.ErrConnectorNotFound)
	}
	delete(s.connectors, connectorID)
	for i, id := range s.order {
		if id == connectorID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListConnectorsPaginated lists connectors with cursor-based pagination
func (s *ConnectorsStore) ListConnectorsPaginated(ctx context.Context, after, before string, limit int) ([]*state.Connector, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var filtered []*state.Connector
	foundAfter := after == ""
	remaining := 0

	for _, id := range s.order {
		if !foundAfter {
			if id == after {
				foundAfter = true
			}
			continue
		}
		if before != "" && id == before {
			break
		}
		if len(filtered) >= limit {
			remaining++
			continue
		}
		filtered = append(filtered, s.connectors[id])
	}

	return filtered, remaining > 0, nil
}
