// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"context"
	"errors"
	"time"
)

// ErrConnectorNotFound is returned by stores when no connector exists
// under the requested ID.
var ErrConnectorNotFound = errors.New("connector not found")

// Connector is the persisted form of a registered search-source connector.
// Config holds the sanitized configuration map produced by the schema
// validator; it is read back unchanged at query time.
type Connector struct {
	ConnectorID   string
	Name          string
	ConnectorType string
	IsIndexable   bool
	LastIndexedAt *time.Time
	Config        map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ConnectorStore defines the interface for connector persistence
type ConnectorStore interface {
	CreateConnector(ctx context.Context, connector *Connector) error
	GetConnector(ctx context.Context, connectorID string) (*Connector, error)
	UpdateConnector(ctx context.Context, connector *Connector) error
	DeleteConnector(ctx context.Context, connectorID string) error
	ListConnectorsPaginated(ctx context.Context, after, before string, limit int) ([]*Connector, bool, error)
}
