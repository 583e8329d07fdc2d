// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package search implements the connector backends that turn a user query
// into a list of normalized results. Backends self-register via init(), in
// the database/sql driver style: the registry maps a connector type tag to
// a factory that builds a Searcher from a sanitized configuration map.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotConfigured marks configuration errors: empty identifiers, a missing
// tool name, or discovery without an OpenAPI URL. These are fatal to the
// call and never retried.
var ErrNotConfigured = errors.New("not configured")

// Result is the normalized record produced from one raw backend item.
type Result struct {
	Title       string
	Description string
	Content     string
	Metadata    map[string]any
	URL         string
}

// Searcher queries a single configured connector backend.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Factory builds a Searcher from a sanitized connector configuration map.
// Factories extract the keys they need and ignore the rest.
type Factory func(ctx context.Context, config map[string]any) (Searcher, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register adds a named searcher factory. Panics if the connector type is
// already registered (catches duplicate init() registrations at startup).
func Register(connectorType string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := factories[connectorType]; exists {
		panic(fmt.Sprintf("search: backend %q already registered", connectorType))
	}
	factories[connectorType] = f
}

// New creates a Searcher for the given connector type. Returns an error if
// no backend is registered under that type.
func New(ctx context.Context, connectorType string, config map[string]any) (Searcher, error) {
	registryMu.RLock()
	f, ok := factories[connectorType]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown search backend: %q (available: %v)", connectorType, Available())
	}
	return f(ctx, config)
}

// Available returns the sorted list of registered connector types.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
