// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docmesh/connector-gw/pkg/core/state"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "connectors.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestConnector(id string, createdAt time.Time) *state.Connector {
	return &state.Connector{
		ConnectorID:   id,
		Name:          "connector " + id,
		ConnectorType: "MCPO_CONNECTOR",
		Config: map[string]any{
			"MCPO_BASE_URL": "http://localhost:8000",
			"MCPO_SERVER":   "math",
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestStore_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	connector := newTestConnector("conn_1", now)
	if err := store.CreateConnector(ctx, connector); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetConnector(ctx, "conn_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "connector conn_1" {
		t.Errorf("unexpected name %q", got.Name)
	}
	if got.Config["MCPO_SERVER"] != "math" {
		t.Errorf("expected config round-trip, got %v", got.Config)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, got.CreatedAt)
	}

	connector.Name = "renamed"
	connector.UpdatedAt = now.Add(time.Minute)
	if err := store.UpdateConnector(ctx, connector); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = store.GetConnector(ctx, "conn_1")
	if got.Name != "renamed" {
		t.Errorf("expected updated name, got %q", got.Name)
	}

	if err := store.DeleteConnector(ctx, "conn_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.GetConnector(ctx, "conn_1"); !errors.Is(err, state.ErrConnectorNotFound) {
		t.Errorf("expected ErrConnectorNotFound, got %v", err)
	}
	if err := store.UpdateConnector(ctx, connector); !errors.Is(err, state.ErrConnectorNotFound) {
		t.Errorf("expected ErrConnectorNotFound, got %v", err)
	}
	if err := store.DeleteConnector(ctx, "conn_1"); !errors.Is(err, state.ErrConnectorNotFound) {
		t.Errorf("expected ErrConnectorNotFound, got %v", err)
	}
}

func TestStore_LastIndexedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	connector := newTestConnector("conn_1", now)
	indexed := now.Add(-time.Hour)
	connector.LastIndexedAt = &indexed
	if err := store.CreateConnector(ctx, connector); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetConnector(ctx, "conn_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LastIndexedAt == nil || !got.LastIndexedAt.Equal(indexed) {
		t.Errorf("expected last_indexed_at %v, got %v", indexed, got.LastIndexedAt)
	}
}

func TestStore_Pagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		connector := newTestConnector(fmt.Sprintf("conn_%d", i), base.Add(time.Duration(i)*time.Second))
		if err := store.CreateConnector(ctx, connector); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page, hasMore, err := store.ListConnectorsPaginated(ctx, "", "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 2 || !hasMore {
		t.Fatalf("expected first page of 2 with more, got %d hasMore=%v", len(page), hasMore)
	}
	if page[0].ConnectorID != "conn_0" || page[1].ConnectorID != "conn_1" {
		t.Errorf("expected creation order, got %s, %s", page[0].ConnectorID, page[1].ConnectorID)
	}

	page, hasMore, err = store.ListConnectorsPaginated(ctx, "conn_1", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 3 || hasMore {
		t.Fatalf("expected remaining 3 connectors, got %d hasMore=%v", len(page), hasMore)
	}
	if page[0].ConnectorID != "conn_2" {
		t.Errorf("expected page to start after cursor, got %s", page[0].ConnectorID)
	}

	page, _, err = store.ListConnectorsPaginated(ctx, "", "conn_3", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 connectors before cursor, got %d", len(page))
	}
}
