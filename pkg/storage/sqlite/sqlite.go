// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/docmesh/connector-gw/pkg/core/state"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed implementation of ConnectorStore, for
// single-binary deployments that still need persistence across restarts.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store at the given path. Use ":memory:" for an
// ephemeral database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS connectors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			connector_type TEXT NOT NULL,
			is_indexable INTEGER NOT NULL DEFAULT 0,
			last_indexed_at INTEGER,
			config TEXT NOT NULL DEFAULT '{}',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_connectors_created ON connectors(created_at, id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite create tables: %w", err)
		}
	}
	return nil
}

// CreateConnector inserts a connector.
func (s *Store) CreateConnector(ctx context.Context, connector *state.Connector) error {
	config, err := json.Marshal(connector.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var lastIndexed sql.NullInt64
	if connector.LastIndexedAt != nil {
		lastIndexed = sql.NullInt64{Int64: connector.LastIndexedAt.UnixNano(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO connectors (id, name, connector_type, is_indexable, last_indexed_at, config, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		connector.ConnectorID, connector.Name, connector.ConnectorType, connector.IsIndexable,
		lastIndexed, string(config), connector.CreatedAt.UnixNano(), connector.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("sqlite insert connector: %w", err)
	}
	return nil
}

// GetConnector retrieves a connector by ID.
func (s *Store) GetConnector(ctx context.Context, connectorID string) (*state.Connector, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, connector_type, is_indexable, last_indexed_at, config, created_at, updated_at
		 FROM connectors WHERE id = ?`, connectorID)
	return scanConnector(row)
}

// UpdateConnector replaces an existing connector.
func (s *Store) UpdateConnector(ctx context.Context, connector *state.Connector) error {
	config, err := json.Marshal(connector.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var lastIndexed sql.NullInt64
	if connector.LastIndexedAt != nil {
		lastIndexed = sql.NullInt64{Int64: connector.LastIndexedAt.UnixNano(), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE connectors SET name = ?, connector_type = ?, is_indexable = ?,
		 last_indexed_at = ?, config = ?, updated_at = ? WHERE id = ?`,
		connector.Name, connector.ConnectorType, connector.IsIndexable,
		lastIndexed, string(config), connector.UpdatedAt.UnixNano(), connector.ConnectorID)
	if err != nil {
		return fmt.Errorf("sqlite update connector: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("connector %s: %w", connector.ConnectorID, state.ErrConnectorNotFound)
	}
	return nil
}

// DeleteConnector deletes a connector.
func (s *Store) DeleteConnector(ctx context.Context, connectorID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM connectors WHERE id = ?`, connectorID)
	if err != nil {
		return fmt.Errorf("sqlite delete connector: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("connector %s: %w", connectorID, state.ErrConnectorNotFound)
	}
	return nil
}

// ListConnectorsPaginated lists connectors in creation order with
// cursor-based pagination.
func (s *Store) ListConnectorsPaginated(ctx context.Context, after, before string, limit int) ([]*state.Connector, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT id, name, connector_type, is_indexable, last_indexed_at, config, created_at, updated_at
		FROM connectors`
	args := []any{}
	cond := ""
	if after != "" {
		cond = ` WHERE (created_at, id) > (SELECT created_at, id FROM connectors WHERE id = ?)`
		args = append(args, after)
	}
	if before != "" {
		if cond == "" {
			cond = " WHERE"
		} else {
			cond += " AND"
		}
		cond += ` (created_at, id) < (SELECT created_at, id FROM connectors WHERE id = ?)`
		args = append(args, before)
	}
	query += cond + ` ORDER BY created_at, id LIMIT ?`
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("sqlite list connectors: %w", err)
	}
	defer rows.Close()

	var connectors []*state.Connector
	for rows.Next() {
		connector, err := scanConnector(rows)
		if err != nil {
			return nil, false, err
		}
		connectors = append(connectors, connector)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("sqlite list connectors: %w", err)
	}

	hasMore := len(connectors) > limit
	if hasMore {
		connectors = connectors[:limit]
	}
	return connectors, hasMore, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnector(row rowScanner) (*state.Connector, error) {
	var connector state.Connector
	var lastIndexed sql.NullInt64
	var createdAt, updatedAt int64
	var config string

	err := row.Scan(&connector.ConnectorID, &connector.Name, &connector.ConnectorType,
		&connector.IsIndexable, &lastIndexed, &config, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, state.ErrConnectorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite scan connector: %w", err)
	}

	connector.CreatedAt = time.Unix(0, createdAt)
	connector.UpdatedAt = time.Unix(0, updatedAt)
	if lastIndexed.Valid {
		t := time.Unix(0, lastIndexed.Int64)
		connector.LastIndexedAt = &t
	}
	if err := json.Unmarshal([]byte(config), &connector.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &connector, nil
}
