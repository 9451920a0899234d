// Package postgres stores DocuSafe keys in a single PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docusafe/internal/store"
)

// Store is a PostgreSQL implementation of store.Store backed by kv_store.
// It uses database/sql with parameterized queries.
type Store struct {
	db *sql.DB
}

// New creates a Store on an open connection pool. The schema is created by
// the migration package.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var (
	_ store.Store  = (*Store)(nil)
	_ store.Pinger = (*Store)(nil)
)

// Get returns the JSON value for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv_store WHERE key = $1`
	var value []byte
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

// Set upserts the value for key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, q, key, string(value))
	return err
}

// Delete removes key. Missing rows are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_store WHERE key = $1`
	_, err := s.db.ExecContext(ctx, q, key)
	return err
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
