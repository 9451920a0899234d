// Package store defines the persistence port every registry is built on:
// a mapping from string keys to JSON documents. Implementations live in
// subpackages (memory, postgres, mongo).
package store

import (
	"context"
	"errors"
)

// Keys persisted by DocuSafe. Each registry owns exactly one key.
const (
	KeyDocuments  = "documents"
	KeyUsers      = "mock_users_list"
	KeySession    = "mock_user_session"
	KeyCategories = "categories"
	KeyLogs       = "user_logs"
	KeyBranding   = "branding_settings"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("store: key not found")

// Store is a key-value persistence port. Values are JSON encoded.
// There are no transactions across keys.
type Store interface {
	// Get returns the raw value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks s when it supports it and succeeds otherwise.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
