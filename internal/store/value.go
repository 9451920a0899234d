package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Value is a typed accessor for one key.
//
// Get falls back to the default when the key is absent or holds JSON that
// does not decode into T; the decode error is logged, never returned.
// Errors from the backend itself are returned.
type Value[T any] struct {
	store Store
	key   string
	def   func() T
	log   *slog.Logger
}

// NewValue binds key on s. def builds the fallback value; nil means the zero value.
func NewValue[T any](s Store, key string, def func() T, log *slog.Logger) *Value[T] {
	if def == nil {
		def = func() T {
			var zero T
			return zero
		}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Value[T]{store: s, key: key, def: def, log: log}
}

// Key returns the bound store key.
func (v *Value[T]) Key() string { return v.key }

// Get loads and decodes the value.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	raw, err := v.store.Get(ctx, v.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return v.def(), nil
		}
		var zero T
		return zero, fmt.Errorf("get %s: %w", v.key, err)
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		v.log.ErrorContext(ctx, "store_value_corrupted",
			"component", "store",
			"key", v.key,
			"error", err.Error(),
		)
		return v.def(), nil
	}
	return out, nil
}

// Exists reports whether the key is present, regardless of its content.
func (v *Value[T]) Exists(ctx context.Context) (bool, error) {
	_, err := v.store.Get(ctx, v.key)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("get %s: %w", v.key, err)
}

// Set encodes and stores val.
func (v *Value[T]) Set(ctx context.Context, val T) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode %s: %w", v.key, err)
	}
	if err := v.store.Set(ctx, v.key, raw); err != nil {
		return fmt.Errorf("set %s: %w", v.key, err)
	}
	return nil
}

// Delete removes the key.
func (v *Value[T]) Delete(ctx context.Context) error {
	if err := v.store.Delete(ctx, v.key); err != nil {
		return fmt.Errorf("delete %s: %w", v.key, err)
	}
	return nil
}
