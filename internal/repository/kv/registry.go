// Package kv implements the repository interfaces on top of store.Store.
// Every registry is one JSON array (or object) under a single key.
// Read-modify-write cycles are serialized per registry inside the process;
// writers in other processes still race on a last-write-wins basis.
package kv

import (
	"context"
	"log/slog"
	"sync"

	"docusafe/internal/store"
)

// list is a JSON array held under one key.
type list[T any] struct {
	mu  sync.Mutex
	val *store.Value[[]T]
}

func newList[T any](s store.Store, key string, log *slog.Logger) *list[T] {
	return &list[T]{
		val: store.NewValue(s, key, func() []T { return []T{} }, log),
	}
}

func (l *list[T]) load(ctx context.Context) ([]T, error) {
	items, err := l.val.Get(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// update runs fn on the current items and stores its result.
// Nothing is written when fn fails.
func (l *list[T]) update(ctx context.Context, fn func([]T) ([]T, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := l.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return l.val.Set(ctx, next)
}

func (l *list[T]) replace(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.val.Set(ctx, items)
}
