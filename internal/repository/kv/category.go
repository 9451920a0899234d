package kv

import (
	"context"
	"log/slog"
	"strings"

	"docusafe/internal/repository"
	"docusafe/internal/store"
)

type categoryRepository struct {
	names *list[string]
}

// NewCategoryRepository stores category names under store.KeyCategories.
func NewCategoryRepository(s store.Store, log *slog.Logger) repository.CategoryRepository {
	return &categoryRepository{names: newList[string](s, store.KeyCategories, log)}
}

func (r *categoryRepository) List(ctx context.Context) ([]string, error) {
	return r.names.load(ctx)
}

// Add compares names case-insensitively so "letters" cannot shadow "Letters".
func (r *categoryRepository) Add(ctx context.Context, name string) error {
	return r.names.update(ctx, func(names []string) ([]string, error) {
		for _, n := range names {
			if strings.EqualFold(n, name) {
				return nil, repository.ErrDuplicate
			}
		}
		return append(names, name), nil
	})
}

// Remove matches the same way Add does.
func (r *categoryRepository) Remove(ctx context.Context, name string) error {
	return r.names.update(ctx, func(names []string) ([]string, error) {
		for i, n := range names {
			if strings.EqualFold(n, name) {
				return append(names[:i], names[i+1:]...), nil
			}
		}
		return nil, repository.ErrNotFound
	})
}

func (r *categoryRepository) ReplaceAll(ctx context.Context, names []string) error {
	return r.names.replace(ctx, names)
}
