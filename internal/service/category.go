package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"docusafe/internal/repository"
)

// CategoryService manages the list of document categories.
type CategoryService interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
}

type categoryService struct {
	categories repository.CategoryRepository
	audit      ActivityLog
	log        *slog.Logger
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories repository.CategoryRepository, audit ActivityLog, log *slog.Logger) CategoryService {
	return &categoryService{categories: categories, audit: audit, log: log}
}

func (s *categoryService) List(ctx context.Context) ([]string, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("category name is required")
	}
	if err := s.categories.Add(ctx, name); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrCategoryExists
		}
		return err
	}
	record(ctx, s.audit, s.log, ActionCategoryAdded, map[string]any{"category": name})
	return nil
}

// Remove leaves documents filed under name untouched.
func (s *categoryService) Remove(ctx context.Context, name string) error {
	if err := s.categories.Remove(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	record(ctx, s.audit, s.log, ActionCategoryRemoved, map[string]any{"category": name})
	return nil
}
