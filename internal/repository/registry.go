package repository

import (
	"context"

	"docusafe/internal/model"
)

// CategoryRepository holds the ordered category names.
type CategoryRepository interface {
	List(ctx context.Context) ([]string, error)
	// Add appends name; ErrDuplicate when it already exists.
	Add(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
	ReplaceAll(ctx context.Context, names []string) error
}

// LogRepository holds the activity log, newest entry first.
type LogRepository interface {
	List(ctx context.Context) ([]model.LogEntry, error)
	// Prepend adds entry at the head and keeps at most limit entries.
	Prepend(ctx context.Context, entry model.LogEntry, limit int) error
	Clear(ctx context.Context) error
	ReplaceAll(ctx context.Context, entries []model.LogEntry) error
}

// BrandingRepository holds the branding singleton.
type BrandingRepository interface {
	Get(ctx context.Context) (model.BrandingSettings, error)
	// Update applies fn to the current settings and stores the result.
	Update(ctx context.Context, fn func(model.BrandingSettings) model.BrandingSettings) (model.BrandingSettings, error)
	Set(ctx context.Context, s model.BrandingSettings) error
}
