package kv

import (
	"context"
	"log/slog"
	"sync"

	"docusafe/internal/model"
	"docusafe/internal/repository"
	"docusafe/internal/store"
)

type brandingRepository struct {
	mu  sync.Mutex
	val *store.Value[model.BrandingSettings]
}

// NewBrandingRepository stores the branding singleton under store.KeyBranding.
func NewBrandingRepository(s store.Store, log *slog.Logger) repository.BrandingRepository {
	def := func() model.BrandingSettings {
		return model.BrandingSettings{DepartmentName: model.DefaultDepartmentName}
	}
	return &brandingRepository{val: store.NewValue(s, store.KeyBranding, def, log)}
}

func (r *brandingRepository) Get(ctx context.Context) (model.BrandingSettings, error) {
	return r.val.Get(ctx)
}

func (r *brandingRepository) Update(ctx context.Context, fn func(model.BrandingSettings) model.BrandingSettings) (model.BrandingSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, err := r.val.Get(ctx)
	if err != nil {
		return model.BrandingSettings{}, err
	}
	next := fn(cur)
	if err := r.val.Set(ctx, next); err != nil {
		return model.BrandingSettings{}, err
	}
	return next, nil
}

func (r *brandingRepository) Set(ctx context.Context, s model.BrandingSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.val.Set(ctx, s)
}
