// Package seed fills an empty store with the demo accounts, categories,
// branding and sample documents.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"docusafe/internal/auth"
	"docusafe/internal/model"
	"docusafe/internal/store"
)

//go:embed seed.yaml
var defaultData []byte

// Data is the content written to absent keys.
type Data struct {
	Users      []model.User           `yaml:"users"`
	Categories []string               `yaml:"categories"`
	Branding   model.BrandingSettings `yaml:"branding"`
	Documents  []model.Document       `yaml:"documents"`
}

// Default parses the embedded seed file.
func Default() (*Data, error) {
	return Parse(defaultData)
}

// Parse decodes seed data from YAML.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &d, nil
}

// Apply writes each part of d whose key is absent from s and returns the
// keys it wrote. Existing keys are never touched. Plaintext passwords are
// hashed before they are stored.
func Apply(ctx context.Context, s store.Store, d *Data, log *slog.Logger) ([]string, error) {
	users := make([]model.User, 0, len(d.Users))
	for _, u := range d.Users {
		if !auth.IsHashed(u.Password) {
			hash, err := auth.HashPassword(u.Password)
			if err != nil {
				return nil, fmt.Errorf("hash seed password: %w", err)
			}
			u.Password = hash
		}
		users = append(users, u)
	}

	var written []string
	steps := []struct {
		key   string
		write func() error
	}{
		{store.KeyUsers, func() error { return store.NewValue[[]model.User](s, store.KeyUsers, nil, log).Set(ctx, users) }},
		{store.KeyCategories, func() error { return store.NewValue[[]string](s, store.KeyCategories, nil, log).Set(ctx, d.Categories) }},
		{store.KeyBranding, func() error {
			return store.NewValue[model.BrandingSettings](s, store.KeyBranding, nil, log).Set(ctx, d.Branding)
		}},
		{store.KeyDocuments, func() error {
			return store.NewValue[[]model.Document](s, store.KeyDocuments, nil, log).Set(ctx, d.Documents)
		}},
	}
	for _, step := range steps {
		_, err := s.Get(ctx, step.key)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return written, fmt.Errorf("check %s: %w", step.key, err)
		}
		if err := step.write(); err != nil {
			return written, err
		}
		written = append(written, step.key)
	}

	if len(written) > 0 {
		log.InfoContext(ctx, "store_seeded",
			"component", "seed",
			"keys", written,
		)
	}
	return written, nil
}
