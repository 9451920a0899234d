package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"docusafe/internal/model"
	"docusafe/internal/repository"
)

// BrandingService reads and merges the branding settings.
type BrandingService interface {
	Get(ctx context.Context) (model.BrandingSettings, error)
	Update(ctx context.Context, patch model.BrandingPatch) (model.BrandingSettings, error)
}

type brandingService struct {
	branding repository.BrandingRepository
	audit    ActivityLog
	log      *slog.Logger
}

// NewBrandingService constructs a BrandingService.
func NewBrandingService(branding repository.BrandingRepository, audit ActivityLog, log *slog.Logger) BrandingService {
	return &brandingService{branding: branding, audit: audit, log: log}
}

func (s *brandingService) Get(ctx context.Context) (model.BrandingSettings, error) {
	return s.branding.Get(ctx)
}

func (s *brandingService) Update(ctx context.Context, patch model.BrandingPatch) (model.BrandingSettings, error) {
	if patch.DepartmentName != nil {
		name := strings.TrimSpace(*patch.DepartmentName)
		patch.DepartmentName = &name
	}
	if patch.LogoURL != nil {
		logo := strings.TrimSpace(*patch.LogoURL)
		if logo != "" && !validLogoURL(logo) {
			return model.BrandingSettings{}, invalid("logo url must be an http(s) or data url")
		}
		patch.LogoURL = &logo
	}

	out, err := s.branding.Update(ctx, patch.Apply)
	if err != nil {
		return model.BrandingSettings{}, err
	}
	record(ctx, s.audit, s.log, ActionBrandingUpdated, map[string]any{"departmentName": out.DepartmentName})
	return out, nil
}

func validLogoURL(raw string) bool {
	if strings.HasPrefix(raw, "data:image/") {
		return true
	}
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
