package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"docusafe/internal/auth"
	"docusafe/internal/model"
	"docusafe/internal/service"
)

type stubVerifier struct {
	user *model.PublicUser
	err  error
}

func (s stubVerifier) Verify(_ context.Context, token string) (*model.PublicUser, error) {
	if token != "good" {
		return nil, service.ErrUnauthenticated
	}
	return s.user, s.err
}

func newAuthApp(v TokenVerifier, cap auth.Capability) *fiber.App {
	app := fiber.New()
	app.Get("/protected", Authenticate(v), RequireCapability(cap), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Email)
	})
	return app
}

func TestAuthenticate(t *testing.T) {
	viewer := &model.PublicUser{ID: "2", Email: "viewer@example.com", Role: model.RoleViewer}
	admin := &model.PublicUser{ID: "1", Email: "admin@example.com", Role: model.RoleAdmin}

	tests := []struct {
		name       string
		header     string
		verifier   TokenVerifier
		cap        auth.Capability
		wantStatus int
	}{
		{"missing header", "", stubVerifier{user: admin}, auth.CapDocumentsRead, fiber.StatusUnauthorized},
		{"wrong scheme", "Basic good", stubVerifier{user: admin}, auth.CapDocumentsRead, fiber.StatusUnauthorized},
		{"invalid token", "Bearer bad", stubVerifier{user: admin}, auth.CapDocumentsRead, fiber.StatusUnauthorized},
		{"store failure", "Bearer good", stubVerifier{err: errors.New("store down")}, auth.CapDocumentsRead, fiber.StatusInternalServerError},
		{"viewer reads", "Bearer good", stubVerifier{user: viewer}, auth.CapDocumentsRead, fiber.StatusOK},
		{"viewer cannot delete", "Bearer good", stubVerifier{user: viewer}, auth.CapDocumentsDelete, fiber.StatusForbidden},
		{"admin deletes", "Bearer good", stubVerifier{user: admin}, auth.CapDocumentsDelete, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newAuthApp(tt.verifier, tt.cap)
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequireCapability_WithoutAuthenticate(t *testing.T) {
	app := fiber.New()
	app.Get("/x", RequireCapability(auth.CapDocumentsRead), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
