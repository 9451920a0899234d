package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docusafe/internal/auth"
	"docusafe/internal/model"
	"docusafe/internal/service"
)

// UserLocalKey is the key under which Authenticate stores the signed-in user.
const UserLocalKey = "user"

// TokenVerifier resolves a bearer token to the signed-in user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.PublicUser, error)
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		u, err := v.Verify(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
			}
			return err
		}
		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

// CurrentUser returns the user stored by Authenticate, or nil.
func CurrentUser(c *fiber.Ctx) *model.PublicUser {
	u, _ := c.Locals(UserLocalKey).(*model.PublicUser)
	return u
}

// RequireCapability lets the request through only when the signed-in
// user's role holds cap. Must run after Authenticate.
func RequireCapability(cap auth.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		if !auth.Allowed(u.Role, cap) {
			return fiber.NewError(fiber.StatusForbidden, "your role does not allow "+string(cap))
		}
		return c.Next()
	}
}
