package handler

import (
	"github.com/gofiber/fiber/v2"

	"docusafe/internal/http/middleware"
	"docusafe/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login signs a user in and returns a bearer token.
//
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} errorPayload
// @Router /auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Logout ends the current session.
//
// @Summary Sign out
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func Logout(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Logout(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me returns the signed-in user.
//
// @Summary Signed-in user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} errorPayload
// @Router /auth/me [get]
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := middleware.CurrentUser(c)
		if u == nil {
			return writeServiceError(c, service.ErrUnauthenticated)
		}
		return c.JSON(u)
	}
}

// ChangePassword updates the password of the signed-in user.
//
// @Summary Change own password
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body changePasswordRequest true "Request body"
// @Success 204
// @Failure 400 {object} errorPayload
// @Router /auth/password [put]
func ChangePassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req changePasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := svc.ChangePassword(c.UserContext(), req.CurrentPassword, req.NewPassword); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
