package handler

import (
	"github.com/gofiber/fiber/v2"

	"docusafe/internal/service"
)

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// ListUsers returns every account without passwords.
//
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} listResponse[model.PublicUser]
// @Router /users [get]
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newList(users))
	}
}

// AddUser creates an account.
//
// @Summary Add a user
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.NewUserInput true "New user"
// @Success 201 {object} model.PublicUser
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /users [post]
func AddUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.NewUserInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		u, err := svc.Add(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// RemoveUser deletes an account other than the caller's.
//
// @Summary Remove a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 204
// @Failure 409 {object} errorPayload
// @Router /users/{id} [delete]
func RemoveUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Remove(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ResetUserPassword sets a new password for any account.
//
// @Summary Reset a user's password
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body resetPasswordRequest true "Request body"
// @Success 204
// @Router /users/{id}/password [put]
func ResetUserPassword(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resetPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := svc.ResetPassword(c.UserContext(), c.Params("id"), req.Password); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ToggleUserStatus flips an account between active and inactive.
//
// @Summary Activate or deactivate a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.PublicUser
// @Failure 409 {object} errorPayload
// @Router /users/{id}/toggle-status [post]
func ToggleUserStatus(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.ToggleStatus(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}
