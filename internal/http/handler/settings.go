package handler

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"docusafe/internal/model"
	"docusafe/internal/service"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// ListCategories returns the category names in insertion order.
//
// @Summary List categories
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} listResponse[string]
// @Router /categories [get]
func ListCategories(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newList(cats))
	}
}

// AddCategory appends a category.
//
// @Summary Add a category
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body categoryRequest true "Request body"
// @Success 201
// @Failure 409 {object} errorPayload
// @Router /categories [post]
func AddCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req categoryRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := svc.Add(c.UserContext(), req.Name); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}
}

// RemoveCategory deletes the category named in the path. The name may be
// percent-encoded.
//
// @Summary Remove a category
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Param name path string true "Category name"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /categories/{name} [delete]
func RemoveCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "invalid category name")
		}
		if err := svc.Remove(c.UserContext(), name); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListLogs returns the activity log, newest first.
//
// @Summary Activity log
// @Tags logs
// @Security BearerAuth
// @Produce json
// @Success 200 {object} listResponse[model.LogEntry]
// @Router /logs [get]
func ListLogs(audit service.ActivityLog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := audit.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newList(entries))
	}
}

// ClearLogs empties the activity log.
//
// @Summary Clear the activity log
// @Tags logs
// @Security BearerAuth
// @Produce json
// @Success 204
// @Router /logs [delete]
func ClearLogs(audit service.ActivityLog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := audit.Clear(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetBranding is public so the login page can show the department chrome.
//
// @Summary Branding settings
// @Tags settings
// @Produce json
// @Success 200 {object} model.BrandingSettings
// @Router /branding [get]
func GetBranding(svc service.BrandingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := svc.Get(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(b)
	}
}

// UpdateBranding merges the fields present in the body.
//
// @Summary Update branding settings
// @Tags settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body model.BrandingPatch true "Fields to change"
// @Success 200 {object} model.BrandingSettings
// @Router /branding [put]
func UpdateBranding(svc service.BrandingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch model.BrandingPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		b, err := svc.Update(c.UserContext(), patch)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(b)
	}
}

// Backup downloads every registry as one JSON file.
//
// @Summary Export a backup
// @Tags backup
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.Backup
// @Router /backup [get]
func Backup(svc service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := svc.Backup(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Attachment("docusafe-backup-" + time.Now().UTC().Format(time.DateOnly) + ".json")
		return c.JSON(b)
	}
}

// Restore replaces every registry with the uploaded backup.
//
// @Summary Restore a backup
// @Tags backup
// @Security BearerAuth
// @Accept json
// @Param body body model.Backup true "Backup file"
// @Success 204
// @Failure 422 {object} errorPayload
// @Router /restore [post]
func Restore(svc service.BackupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Restore(c.UserContext(), c.Body()); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
