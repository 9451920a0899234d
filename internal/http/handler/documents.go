package handler

import (
	"mime"
	"time"

	"github.com/gofiber/fiber/v2"

	"docusafe/internal/service"
)

// listResponse wraps collection results.
type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Total: len(items)}
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type urlResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ListDocuments returns the whole registry, newest first.
//
// @Summary List documents
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Success 200 {object} listResponse[model.Document]
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newList(docs))
	}
}

// SearchDocuments filters the registry by the query string.
//
// @Summary Search documents
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Param q query string false "Substring of title, description or keywords"
// @Param title query string false "Substring of title"
// @Param keywords query string false "Substring of keywords"
// @Param category query string false "Exact category"
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param tab query string false "Dashboard tab"
// @Success 200 {object} listResponse[model.Document]
// @Router /documents/search [get]
func SearchDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := service.SearchQuery{
			Q:        c.Query("q"),
			Title:    c.Query("title"),
			Keywords: c.Query("keywords"),
			Category: c.Query("category"),
			Date:     c.Query("date"),
			Tab:      c.Query("tab"),
		}
		docs, err := svc.Search(c.UserContext(), q)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newList(docs))
	}
}

// DocumentStats returns the dashboard counters.
//
// @Summary Document counters
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.DocumentStats
// @Router /documents/stats [get]
func DocumentStats(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}

// UploadDocument stores a file and its metadata (multipart/form-data).
//
// @Summary Upload a document
// @Tags documents
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param category formData string true "Category"
// @Param description formData string true "Description"
// @Param keywords formData string true "Comma separated keywords"
// @Param file formData file true "Document file"
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get(fiber.HeaderContentType)
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}

		doc, err := svc.Upload(c.UserContext(), service.UploadInput{
			Title:       c.FormValue("title"),
			Category:    c.FormValue("category"),
			Description: c.FormValue("description"),
			Keywords:    c.FormValue("keywords"),
			FileName:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Content:     f,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns one document by ID.
//
// @Summary Get a document
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document and its file.
//
// @Summary Delete a document
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// BulkDeleteDocuments removes every listed document.
//
// @Summary Delete several documents
// @Tags documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body bulkDeleteRequest true "Request body"
// @Success 200 {object} map[string]int
// @Router /documents/bulk-delete [post]
func BulkDeleteDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req bulkDeleteRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		n, err := svc.DeleteMany(c.UserContext(), req.IDs)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"deleted": n})
	}
}

// DownloadDocument streams the file of a document as an attachment.
//
// @Summary Download a document
// @Tags documents
// @Security BearerAuth
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, doc, err := svc.Download(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}

		ct := doc.ContentType
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))

		size := -1
		if doc.Size > 0 {
			size = int(doc.Size)
		}
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, size)
	}
}

// DocumentURL returns a presigned download link.
// The optional expiry query takes a Go duration such as "30m".
//
// @Summary Presigned download link
// @Tags documents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Document ID"
// @Param expiry query string false "Go duration, default 15m"
// @Success 200 {object} urlResponse
// @Failure 501 {object} errorPayload
// @Router /documents/{id}/url [get]
func DocumentURL(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expiry := service.DefaultURLExpiry
		if raw := c.Query("expiry"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d <= 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRY", "invalid expiry")
			}
			expiry = d
		}

		url, err := svc.DownloadURL(c.UserContext(), c.Params("id"), expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(urlResponse{URL: url, ExpiresAt: time.Now().Add(expiry).UTC()})
	}
}

// ForwardDocument drafts an email sharing the document.
//
// @Summary Draft a forwarding email
// @Tags documents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param body body service.ForwardInput true "Request body"
// @Success 200 {object} service.ForwardDraft
// @Failure 400 {object} errorPayload
// @Router /documents/{id}/forward [post]
func ForwardDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ForwardInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		draft, err := svc.Forward(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(draft)
	}
}
