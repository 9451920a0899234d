package handler

import (
	"github.com/gofiber/fiber/v2"

	"docusafe/internal/auth"
	"docusafe/internal/http/middleware"
	"docusafe/internal/service"
	"docusafe/internal/store"
)

// Deps are the services the routes are bound to.
type Deps struct {
	Store      store.Store
	Auth       service.AuthService
	Documents  service.DocumentService
	Users      service.UserService
	Categories service.CategoryService
	Activity   service.ActivityLog
	Branding   service.BrandingService
	Backup     service.BackupService
}

// route is a handler guarded by a bearer token. An empty capability means
// any signed-in user.
type route struct {
	method  string
	path    string
	cap     auth.Capability
	handler fiber.Handler
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.Store))
	app.Get("/healthz", LivenessProbe())
	app.Get("/branding", GetBranding(d.Branding))
	app.Post("/auth/login", Login(d.Auth))

	// Static paths come before /documents/:id.
	routes := []route{
		{fiber.MethodPost, "/auth/logout", "", Logout(d.Auth)},
		{fiber.MethodGet, "/auth/me", "", Me()},
		{fiber.MethodPut, "/auth/password", "", ChangePassword(d.Auth)},

		{fiber.MethodGet, "/documents", auth.CapDocumentsRead, ListDocuments(d.Documents)},
		{fiber.MethodGet, "/documents/search", auth.CapDocumentsRead, SearchDocuments(d.Documents)},
		{fiber.MethodGet, "/documents/stats", auth.CapDocumentsRead, DocumentStats(d.Documents)},
		{fiber.MethodPost, "/documents", auth.CapDocumentsUpload, UploadDocument(d.Documents)},
		{fiber.MethodPost, "/documents/bulk-delete", auth.CapDocumentsDelete, BulkDeleteDocuments(d.Documents)},
		{fiber.MethodGet, "/documents/:id", auth.CapDocumentsRead, GetDocument(d.Documents)},
		{fiber.MethodGet, "/documents/:id/download", auth.CapDocumentsRead, DownloadDocument(d.Documents)},
		{fiber.MethodGet, "/documents/:id/url", auth.CapDocumentsRead, DocumentURL(d.Documents)},
		{fiber.MethodPost, "/documents/:id/forward", auth.CapDocumentsRead, ForwardDocument(d.Documents)},
		{fiber.MethodDelete, "/documents/:id", auth.CapDocumentsDelete, DeleteDocument(d.Documents)},

		{fiber.MethodGet, "/categories", auth.CapDocumentsRead, ListCategories(d.Categories)},
		{fiber.MethodPost, "/categories", auth.CapCategoriesManage, AddCategory(d.Categories)},
		{fiber.MethodDelete, "/categories/:name", auth.CapCategoriesManage, RemoveCategory(d.Categories)},

		{fiber.MethodGet, "/users", auth.CapUsersManage, ListUsers(d.Users)},
		{fiber.MethodPost, "/users", auth.CapUsersManage, AddUser(d.Users)},
		{fiber.MethodDelete, "/users/:id", auth.CapUsersManage, RemoveUser(d.Users)},
		{fiber.MethodPut, "/users/:id/password", auth.CapUsersManage, ResetUserPassword(d.Users)},
		{fiber.MethodPost, "/users/:id/toggle-status", auth.CapUsersManage, ToggleUserStatus(d.Users)},

		{fiber.MethodGet, "/logs", auth.CapLogsRead, ListLogs(d.Activity)},
		{fiber.MethodDelete, "/logs", auth.CapLogsManage, ClearLogs(d.Activity)},

		{fiber.MethodPut, "/branding", auth.CapSettingsManage, UpdateBranding(d.Branding)},

		{fiber.MethodGet, "/backup", auth.CapBackupManage, Backup(d.Backup)},
		{fiber.MethodPost, "/restore", auth.CapBackupManage, Restore(d.Backup)},
	}

	authn := middleware.Authenticate(d.Auth)
	for _, r := range routes {
		handlers := []fiber.Handler{authn, middleware.NoStore()}
		if r.cap != "" {
			handlers = append(handlers, middleware.RequireCapability(r.cap))
		}
		app.Add(r.method, r.path, append(handlers, r.handler)...)
	}
}
