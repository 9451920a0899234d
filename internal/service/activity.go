package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docusafe/internal/model"
	"docusafe/internal/repository"
)

// MaxLogEntries is the activity log capacity; older entries are evicted.
const MaxLogEntries = 500

// Activity log action names.
const (
	ActionDocumentUploaded   = "Document Uploaded"
	ActionDocumentDeleted    = "Document Deleted"
	ActionDocumentsDeleted   = "Bulk Documents Deleted"
	ActionDocumentDownloaded = "Document Downloaded"
	ActionDocumentForwarded  = "Document Forwarded"
	ActionLoggedIn           = "User Logged In"
	ActionLoggedOut          = "User Logged Out"
	ActionPasswordChanged    = "Password Changed"
	ActionUserAdded          = "User Added"
	ActionUserRemoved        = "User Removed"
	ActionPasswordReset      = "User Password Reset"
	ActionUserStatusChanged  = "User Status Changed"
	ActionCategoryAdded      = "Category Added"
	ActionCategoryRemoved    = "Category Removed"
	ActionBrandingUpdated    = "Branding Updated"
	ActionBackupCreated      = "Backup Created"
	ActionBackupRestored     = "Backup Restored"
)

// ActivityLog records user actions attributed to the active session.
type ActivityLog interface {
	// Append prepends an entry for the signed-in user. Without a session it does nothing.
	Append(ctx context.Context, action string, details map[string]any) error
	// List returns entries newest first.
	List(ctx context.Context) ([]model.LogEntry, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
}

type activityLog struct {
	logs     repository.LogRepository
	sessions repository.SessionRepository
	now      func() time.Time
}

// NewActivityLog constructs an ActivityLog.
func NewActivityLog(logs repository.LogRepository, sessions repository.SessionRepository) ActivityLog {
	return &activityLog{logs: logs, sessions: sessions, now: time.Now}
}

func (a *activityLog) Append(ctx context.Context, action string, details map[string]any) error {
	sess, err := a.sessions.Get(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	return a.logs.Prepend(ctx, model.LogEntry{
		ID:        uuid.NewString(),
		UserID:    sess.ID,
		UserName:  sess.Name,
		Action:    action,
		Timestamp: a.now().UTC().Format(time.RFC3339Nano),
		Details:   details,
	}, MaxLogEntries)
}

func (a *activityLog) List(ctx context.Context) ([]model.LogEntry, error) {
	return a.logs.List(ctx)
}

func (a *activityLog) Clear(ctx context.Context) error {
	return a.logs.Clear(ctx)
}

// record appends to the activity log. A failed append never fails the
// action being recorded; it is reported on log instead.
func record(ctx context.Context, audit ActivityLog, log *slog.Logger, action string, details map[string]any) {
	if audit == nil {
		return
	}
	if err := audit.Append(ctx, action, details); err != nil {
		log.WarnContext(ctx, "activity_log_append_failed",
			"component", "service",
			"action", action,
			"error", err.Error(),
		)
	}
}
