package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"docusafe/internal/model"
	"docusafe/internal/repository"
)

// BackupService exports and restores every registry except the session.
// File content stays in object storage and is not part of a backup.
type BackupService interface {
	Backup(ctx context.Context) (*model.Backup, error)
	// Restore replaces all registries from raw. Nothing is written unless
	// users, documents, branding and categories are all present, decode and
	// keep ids, emails and category names unique. A session whose user is
	// gone, inactive or has a different role afterwards is ended.
	Restore(ctx context.Context, raw []byte) error
}

type backupService struct {
	users      repository.UserRepository
	documents  repository.DocumentRepository
	branding   repository.BrandingRepository
	categories repository.CategoryRepository
	logs       repository.LogRepository
	sessions   repository.SessionRepository
	audit      ActivityLog
	log        *slog.Logger
}

// NewBackupService constructs a BackupService.
func NewBackupService(
	users repository.UserRepository,
	documents repository.DocumentRepository,
	branding repository.BrandingRepository,
	categories repository.CategoryRepository,
	logs repository.LogRepository,
	sessions repository.SessionRepository,
	audit ActivityLog,
	log *slog.Logger,
) BackupService {
	return &backupService{
		users:      users,
		documents:  documents,
		branding:   branding,
		categories: categories,
		logs:       logs,
		sessions:   sessions,
		audit:      audit,
		log:        log,
	}
}

func (s *backupService) Backup(ctx context.Context) (*model.Backup, error) {
	var (
		b   model.Backup
		err error
	)
	if b.Users, err = s.users.List(ctx); err != nil {
		return nil, err
	}
	if b.Documents, err = s.documents.List(ctx); err != nil {
		return nil, err
	}
	if b.Branding, err = s.branding.Get(ctx); err != nil {
		return nil, err
	}
	if b.Categories, err = s.categories.List(ctx); err != nil {
		return nil, err
	}
	if b.Logs, err = s.logs.List(ctx); err != nil {
		return nil, err
	}

	record(ctx, s.audit, s.log, ActionBackupCreated, map[string]any{
		"users":     len(b.Users),
		"documents": len(b.Documents),
	})
	return &b, nil
}

func (s *backupService) Restore(ctx context.Context, raw []byte) error {
	b, err := decodeBackup(raw)
	if err != nil {
		return err
	}

	if err := s.users.ReplaceAll(ctx, b.Users); err != nil {
		return err
	}
	if err := s.documents.ReplaceAll(ctx, b.Documents); err != nil {
		return err
	}
	if err := s.branding.Set(ctx, b.Branding); err != nil {
		return err
	}
	if err := s.categories.ReplaceAll(ctx, b.Categories); err != nil {
		return err
	}
	if err := s.logs.ReplaceAll(ctx, b.Logs); err != nil {
		return err
	}

	record(ctx, s.audit, s.log, ActionBackupRestored, map[string]any{
		"users":     len(b.Users),
		"documents": len(b.Documents),
	})
	return s.reconcileSession(ctx, b.Users)
}

// reconcileSession ends the session when the restored registry no longer
// backs it, and refreshes its profile otherwise.
func (s *backupService) reconcileSession(ctx context.Context, users []model.User) error {
	sess, err := s.sessions.Get(ctx)
	if err != nil || sess == nil {
		return err
	}
	for _, u := range users {
		if u.ID != sess.ID {
			continue
		}
		if u.Status == model.StatusInactive || u.Role != sess.Role {
			break
		}
		if u.Name == sess.Name && u.Email == sess.Email {
			return nil
		}
		sess.PublicUser = u.Public()
		return s.sessions.Set(ctx, *sess)
	}
	s.log.WarnContext(ctx, "session_ended_by_restore", slog.String("user_id", sess.ID))
	return s.sessions.Clear(ctx)
}

// decodeBackup validates the shape of a backup file.
func decodeBackup(raw []byte) (*model.Backup, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	for _, k := range []string{"users", "documents", "branding", "categories"} {
		v, ok := fields[k]
		if !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidBackup, k)
		}
	}

	var b model.Backup
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if b.Logs == nil {
		b.Logs = []model.LogEntry{}
	}
	if err := validateBackup(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return &b, nil
}

// validateBackup enforces the invariants the registries keep on Add.
// Accounts without a status come from older files and are restored active.
func validateBackup(b *model.Backup) error {
	ids := make(map[string]bool, len(b.Users))
	emails := make(map[string]bool, len(b.Users))
	for i := range b.Users {
		u := &b.Users[i]
		if u.ID == "" || u.Email == "" {
			return fmt.Errorf("user %d: id and email are required", i)
		}
		if ids[u.ID] {
			return fmt.Errorf("duplicate user id %q", u.ID)
		}
		email := strings.ToLower(u.Email)
		if emails[email] {
			return fmt.Errorf("duplicate email %q", u.Email)
		}
		ids[u.ID], emails[email] = true, true

		if !u.Role.Valid() {
			return fmt.Errorf("user %q: unknown role %q", u.ID, u.Role)
		}
		switch u.Status {
		case "":
			u.Status = model.StatusActive
		case model.StatusActive, model.StatusInactive:
		default:
			return fmt.Errorf("user %q: unknown status %q", u.ID, u.Status)
		}
	}

	docs := make(map[string]bool, len(b.Documents))
	for _, d := range b.Documents {
		if d.ID == "" {
			return errors.New("document without id")
		}
		if docs[d.ID] {
			return fmt.Errorf("duplicate document id %q", d.ID)
		}
		docs[d.ID] = true
	}

	names := make(map[string]bool, len(b.Categories))
	for _, n := range b.Categories {
		key := strings.ToLower(n)
		if names[key] {
			return fmt.Errorf("duplicate category %q", n)
		}
		names[key] = true
	}
	return nil
}
