package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"docusafe/internal/model"
	"docusafe/internal/repository"
	"docusafe/internal/storage"
)

const (
	// DefaultURLExpiry is used when DownloadURL is called without an expiry.
	DefaultURLExpiry = 15 * time.Minute
	maxURLExpiry     = 7 * 24 * time.Hour
	idAttempts       = 5
)

// UploadInput carries the upload form and the file stream.
type UploadInput struct {
	Title       string
	Category    string
	Description string
	Keywords    string
	FileName    string
	ContentType string
	Size        int64 // -1 when unknown
	Content     io.Reader
}

// SearchQuery filters the registry. Empty fields match everything.
type SearchQuery struct {
	Q        string // substring of title, description or keywords
	Title    string // substring of title
	Keywords string // substring of keywords
	Category string // exact category
	Date     string // exact YYYY-MM-DD
	Tab      string // lower-cased category, "all" matches everything
}

// ForwardInput is the forward-by-email form.
type ForwardInput struct {
	RecipientEmail string `json:"recipientEmail"`
	Message        string `json:"message,omitempty"`
}

// ForwardDraft is an email ready to be sent by the user's mail client.
type ForwardDraft struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload streams the content to object storage, then prepends the record.
	// The stored object is removed again when the record cannot be saved.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)

	// List returns every document, newest first.
	List(ctx context.Context) ([]model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Search returns the documents matching every non-empty filter, in registry order.
	Search(ctx context.Context, q SearchQuery) ([]model.Document, error)

	// Stats counts documents per category.
	Stats(ctx context.Context) (*model.DocumentStats, error)

	// Delete removes a document from storage, then its record.
	Delete(ctx context.Context, id string) error

	// DeleteMany removes every listed document and returns how many existed.
	DeleteMany(ctx context.Context, ids []string) (int, error)

	// Download opens the file of a document. The caller closes the reader.
	Download(ctx context.Context, id string) (io.ReadCloser, *model.Document, error)

	// DownloadURL returns a time-limited link to the file of a document.
	DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error)

	// Forward drafts an email sharing the document. Nothing is sent.
	Forward(ctx context.Context, id string, in ForwardInput) (*ForwardDraft, error)
}

type documentService struct {
	files      storage.Storage
	docs       repository.DocumentRepository
	categories repository.CategoryRepository
	sessions   repository.SessionRepository
	audit      ActivityLog
	log        *slog.Logger
	now        func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	files storage.Storage,
	docs repository.DocumentRepository,
	categories repository.CategoryRepository,
	sessions repository.SessionRepository,
	audit ActivityLog,
	log *slog.Logger,
) DocumentService {
	return &documentService{
		files:      files,
		docs:       docs,
		categories: categories,
		sessions:   sessions,
		audit:      audit,
		log:        log,
		now:        time.Now,
	}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.Keywords = strings.TrimSpace(in.Keywords)
	if in.Title == "" || in.Category == "" || in.Description == "" || in.Keywords == "" || in.Content == nil || in.FileName == "" {
		return nil, invalid("please fill out all fields to upload a document")
	}
	if err := s.requireCategory(ctx, in.Category); err != nil {
		return nil, err
	}

	id, err := s.newID(ctx)
	if err != nil {
		return nil, err
	}
	fileName := cleanFileName(in.FileName)
	key := path.Join("documents", id, fileName)

	objInfo, err := s.files.Put(ctx, key, in.Content, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": fileName,
			"document-id":       id,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := model.Document{
		ID:          id,
		Title:       in.Title,
		Category:    in.Category,
		Date:        s.now().UTC().Format(time.DateOnly),
		Description: in.Description,
		Keywords:    in.Keywords,
		FileKey:     key,
		FileName:    fileName,
		ContentType: in.ContentType,
		Size:        objInfo.Size,
	}
	if err := s.docs.Add(ctx, doc); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("registry save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("registry save failed: %w", err)
	}

	record(ctx, s.audit, s.log, ActionDocumentUploaded, map[string]any{
		"documentId":    doc.ID,
		"documentTitle": doc.Title,
	})
	return &doc, nil
}

func (s *documentService) requireCategory(ctx context.Context, category string) error {
	names, err := s.categories.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == category {
			return nil
		}
	}
	return invalid("unknown category " + category)
}

// newID returns a DOC- id not present in the registry.
func (s *documentService) newID(ctx context.Context) (string, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return "", err
	}
	taken := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		taken[d.ID] = struct{}{}
	}
	for i := 0; i < idAttempts; i++ {
		id := "DOC-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		if _, ok := taken[id]; !ok {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a document id")
}

func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return "file"
	}
	return name
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	return s.docs.List(ctx)
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, invalid("id is required")
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Search(ctx context.Context, q SearchQuery) ([]model.Document, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if q.matches(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (q SearchQuery) matches(d model.Document) bool {
	if q.Q != "" && !containsFold(d.Title, q.Q) && !containsFold(d.Description, q.Q) && !containsFold(d.Keywords, q.Q) {
		return false
	}
	if q.Title != "" && !containsFold(d.Title, q.Title) {
		return false
	}
	if q.Keywords != "" && !containsFold(d.Keywords, q.Keywords) {
		return false
	}
	if q.Category != "" && d.Category != q.Category {
		return false
	}
	if q.Date != "" && d.Date != q.Date {
		return false
	}
	if tab := strings.ToLower(q.Tab); tab != "" && tab != "all" && strings.ToLower(d.Category) != tab {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (s *documentService) Stats(ctx context.Context) (*model.DocumentStats, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(names))
	for _, d := range docs {
		counts[d.Category]++
	}
	stats := &model.DocumentStats{Total: len(docs), Categories: make([]model.CategoryStat, 0, len(names))}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
		stats.Categories = append(stats.Categories, model.CategoryStat{Category: n, Count: counts[n]})
	}
	// Documents filed under a removed category are still counted.
	for _, d := range docs {
		if !seen[d.Category] {
			seen[d.Category] = true
			stats.Categories = append(stats.Categories, model.CategoryStat{Category: d.Category, Count: counts[d.Category]})
		}
	}
	return stats, nil
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// Storage goes first; a failure keeps the record so the object is not orphaned.
	if doc.HasFile() {
		if err := s.files.Delete(ctx, doc.FileKey); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	if _, err := s.docs.Remove(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	record(ctx, s.audit, s.log, ActionDocumentDeleted, map[string]any{"documentId": id})
	return nil
}

func (s *documentService) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, invalid("no documents selected")
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	docs, err := s.docs.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, d := range docs {
		if _, ok := want[d.ID]; !ok || !d.HasFile() {
			continue
		}
		if err := s.files.Delete(ctx, d.FileKey); err != nil {
			return 0, fmt.Errorf("delete storage: %w", err)
		}
	}

	removed, err := s.docs.RemoveMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	if len(removed) > 0 {
		removedIDs := make([]string, 0, len(removed))
		for _, d := range removed {
			removedIDs = append(removedIDs, d.ID)
		}
		record(ctx, s.audit, s.log, ActionDocumentsDeleted, map[string]any{"documentIds": removedIDs})
	}
	return len(removed), nil
}

func (s *documentService) Download(ctx context.Context, id string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !doc.HasFile() {
		return nil, nil, ErrNoFile
	}
	rc, _, err := s.files.Get(ctx, doc.FileKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNoFile
		}
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	record(ctx, s.audit, s.log, ActionDocumentDownloaded, map[string]any{
		"documentId":    doc.ID,
		"documentTitle": doc.Title,
	})
	return rc, doc, nil
}

func (s *documentService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	if expiry > maxURLExpiry {
		return "", invalid("expiry must not exceed 7 days")
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !doc.HasFile() {
		return "", ErrNoFile
	}
	u, err := s.files.PresignGet(ctx, doc.FileKey, expiry)
	if err != nil {
		if errors.Is(err, storage.ErrPresignUnsupported) {
			return "", ErrURLUnsupported
		}
		return "", fmt.Errorf("presign: %w", err)
	}
	return u, nil
}

func (s *documentService) Forward(ctx context.Context, id string, in ForwardInput) (*ForwardDraft, error) {
	in.RecipientEmail = strings.TrimSpace(in.RecipientEmail)
	addr, err := mail.ParseAddress(in.RecipientEmail)
	if err != nil {
		return nil, invalid("recipient email is not a valid address")
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sender := ""
	if sess, err := s.sessions.Get(ctx); err == nil && sess != nil {
		sender = sess.Name
	}
	body, err := renderForward(forwardData{
		Title:       doc.Title,
		Description: doc.Description,
		Message:     strings.TrimSpace(in.Message),
		Sender:      sender,
	})
	if err != nil {
		return nil, err
	}

	record(ctx, s.audit, s.log, ActionDocumentForwarded, map[string]any{
		"documentId":    doc.ID,
		"documentTitle": doc.Title,
		"recipient":     addr.Address,
	})
	return &ForwardDraft{
		To:      addr.Address,
		Subject: "Fwd: " + doc.Title,
		Body:    body,
	}, nil
}
