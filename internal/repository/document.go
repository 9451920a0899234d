package repository

import (
	"context"

	"docusafe/internal/model"
)

// DocumentRepository defines data access for the document registry.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// List returns every document, newest upload first.
	List(ctx context.Context) ([]model.Document, error)

	// FindByID returns a document by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// Add prepends doc. It returns ErrDuplicate if the ID is taken.
	Add(ctx context.Context, doc model.Document) error

	// Remove deletes one document and returns it. Other records keep their order.
	Remove(ctx context.Context, id string) (*model.Document, error)

	// RemoveMany deletes every document whose ID is in ids and returns them.
	// Unknown IDs are ignored.
	RemoveMany(ctx context.Context, ids []string) ([]model.Document, error)

	// ReplaceAll overwrites the registry.
	ReplaceAll(ctx context.Context, docs []model.Document) error
}
