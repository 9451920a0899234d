package kv

import (
	"context"
	"log/slog"

	"docusafe/internal/model"
	"docusafe/internal/repository"
	"docusafe/internal/store"
)

type documentRepository struct {
	docs *list[model.Document]
}

// NewDocumentRepository stores documents under store.KeyDocuments.
func NewDocumentRepository(s store.Store, log *slog.Logger) repository.DocumentRepository {
	return &documentRepository{docs: newList[model.Document](s, store.KeyDocuments, log)}
}

func (r *documentRepository) List(ctx context.Context) ([]model.Document, error) {
	return r.docs.load(ctx)
}

func (r *documentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	docs, err := r.docs.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].ID == id {
			return &docs[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *documentRepository) Add(ctx context.Context, doc model.Document) error {
	return r.docs.update(ctx, func(docs []model.Document) ([]model.Document, error) {
		for _, d := range docs {
			if d.ID == doc.ID {
				return nil, repository.ErrDuplicate
			}
		}
		return append([]model.Document{doc}, docs...), nil
	})
}

func (r *documentRepository) Remove(ctx context.Context, id string) (*model.Document, error) {
	var removed *model.Document
	err := r.docs.update(ctx, func(docs []model.Document) ([]model.Document, error) {
		out := make([]model.Document, 0, len(docs))
		for i := range docs {
			if docs[i].ID == id && removed == nil {
				removed = &docs[i]
				continue
			}
			out = append(out, docs[i])
		}
		if removed == nil {
			return nil, repository.ErrNotFound
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *documentRepository) RemoveMany(ctx context.Context, ids []string) ([]model.Document, error) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	var removed []model.Document
	err := r.docs.update(ctx, func(docs []model.Document) ([]model.Document, error) {
		removed = removed[:0]
		out := make([]model.Document, 0, len(docs))
		for _, d := range docs {
			if _, ok := drop[d.ID]; ok {
				removed = append(removed, d)
				continue
			}
			out = append(out, d)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *documentRepository) ReplaceAll(ctx context.Context, docs []model.Document) error {
	return r.docs.replace(ctx, docs)
}
