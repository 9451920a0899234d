package kv

import (
	"context"
	"log/slog"

	"docusafe/internal/model"
	"docusafe/internal/repository"
	"docusafe/internal/store"
)

type logRepository struct {
	entries *list[model.LogEntry]
}

// NewLogRepository stores the activity log under store.KeyLogs.
func NewLogRepository(s store.Store, log *slog.Logger) repository.LogRepository {
	return &logRepository{entries: newList[model.LogEntry](s, store.KeyLogs, log)}
}

func (r *logRepository) List(ctx context.Context) ([]model.LogEntry, error) {
	return r.entries.load(ctx)
}

func (r *logRepository) Prepend(ctx context.Context, entry model.LogEntry, limit int) error {
	return r.entries.update(ctx, func(entries []model.LogEntry) ([]model.LogEntry, error) {
		out := append([]model.LogEntry{entry}, entries...)
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return out, nil
	})
}

func (r *logRepository) Clear(ctx context.Context) error {
	return r.entries.replace(ctx, []model.LogEntry{})
}

func (r *logRepository) ReplaceAll(ctx context.Context, entries []model.LogEntry) error {
	return r.entries.replace(ctx, entries)
}
