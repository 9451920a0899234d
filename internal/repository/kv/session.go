package kv

import (
	"context"
	"log/slog"

	"docusafe/internal/model"
	"docusafe/internal/repository"
	"docusafe/internal/store"
)

type sessionRepository struct {
	val *store.Value[*model.Session]
}

// NewSessionRepository stores the active session under store.KeySession.
// A corrupted session reads as signed out.
func NewSessionRepository(s store.Store, log *slog.Logger) repository.SessionRepository {
	return &sessionRepository{val: store.NewValue[*model.Session](s, store.KeySession, nil, log)}
}

func (r *sessionRepository) Get(ctx context.Context) (*model.Session, error) {
	return r.val.Get(ctx)
}

func (r *sessionRepository) Set(ctx context.Context, s model.Session) error {
	return r.val.Set(ctx, &s)
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.val.Delete(ctx)
}
