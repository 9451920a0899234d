package repository

import (
	"context"

	"docusafe/internal/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Add appends u; ErrDuplicate when the email or ID is taken.
	Add(ctx context.Context, u model.User) error
	// Update replaces the account with the same ID.
	Update(ctx context.Context, u model.User) error
	Remove(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, users []model.User) error
}

// SessionRepository holds the single active session.
type SessionRepository interface {
	// Get returns the session or nil when nobody is signed in.
	Get(ctx context.Context) (*model.Session, error)
	Set(ctx context.Context, s model.Session) error
	Clear(ctx context.Context) error
}
