package kv

import (
	"context"
	"log/slog"
	"strings"

	"docusafe/internal/model"
	"docusafe/internal/repository"
	"docusafe/internal/store"
)

type userRepository struct {
	users *list[model.User]
}

// NewUserRepository stores accounts under store.KeyUsers.
func NewUserRepository(s store.Store, log *slog.Logger) repository.UserRepository {
	return &userRepository{users: newList[model.User](s, store.KeyUsers, log)}
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	return r.users.load(ctx)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool { return u.ID == id })
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(ctx, func(u model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) find(ctx context.Context, match func(model.User) bool) (*model.User, error) {
	users, err := r.users.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(users[i]) {
			return &users[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) Add(ctx context.Context, u model.User) error {
	return r.users.update(ctx, func(users []model.User) ([]model.User, error) {
		for _, existing := range users {
			if existing.ID == u.ID || strings.EqualFold(existing.Email, u.Email) {
				return nil, repository.ErrDuplicate
			}
		}
		return append(users, u), nil
	})
}

func (r *userRepository) Update(ctx context.Context, u model.User) error {
	return r.users.update(ctx, func(users []model.User) ([]model.User, error) {
		idx := -1
		for i, existing := range users {
			if existing.ID == u.ID {
				idx = i
				continue
			}
			if strings.EqualFold(existing.Email, u.Email) {
				return nil, repository.ErrDuplicate
			}
		}
		if idx < 0 {
			return nil, repository.ErrNotFound
		}
		users[idx] = u
		return users, nil
	})
}

func (r *userRepository) Remove(ctx context.Context, id string) error {
	return r.users.update(ctx, func(users []model.User) ([]model.User, error) {
		for i, u := range users {
			if u.ID == id {
				return append(users[:i], users[i+1:]...), nil
			}
		}
		return nil, repository.ErrNotFound
	})
}

func (r *userRepository) ReplaceAll(ctx context.Context, users []model.User) error {
	return r.users.replace(ctx, users)
}
