package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"docusafe/internal/auth"
	"docusafe/internal/model"
	"docusafe/internal/repository"
)

// NewUserInput carries the fields of the add-user form.
type NewUserInput struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Role     model.Role   `json:"role"`
	Status   model.Status `json:"status"`
}

// UserService manages accounts. Passwords never leave the service.
type UserService interface {
	List(ctx context.Context) ([]model.PublicUser, error)
	Add(ctx context.Context, in NewUserInput) (*model.PublicUser, error)
	// Remove deletes an account other than the signed-in one.
	Remove(ctx context.Context, id string) error
	ResetPassword(ctx context.Context, id, password string) error
	// ToggleStatus flips active/inactive on an account other than the signed-in one.
	ToggleStatus(ctx context.Context, id string) (*model.PublicUser, error)
}

type userService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	audit    ActivityLog
	log      *slog.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users repository.UserRepository, sessions repository.SessionRepository, audit ActivityLog, log *slog.Logger) UserService {
	return &userService{users: users, sessions: sessions, audit: audit, log: log}
}

func (s *userService) List(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *userService) Add(ctx context.Context, in NewUserInput) (*model.PublicUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, invalid("name, email and password are required")
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return nil, invalid("email is not a valid address")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, invalid("password must be at least 6 characters")
	}
	if in.Role == "" {
		in.Role = model.RoleViewer
	}
	if !in.Role.Valid() {
		return nil, invalid("unknown role " + string(in.Role))
	}
	switch in.Status {
	case "":
		in.Status = model.StatusActive
	case model.StatusActive, model.StatusInactive:
	default:
		return nil, invalid("unknown status " + string(in.Status))
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := model.User{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		Status:   in.Status,
		Password: hash,
	}
	if err := s.users.Add(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	record(ctx, s.audit, s.log, ActionUserAdded, map[string]any{
		"userId": u.ID,
		"email":  u.Email,
		"role":   string(u.Role),
	})
	pub := u.Public()
	return &pub, nil
}

func (s *userService) Remove(ctx context.Context, id string) error {
	if err := s.rejectSelf(ctx, id); err != nil {
		return err
	}
	if err := s.users.Remove(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	record(ctx, s.audit, s.log, ActionUserRemoved, map[string]any{"userId": id})
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, id, password string) error {
	if len(password) < MinPasswordLength {
		return invalid("password must be at least 6 characters")
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hash
	if err := s.users.Update(ctx, *u); err != nil {
		return err
	}
	record(ctx, s.audit, s.log, ActionPasswordReset, map[string]any{"userId": id})
	return nil
}

func (s *userService) ToggleStatus(ctx context.Context, id string) (*model.PublicUser, error) {
	if err := s.rejectSelf(ctx, id); err != nil {
		return nil, err
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Status == model.StatusInactive {
		u.Status = model.StatusActive
	} else {
		u.Status = model.StatusInactive
	}
	if err := s.users.Update(ctx, *u); err != nil {
		return nil, err
	}
	record(ctx, s.audit, s.log, ActionUserStatusChanged, map[string]any{
		"userId": id,
		"status": string(u.Status),
	})
	pub := u.Public()
	return &pub, nil
}

func (s *userService) find(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) rejectSelf(ctx context.Context, id string) error {
	sess, err := s.sessions.Get(ctx)
	if err != nil {
		return err
	}
	if sess != nil && sess.ID == id {
		return ErrSelfAction
	}
	return nil
}
