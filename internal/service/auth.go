package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"docusafe/internal/auth"
	"docusafe/internal/model"
	"docusafe/internal/repository"
)

// MinPasswordLength applies to new and changed passwords.
const MinPasswordLength = 6

// LoginResult is returned on a successful sign-in.
type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      model.PublicUser `json:"user"`
}

// AuthService manages the single session of the store.
type AuthService interface {
	// Login checks the credentials of an active account and replaces the session.
	// A failed login writes nothing.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Logout records the sign-out and removes the session.
	Logout(ctx context.Context) error
	// Current returns the signed-in user or ErrUnauthenticated.
	Current(ctx context.Context) (*model.PublicUser, error)
	// Verify resolves a token to the signed-in user. Tokens of replaced sessions are rejected.
	Verify(ctx context.Context, token string) (*model.PublicUser, error)
	// ChangePassword updates the password of the signed-in user.
	ChangePassword(ctx context.Context, current, next string) error
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	audit    ActivityLog
	secret   []byte
	ttl      time.Duration
	log      *slog.Logger
}

// NewAuthService constructs an AuthService signing tokens with secret.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, audit ActivityLog, secret []byte, ttl time.Duration, log *slog.Logger) AuthService {
	return &authService{users: users, sessions: sessions, audit: audit, secret: secret, ttl: ttl, log: log}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	var user *model.User
	for i := range users {
		if users[i].Email == email && auth.CheckPassword(users[i].Password, password) {
			user = &users[i]
			break
		}
	}
	if user == nil || user.Status == model.StatusInactive {
		return nil, ErrInvalidCredentials
	}

	// Plaintext passwords restored from old backups are upgraded on first use.
	if !auth.IsHashed(user.Password) {
		s.upgradePassword(ctx, *user, password)
	}

	sess := model.Session{
		PublicUser: user.Public(),
		SessionID:  uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
	}
	token, err := auth.GenerateToken(s.secret, s.ttl, user.ID, sess.SessionID, string(user.Role))
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, err
	}
	record(ctx, s.audit, s.log, ActionLoggedIn, map[string]any{"email": user.Email})

	return &LoginResult{
		Token:     token,
		ExpiresAt: sess.CreatedAt.Add(s.ttl),
		User:      sess.PublicUser,
	}, nil
}

func (s *authService) upgradePassword(ctx context.Context, u model.User, plain string) {
	hash, err := auth.HashPassword(plain)
	if err == nil {
		u.Password = hash
		err = s.users.Update(ctx, u)
	}
	if err != nil {
		s.log.WarnContext(ctx, "password_upgrade_failed",
			"component", "service",
			"user_id", u.ID,
			"error", err.Error(),
		)
	}
}

func (s *authService) Logout(ctx context.Context) error {
	sess, err := s.sessions.Get(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	record(ctx, s.audit, s.log, ActionLoggedOut, nil)
	return s.sessions.Clear(ctx)
}

func (s *authService) Current(ctx context.Context) (*model.PublicUser, error) {
	sess, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrUnauthenticated
	}
	return &sess.PublicUser, nil
}

func (s *authService) Verify(ctx context.Context, token string) (*model.PublicUser, error) {
	claims, err := auth.ValidateToken(s.secret, token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	sess, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.SessionID != claims.SessionID || sess.ID != claims.UserID {
		return nil, ErrUnauthenticated
	}
	return &sess.PublicUser, nil
}

func (s *authService) ChangePassword(ctx context.Context, current, next string) error {
	me, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if len(next) < MinPasswordLength {
		return invalid("new password must be at least 6 characters")
	}

	u, err := s.users.FindByID(ctx, me.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	if !auth.CheckPassword(u.Password, current) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	u.Password = hash
	if err := s.users.Update(ctx, *u); err != nil {
		return err
	}
	record(ctx, s.audit, s.log, ActionPasswordChanged, nil)
	return nil
}
