package model

import "time"

// Role is the permission level of a user account.
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleDataEntryOperator Role = "data-entry-operator"
	RoleViewer            Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDataEntryOperator, RoleViewer:
		return true
	}
	return false
}

// Status tells whether an account may sign in.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is an account in the user registry. Password holds a bcrypt hash;
// plaintext values restored from old backups are tolerated at login.
type User struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Role     Role   `json:"role" yaml:"role"`
	Status   Status `json:"status" yaml:"status"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// Public strips the password.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}
}

// PublicUser is the password-free view of a User.
type PublicUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Status Status `json:"status"`
}

// Session identifies the signed-in user. There is at most one per store.
type Session struct {
	PublicUser
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}
