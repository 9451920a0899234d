package service

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrEmailExists        = errors.New("user with this email already exists")
	ErrCategoryExists     = errors.New("category already exists")
	ErrSelfAction         = errors.New("this action cannot be performed on your own account")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrInvalidBackup      = errors.New("invalid backup file")
	ErrNoFile             = errors.New("document has no file attached")
	ErrURLUnsupported     = errors.New("download urls are not supported by the storage driver")
)

// invalid wraps ErrValidation with a user-facing reason.
func invalid(reason string) error {
	return &validationError{reason: reason}
}

type validationError struct{ reason string }

func (e *validationError) Error() string { return e.reason }
func (e *validationError) Unwrap() error { return ErrValidation }
