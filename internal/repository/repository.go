// Package repository contains data access layer abstractions.
// Each registry is persisted under a single store key; implementations live
// in subpackages (kv).
package repository

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("record already exists")
)
