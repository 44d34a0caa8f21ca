package repository

import "errors"

// Common storage errors. Implementations map driver-specific failures onto
// these so the service layer never inspects driver errors.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means an insert or update violated a unique constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Per-resource aliases, kept for readable call sites.
var (
	ErrUserNotFound      = ErrNotFound
	ErrCharacterNotFound = ErrNotFound
)
