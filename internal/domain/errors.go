package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a missing or malformed input field.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a concurrent write invalidated the
	// caller's expected cart version.
	ErrConflict = errors.New("version conflict")
)
