package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrUnknownField indicates the field is not registered for toggling on
	// this aggregate.
	ErrUnknownField = errors.New("repository: unknown toggle field")
	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("repository: duplicate record")
)
