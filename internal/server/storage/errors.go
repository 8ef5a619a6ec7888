package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrRowNotFound indicates that no row matched the filters
	ErrRowNotFound = errors.New("row not found")

	// ErrRowAlreadyExists indicates that a row with the same id exists in the table
	ErrRowAlreadyExists = errors.New("row already exists")

	// ErrUnknownTable indicates that the table is not one of the known collections
	ErrUnknownTable = errors.New("unknown table")

	// ErrInvalidFilter indicates a filter on a column that cannot be filtered
	ErrInvalidFilter = errors.New("invalid filter")
)
