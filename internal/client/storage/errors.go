package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no session is stored
	ErrSessionNotFound = errors.New("session not found")

	// ErrRecordNotFound indicates that cached record was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrOperationNotFound indicates that pending operation was not found
	ErrOperationNotFound = errors.New("pending operation not found")

	// ErrUnknownCollection indicates that collection is not one of models.Collections
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
