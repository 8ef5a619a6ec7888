package storage

import (
	"context"
)

// SessionStorage defines interface for storing the signed-in session on client
type SessionStorage interface {
	// SaveSession stores session data, replacing the previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves stored session
	// Returns ErrSessionNotFound if nobody is signed in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes stored session (logout)
	DeleteSession(ctx context.Context) error
}

// Session represents authentication information in storage
type Session struct {
	Email       string `json:"email"`
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix seconds
}

// Storage combines every client store. boltdb.Storage and memory.Storage implement it.
type Storage interface {
	CacheStorage
	QueueStorage
	MetadataStorage
	SessionStorage
}
