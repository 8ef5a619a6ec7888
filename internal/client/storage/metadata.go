package storage

import "context"

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastSyncTimestamp saves the timestamp of the last successful pull
	SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error

	// GetLastSyncTimestamp retrieves the timestamp of the last successful pull
	// Returns 0 if no sync has been performed yet
	GetLastSyncTimestamp(ctx context.Context) (int64, error)

	// SaveForcedOffline stores the user-selected offline mode
	SaveForcedOffline(ctx context.Context, offline bool) error

	// GetForcedOffline returns the user-selected offline mode, false by default
	GetForcedOffline(ctx context.Context) (bool, error)
}
