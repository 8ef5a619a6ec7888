package storage

import (
	"context"

	"github.com/iudanet/echomind/internal/models"
)

// CacheStorage defines the local key-value cache, one store per collection.
// Records are keyed by ID. No schema validation is performed.
type CacheStorage interface {
	// Put inserts or overwrites a record by ID
	Put(ctx context.Context, collection string, record *models.Record) error

	// GetAll returns every record of the collection, order is storage defined
	GetAll(ctx context.Context, collection string) ([]*models.Record, error)

	// Get retrieves a record by ID
	// Returns ErrRecordNotFound if record doesn't exist
	Get(ctx context.Context, collection, id string) (*models.Record, error)

	// Delete removes a single record. Deleting a missing record is not an error
	Delete(ctx context.Context, collection, id string) error

	// Clear removes all records of the collection (logout)
	Clear(ctx context.Context, collection string) error
}
