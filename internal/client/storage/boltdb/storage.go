package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/echomind/internal/client/storage"
	"github.com/iudanet/echomind/internal/models"
)

var (
	// BoltDB bucket names
	bucketAuth         = []byte("auth")
	bucketMetadata     = []byte("metadata")
	bucketPending      = []byte("pending_ops")
	bucketPendingIndex = []byte("pending_index")
	bucketDeadLetter   = []byte("dead_letter")
)

// cachePrefix префикс bucket'ов коллекций, например "cache:journals"
const cachePrefix = "cache:"

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db *bbolt.DB
}

var _ storage.Storage = (*Storage)(nil)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		fixed := [][]byte{bucketAuth, bucketMetadata, bucketPending, bucketPendingIndex, bucketDeadLetter}
		for _, name := range fixed {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}

		// По одному bucket на каждую коллекцию
		for _, collection := range models.Collections() {
			if _, err := tx.CreateBucketIfNotExists(collectionBucket(collection)); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", collection, err)
			}
		}

		return nil
	})
}

func collectionBucket(collection string) []byte {
	return []byte(cachePrefix + collection)
}
