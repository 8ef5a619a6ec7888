package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/echomind/internal/client/storage"
)

const (
	keyLastSyncTimestamp = "last_sync_timestamp"
	keyForcedOffline     = "forced_offline"
)

// SaveLastSyncTimestamp saves the timestamp of the last successful pull
func (s *Storage) SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error {
	// Конвертируем int64 в bytes
	timestampBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timestampBytes, uint64(timestamp))

	if err := s.putMetadata([]byte(keyLastSyncTimestamp), timestampBytes); err != nil {
		return fmt.Errorf("failed to save last sync timestamp: %w", err)
	}
	return nil
}

// GetLastSyncTimestamp retrieves the timestamp of the last successful pull
// Returns 0 if no sync has been performed yet
func (s *Storage) GetLastSyncTimestamp(ctx context.Context) (int64, error) {
	timestampBytes, err := s.getMetadata([]byte(keyLastSyncTimestamp))
	if err != nil {
		return 0, fmt.Errorf("failed to get last sync timestamp: %w", err)
	}

	// Если timestamp не найден, возвращаем 0 (первая синхронизация)
	if len(timestampBytes) != 8 {
		return 0, nil
	}

	return int64(binary.BigEndian.Uint64(timestampBytes)), nil
}

// SaveForcedOffline stores the user-selected offline mode
func (s *Storage) SaveForcedOffline(ctx context.Context, offline bool) error {
	value := []byte{0}
	if offline {
		value[0] = 1
	}

	if err := s.putMetadata([]byte(keyForcedOffline), value); err != nil {
		return fmt.Errorf("failed to save offline mode: %w", err)
	}
	return nil
}

// GetForcedOffline returns the user-selected offline mode
func (s *Storage) GetForcedOffline(ctx context.Context) (bool, error) {
	value, err := s.getMetadata([]byte(keyForcedOffline))
	if err != nil {
		return false, fmt.Errorf("failed to get offline mode: %w", err)
	}
	return len(value) == 1 && value[0] == 1, nil
}

func (s *Storage) putMetadata(key, value []byte) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		return bucket.Put(key, value)
	})
}

func (s *Storage) getMetadata(key []byte) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var value []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Значение действительно только внутри транзакции, копируем
		if v := bucket.Get(key); v != nil {
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})

	return value, err
}
