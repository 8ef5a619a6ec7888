package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/echomind/internal/client/storage"
	"github.com/iudanet/echomind/internal/models"
)

// Put inserts or overwrites a record in the collection bucket
func (s *Storage) Put(ctx context.Context, collection string, record *models.Record) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if !models.IsKnownCollection(collection) {
		return fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}

	// Сериализуем запись в JSON
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(collectionBucket(collection))
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", collection)
		}

		// Сохраняем по ключу ID
		if err := bucket.Put([]byte(record.ID), data); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// GetAll returns all records of the collection in key order
func (s *Storage) GetAll(ctx context.Context, collection string) ([]*models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}
	if !models.IsKnownCollection(collection) {
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}

	records := []*models.Record{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(collectionBucket(collection))
		if bucket == nil {
			// Нет bucket - возвращаем пустой массив
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var record models.Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to unmarshal record %s: %w", k, err)
			}
			records = append(records, &record)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	return records, nil
}

// Get retrieves a record by ID
func (s *Storage) Get(ctx context.Context, collection, id string) (*models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}
	if !models.IsKnownCollection(collection) {
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}

	var record *models.Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(collectionBucket(collection))
		if bucket == nil {
			return storage.ErrRecordNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrRecordNotFound
		}

		// Десериализуем
		record = &models.Record{}
		if err := json.Unmarshal(data, record); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

// Delete removes a single record, missing records are ignored
func (s *Storage) Delete(ctx context.Context, collection, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if !models.IsKnownCollection(collection) {
		return fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(collectionBucket(collection))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(id))
	})

	if err != nil {
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}

// Clear removes all records of the collection
func (s *Storage) Clear(ctx context.Context, collection string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if !models.IsKnownCollection(collection) {
		return fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}

	name := collectionBucket(collection)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		// Удаляем bucket полностью
		if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
			return fmt.Errorf("failed to delete bucket: %w", err)
		}

		// Создаем заново пустой bucket
		if _, err := tx.CreateBucket(name); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("clear transaction failed: %w", err)
	}

	return nil
}
