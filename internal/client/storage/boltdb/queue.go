package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/echomind/internal/client/storage"
	"github.com/iudanet/echomind/internal/models"
)

// Очередь хранится в bucket pending_ops с ключом big-endian Seq,
// поэтому ForEach отдает операции в порядке вставки.
// pending_index хранит соответствие ID -> Seq.

// Enqueue assigns op.Seq from the bucket sequence and stores the operation
func (s *Storage) Enqueue(ctx context.Context, op *models.PendingOperation) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPending)
		index := tx.Bucket(bucketPendingIndex)
		if bucket == nil || index == nil {
			return fmt.Errorf("pending bucket not found")
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}
		op.Seq = seq

		data, err := json.Marshal(op)
		if err != nil {
			return fmt.Errorf("failed to marshal operation: %w", err)
		}

		key := seqKey(seq)
		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save operation: %w", err)
		}
		if err := index.Put([]byte(op.ID), key); err != nil {
			return fmt.Errorf("failed to index operation: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("enqueue transaction failed: %w", err)
	}

	return nil
}

// ListPending returns queued operations in insertion order
func (s *Storage) ListPending(ctx context.Context) ([]*models.PendingOperation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	ops, err := s.listOperations(bucketPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending operations: %w", err)
	}
	return ops, nil
}

// UpdatePending overwrites a queued operation, keeping its position
func (s *Storage) UpdatePending(ctx context.Context, op *models.PendingOperation) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPending)
		index := tx.Bucket(bucketPendingIndex)
		if bucket == nil || index == nil {
			return fmt.Errorf("pending bucket not found")
		}

		key := index.Get([]byte(op.ID))
		if key == nil {
			return storage.ErrOperationNotFound
		}

		// Позиция в очереди не меняется
		op.Seq = binary.BigEndian.Uint64(key)

		data, err := json.Marshal(op)
		if err != nil {
			return fmt.Errorf("failed to marshal operation: %w", err)
		}

		return bucket.Put(key, data)
	})
}

// RemovePending deletes an operation from the queue, missing ids are ignored
func (s *Storage) RemovePending(ctx context.Context, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return removeFromQueue(tx, id)
	})
}

// ClearPending drops the whole queue
func (s *Storage) ClearPending(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPending, bucketPendingIndex} {
			if err := recreateBucket(tx, name); err != nil {
				return err
			}
		}
		return nil
	})
}

// MoveToDeadLetter atomically removes op from the queue and stores it as abandoned
func (s *Storage) MoveToDeadLetter(ctx context.Context, op *models.PendingOperation) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		dead := tx.Bucket(bucketDeadLetter)
		if dead == nil {
			return fmt.Errorf("dead letter bucket not found")
		}

		if err := removeFromQueue(tx, op.ID); err != nil {
			return err
		}

		data, err := json.Marshal(op)
		if err != nil {
			return fmt.Errorf("failed to marshal operation: %w", err)
		}

		return dead.Put(seqKey(op.Seq), data)
	})

	if err != nil {
		return fmt.Errorf("dead letter transaction failed: %w", err)
	}

	return nil
}

// ListDeadLetter returns abandoned operations in insertion order
func (s *Storage) ListDeadLetter(ctx context.Context) ([]*models.PendingOperation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	ops, err := s.listOperations(bucketDeadLetter)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead letter operations: %w", err)
	}
	return ops, nil
}

// ClearDeadLetter drops all abandoned operations
func (s *Storage) ClearDeadLetter(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return recreateBucket(tx, bucketDeadLetter)
	})
}

// HasPending reports whether pending_ops or dead_letter hold an operation for the record
func (s *Storage) HasPending(ctx context.Context, collection, recordID string) (bool, error) {
	if s.db == nil {
		return false, storage.ErrStorageClosed
	}

	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPending, bucketDeadLetter} {
			bucket := tx.Bucket(name)
			if bucket == nil {
				continue
			}

			err := bucket.ForEach(func(k, v []byte) error {
				var op models.PendingOperation
				if err := json.Unmarshal(v, &op); err != nil {
					return fmt.Errorf("failed to unmarshal operation: %w", err)
				}
				if op.Collection == collection && op.RecordID == recordID {
					found = true
					return errStopScan
				}
				return nil
			})
			if errors.Is(err, errStopScan) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to scan operations: %w", err)
	}

	return found, nil
}

// errStopScan прерывает ForEach после первого совпадения
var errStopScan = errors.New("stop scan")

func (s *Storage) listOperations(name []byte) ([]*models.PendingOperation, error) {
	ops := []*models.PendingOperation{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(name)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var op models.PendingOperation
			if err := json.Unmarshal(v, &op); err != nil {
				return fmt.Errorf("failed to unmarshal operation: %w", err)
			}
			ops = append(ops, &op)
			return nil
		})
	})

	return ops, err
}

func removeFromQueue(tx *bbolt.Tx, id string) error {
	bucket := tx.Bucket(bucketPending)
	index := tx.Bucket(bucketPendingIndex)
	if bucket == nil || index == nil {
		return fmt.Errorf("pending bucket not found")
	}

	key := index.Get([]byte(id))
	if key == nil {
		return nil
	}

	if err := bucket.Delete(key); err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}
	return index.Delete([]byte(id))
}

func recreateBucket(tx *bbolt.Tx, name []byte) error {
	if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
		return fmt.Errorf("failed to delete bucket %s: %w", name, err)
	}
	if _, err := tx.CreateBucket(name); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	return nil
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
