// Package memory implements storage.Storage in process memory.
// Used by tests and by sessions that run without a database file.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iudanet/echomind/internal/client/storage"
	"github.com/iudanet/echomind/internal/models"
)

// Storage хранит коллекции, очередь и метаданные в памяти.
// Все возвращаемые значения являются копиями.
type Storage struct {
	collections   map[string]map[string]*models.Record // map[collection]map[id]record
	pending       map[string]*models.PendingOperation  // map[id]op
	deadLetter    map[string]*models.PendingOperation
	session       *storage.Session
	seq           uint64
	lastSync      int64
	forcedOffline bool
	mu            sync.RWMutex
}

var _ storage.Storage = (*Storage)(nil)

// New creates an empty in-memory storage with every known collection.
func New() *Storage {
	s := &Storage{
		collections: make(map[string]map[string]*models.Record),
		pending:     make(map[string]*models.PendingOperation),
		deadLetter:  make(map[string]*models.PendingOperation),
	}
	for _, c := range models.Collections() {
		s.collections[c] = make(map[string]*models.Record)
	}
	return s
}

func (s *Storage) bucket(collection string) (map[string]*models.Record, error) {
	b, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}
	return b, nil
}

// Put inserts or overwrites a record.
func (s *Storage) Put(ctx context.Context, collection string, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bucket(collection)
	if err != nil {
		return err
	}
	b[record.ID] = record.Clone()
	return nil
}

// GetAll returns records sorted by ID.
func (s *Storage) GetAll(ctx context.Context, collection string) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.bucket(collection)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Record, 0, len(b))
	for _, r := range b {
		result = append(result, r.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

// Get returns a record or storage.ErrRecordNotFound.
func (s *Storage) Get(ctx context.Context, collection, id string) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.bucket(collection)
	if err != nil {
		return nil, err
	}

	r, ok := b[id]
	if !ok {
		return nil, storage.ErrRecordNotFound
	}
	return r.Clone(), nil
}

// Delete removes a record.
func (s *Storage) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.bucket(collection)
	if err != nil {
		return err
	}
	delete(b, id)
	return nil
}

// Clear removes all records of the collection.
func (s *Storage) Clear(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.bucket(collection); err != nil {
		return err
	}
	s.collections[collection] = make(map[string]*models.Record)
	return nil
}

// Enqueue assigns the next sequence number and stores op.
func (s *Storage) Enqueue(ctx context.Context, op *models.PendingOperation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	op.Seq = s.seq
	s.pending[op.ID] = cloneOperation(op)
	return nil
}

// ListPending returns queued operations ordered by Seq.
func (s *Storage) ListPending(ctx context.Context) ([]*models.PendingOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedOperations(s.pending), nil
}

// UpdatePending replaces a queued operation keeping its Seq.
func (s *Storage) UpdatePending(ctx context.Context, op *models.PendingOperation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.pending[op.ID]
	if !ok {
		return storage.ErrOperationNotFound
	}
	op.Seq = existing.Seq
	s.pending[op.ID] = cloneOperation(op)
	return nil
}

// RemovePending deletes an operation from the queue.
func (s *Storage) RemovePending(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
	return nil
}

// ClearPending drops the queue.
func (s *Storage) ClearPending(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = make(map[string]*models.PendingOperation)
	return nil
}

// MoveToDeadLetter moves op from the queue to the dead letter store.
func (s *Storage) MoveToDeadLetter(ctx context.Context, op *models.PendingOperation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, op.ID)
	s.deadLetter[op.ID] = cloneOperation(op)
	return nil
}

// ListDeadLetter returns abandoned operations ordered by Seq.
func (s *Storage) ListDeadLetter(ctx context.Context) ([]*models.PendingOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedOperations(s.deadLetter), nil
}

// HasPending reports whether a queued or abandoned operation targets the record.
func (s *Storage) HasPending(ctx context.Context, collection, recordID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ops := range []map[string]*models.PendingOperation{s.pending, s.deadLetter} {
		for _, op := range ops {
			if op.Collection == collection && op.RecordID == recordID {
				return true, nil
			}
		}
	}
	return false, nil
}

// ClearDeadLetter drops abandoned operations.
func (s *Storage) ClearDeadLetter(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deadLetter = make(map[string]*models.PendingOperation)
	return nil
}

// SaveLastSyncTimestamp stores the last pull timestamp.
func (s *Storage) SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSync = timestamp
	return nil
}

// GetLastSyncTimestamp returns the last pull timestamp, 0 if none.
func (s *Storage) GetLastSyncTimestamp(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSync, nil
}

// SaveForcedOffline stores the user-selected offline mode.
func (s *Storage) SaveForcedOffline(ctx context.Context, offline bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forcedOffline = offline
	return nil
}

// GetForcedOffline returns the user-selected offline mode.
func (s *Storage) GetForcedOffline(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.forcedOffline, nil
}

// SaveSession stores the session.
func (s *Storage) SaveSession(ctx context.Context, session *storage.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.session = &copied
	return nil
}

// GetSession returns the session or storage.ErrSessionNotFound.
func (s *Storage) GetSession(ctx context.Context) (*storage.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil, storage.ErrSessionNotFound
	}
	copied := *s.session
	return &copied, nil
}

// DeleteSession removes the session.
func (s *Storage) DeleteSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return storage.ErrSessionNotFound
	}
	s.session = nil
	return nil
}

func cloneOperation(op *models.PendingOperation) *models.PendingOperation {
	copied := *op
	if op.Record != nil {
		copied.Record = op.Record.Clone()
	}
	if op.LastAttemptAt != nil {
		at := *op.LastAttemptAt
		copied.LastAttemptAt = &at
	}
	return &copied
}

func sortedOperations(ops map[string]*models.PendingOperation) []*models.PendingOperation {
	result := make([]*models.PendingOperation, 0, len(ops))
	for _, op := range ops {
		result = append(result, cloneOperation(op))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Seq < result[j].Seq })
	return result
}
