package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/echomind/internal/client/storage"
	clientsync "github.com/iudanet/echomind/internal/client/sync"
	"github.com/iudanet/echomind/internal/models"
)

// Store локальный кеш и очередь
type Store interface {
	storage.CacheStorage
	storage.QueueStorage
}

// Connectivity текущее состояние сети
type Connectivity interface {
	Online() bool
}

// UserSource возвращает текущего пользователя
type UserSource interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Service пишет сквозь локальный кеш.
// В online запись сразу уходит на удаленную базу, в offline ставится в очередь.
type Service struct {
	store   Store
	remote  clientsync.RemoteDatabase
	network Connectivity
	users   UserSource
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new data service
func NewService(store Store, remoteDB clientsync.RemoteDatabase, network Connectivity, users UserSource, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		remote:  remoteDB,
		network: network,
		users:   users,
		logger:  logger,
		now:     time.Now,
	}
}

// Save сохраняет payload в коллекцию под id (новый UUID, если id пустой).
// Ошибка отправки на удаленную базу не возвращается: запись остается в очереди.
// Возвращается ошибка, если операцию не удалось поставить в очередь.
func (s *Service) Save(ctx context.Context, collection, id string, payload any) (*models.Record, error) {
	if !models.IsKnownCollection(collection) {
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownCollection, collection)
	}

	userID, err := s.users.CurrentUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	if id == "" {
		id = uuid.New().String()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	now := s.now().UTC()
	record := &models.Record{
		CreatedAt:  now,
		UpdatedAt:  now,
		ID:         id,
		Collection: collection,
		UserID:     userID,
		SyncStatus: models.SyncStatusPending,
		Data:       data,
		Version:    1,
	}
	kind := models.OperationAdd

	existing, err := s.store.Get(ctx, collection, id)
	switch {
	case err == nil:
		record.CreatedAt = existing.CreatedAt
		record.Version = existing.Version + 1
		kind = models.OperationUpdate
	case errors.Is(err, storage.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	if err := s.store.Put(ctx, collection, record); err != nil {
		return nil, fmt.Errorf("failed to save record: %w", err)
	}

	op := &models.PendingOperation{
		CreatedAt:  now,
		Record:     record.Clone(),
		ID:         uuid.New().String(),
		Kind:       kind,
		Collection: collection,
		RecordID:   id,
	}

	unsent, err := s.hasUnsent(ctx, existing, collection, id)
	if err != nil {
		return nil, err
	}

	synced, err := s.writeThrough(ctx, op, unsent)
	if err != nil {
		return nil, err
	}
	if synced {
		record.SyncStatus = models.SyncStatusSynced
		if err := s.store.Put(ctx, collection, record); err != nil {
			return nil, fmt.Errorf("failed to mark record synced: %w", err)
		}
	}

	return record, nil
}

// Delete удаляет запись локально и на удаленной базе (или ставит удаление в очередь)
func (s *Service) Delete(ctx context.Context, collection, id string) error {
	existing, err := s.store.Get(ctx, collection, id)
	if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
		return fmt.Errorf("failed to load record: %w", err)
	}

	unsent, err := s.hasUnsent(ctx, existing, collection, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	op := &models.PendingOperation{
		CreatedAt:  s.now().UTC(),
		ID:         uuid.New().String(),
		Kind:       models.OperationDelete,
		Collection: collection,
		RecordID:   id,
	}
	if _, err := s.writeThrough(ctx, op, unsent); err != nil {
		return err
	}

	return nil
}

// hasUnsent сообщает, есть ли у записи неотправленные операции.
// Pull помечает запись synced, даже если ее операция еще в очереди,
// поэтому статуса кеша недостаточно: проверяем очередь и dead letter.
// Новые операции такой записи идут только через очередь, после старых.
func (s *Service) hasUnsent(ctx context.Context, existing *models.Record, collection, id string) (bool, error) {
	if existing != nil && existing.IsPending() {
		return true, nil
	}

	queued, err := s.store.HasPending(ctx, collection, id)
	if err != nil {
		return false, fmt.Errorf("failed to check pending operations: %w", err)
	}
	return queued, nil
}

// writeThrough отправляет операцию на удаленную базу или ставит в очередь.
// Возвращает true, если операция применена удаленно.
// Ошибка означает, что операцию не удалось ни отправить, ни сохранить в очереди.
func (s *Service) writeThrough(ctx context.Context, op *models.PendingOperation, forceQueue bool) (bool, error) {
	if !forceQueue && s.network.Online() {
		err := clientsync.Apply(ctx, s.remote, op)
		if err == nil {
			return true, nil
		}
		s.logger.Warn("Remote write failed, queueing",
			"collection", op.Collection,
			"record_id", op.RecordID,
			"kind", op.Kind,
			"error", err)
		op.Attempts = 1
		op.LastError = err.Error()
		at := s.now().UTC()
		op.LastAttemptAt = &at
	}

	if err := s.store.Enqueue(ctx, op); err != nil {
		s.logger.Error("Failed to enqueue operation",
			"collection", op.Collection,
			"record_id", op.RecordID,
			"error", err)
		return false, fmt.Errorf("failed to enqueue operation: %w", err)
	}
	s.logger.Debug("Operation queued", "op_id", op.ID, "kind", op.Kind, "record_id", op.RecordID)
	return false, nil
}

// Get возвращает запись коллекции
func (s *Service) Get(ctx context.Context, collection, id string) (*models.Record, error) {
	record, err := s.store.Get(ctx, collection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return record, nil
}

// List возвращает записи коллекции, новые первыми
func (s *Service) List(ctx context.Context, collection string) ([]*models.Record, error) {
	records, err := s.store.GetAll(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}
