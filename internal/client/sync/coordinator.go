// Package sync отправляет отложенные операции на удаленную базу
// и подтягивает удаленное состояние в локальный кеш.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/echomind/internal/client/remote"
	"github.com/iudanet/echomind/internal/client/storage"
	"github.com/iudanet/echomind/internal/models"
	"github.com/iudanet/echomind/pkg/api"
)

//go:generate moq -out remote_mock.go . RemoteDatabase

// RemoteDatabase подмножество remote.Client, нужное координатору
type RemoteDatabase interface {
	Select(ctx context.Context, table string, filters ...remote.Filter) ([]api.Row, error)
	Insert(ctx context.Context, table string, row api.Row) error
	Update(ctx context.Context, table string, row api.Row, filters ...remote.Filter) error
	Delete(ctx context.Context, table string, filters ...remote.Filter) error
}

// Store локальное хранилище, с которым работает координатор
type Store interface {
	storage.CacheStorage
	storage.QueueStorage
	storage.MetadataStorage
}

// ErrEmptyUserID pull без пользователя не выполняется
var ErrEmptyUserID = errors.New("user id is empty")

// DefaultPullConcurrency число коллекций, загружаемых параллельно
const DefaultPullConcurrency = 3

// Config параметры координатора
type Config struct {
	// MaxAttempts после стольких неудачных попыток операция уходит в dead letter.
	// 0 означает бесконечные повторы.
	MaxAttempts int
	// PullConcurrency ограничение параллельных Select при Pull
	PullConcurrency int
}

// DrainResult итог одного прохода по очереди
type DrainResult struct {
	Processed    int // сколько операций взято из очереди
	Succeeded    int // применены на удаленной базе и удалены из очереди
	Failed       int // остались в очереди
	DeadLettered int // переведены в dead letter
}

// PullResult итог загрузки удаленного состояния
type PullResult struct {
	Collections int // сколько коллекций загружено без ошибок
	Failed      int // коллекции, которые не удалось загрузить
	Pulled      int // записей перезаписано в кеше
	Skipped     int // записей, которые не удалось сохранить локально
}

// SyncResult итог Sync: drain, затем pull
type SyncResult struct {
	Drain *DrainResult
	Pull  *PullResult
}

// Coordinator воспроизводит очередь на удаленной базе и загружает удаленные записи
type Coordinator struct {
	remote RemoteDatabase
	store  Store
	logger *slog.Logger
	now    func() time.Time
	cfg    Config
}

// NewCoordinator создает координатор синхронизации
func NewCoordinator(remoteDB RemoteDatabase, store Store, cfg Config, logger *slog.Logger) *Coordinator {
	if cfg.PullConcurrency <= 0 {
		cfg.PullConcurrency = DefaultPullConcurrency
	}
	if cfg.MaxAttempts < 0 {
		cfg.MaxAttempts = 0
	}
	return &Coordinator{
		remote: remoteDB,
		store:  store,
		logger: logger,
		now:    time.Now,
		cfg:    cfg,
	}
}

// DrainPending воспроизводит все отложенные операции в порядке постановки.
// Ошибка одной операции не прерывает проход; прерывает только ошибка чтения очереди.
func (c *Coordinator) DrainPending(ctx context.Context) (*DrainResult, error) {
	ops, err := c.store.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending operations: %w", err)
	}

	result := &DrainResult{}
	if len(ops) == 0 {
		return result, nil
	}

	c.logger.Info("Draining pending operations", "count", len(ops))

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("drain interrupted: %w", err)
		}
		result.Processed++

		if err := Apply(ctx, c.remote, op); err != nil {
			c.logger.Warn("Failed to replay pending operation",
				"op_id", op.ID,
				"kind", op.Kind,
				"collection", op.Collection,
				"record_id", op.RecordID,
				"attempt", op.Attempts+1,
				"error", err)

			if c.recordFailure(ctx, op, err) {
				result.DeadLettered++
			} else {
				result.Failed++
			}
			continue
		}

		if err := c.store.RemovePending(ctx, op.ID); err != nil {
			// операция уже применена, повтор будет идемпотентным
			c.logger.Warn("Failed to remove replayed operation", "op_id", op.ID, "error", err)
		}
		c.markSynced(ctx, op)
		result.Succeeded++
	}

	c.logger.Info("Drain completed",
		"processed", result.Processed,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"dead_lettered", result.DeadLettered)

	return result, nil
}

// recordFailure сохраняет попытку. Возвращает true, если операция ушла в dead letter.
func (c *Coordinator) recordFailure(ctx context.Context, op *models.PendingOperation, cause error) bool {
	now := c.now().UTC()
	op.Attempts++
	op.LastError = cause.Error()
	op.LastAttemptAt = &now

	if c.cfg.MaxAttempts > 0 && op.Attempts >= c.cfg.MaxAttempts {
		if err := c.store.MoveToDeadLetter(ctx, op); err != nil {
			c.logger.Error("Failed to move operation to dead letter", "op_id", op.ID, "error", err)
			return false
		}
		c.logger.Error("Operation abandoned after max attempts",
			"op_id", op.ID,
			"record_id", op.RecordID,
			"attempts", op.Attempts,
			"last_error", op.LastError)
		return true
	}

	if err := c.store.UpdatePending(ctx, op); err != nil {
		c.logger.Warn("Failed to persist operation attempt", "op_id", op.ID, "error", err)
	}
	return false
}

// markSynced помечает запись synced, если после снимка ее никто не менял
func (c *Coordinator) markSynced(ctx context.Context, op *models.PendingOperation) {
	if op.Kind == models.OperationDelete || op.Record == nil {
		return
	}

	cached, err := c.store.Get(ctx, op.Collection, op.RecordID)
	if err != nil {
		if !errors.Is(err, storage.ErrRecordNotFound) {
			c.logger.Warn("Failed to load replayed record", "record_id", op.RecordID, "error", err)
		}
		return
	}

	// более новая локальная версия ждет своей операции в очереди
	if cached.Version != op.Record.Version {
		c.logger.Debug("Record changed since snapshot, keeping pending",
			"record_id", op.RecordID,
			"snapshot_version", op.Record.Version,
			"cached_version", cached.Version)
		return
	}

	cached.SyncStatus = models.SyncStatusSynced
	if err := c.store.Put(ctx, op.Collection, cached); err != nil {
		c.logger.Warn("Failed to mark record synced", "record_id", op.RecordID, "error", err)
	}
}

// Pull перезаписывает локальные записи пользователя удаленными, помечая их synced.
// Локальные записи, которых нет на удаленной базе, не трогаются.
// Отложенные изменения не защищены: перед Pull нужно вызывать DrainPending.
func (c *Coordinator) Pull(ctx context.Context, userID string) (*PullResult, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	c.logger.Info("Pulling remote state", "user_id", userID)

	var collections, failed, pulled, skipped atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(c.cfg.PullConcurrency)

	for _, collection := range models.Collections() {
		g.Go(func() error {
			rows, err := c.remote.Select(ctx, collection, remote.Eq(api.ColumnUserID, userID))
			if err != nil {
				c.logger.Warn("Failed to pull collection", "collection", collection, "error", err)
				failed.Add(1)
				return nil
			}

			for _, row := range rows {
				if err := c.store.Put(ctx, collection, remote.RecordFromRow(collection, row)); err != nil {
					c.logger.Warn("Failed to store pulled record",
						"collection", collection,
						"record_id", row.ID,
						"error", err)
					skipped.Add(1)
					continue
				}
				pulled.Add(1)
			}
			collections.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result := &PullResult{
		Collections: int(collections.Load()),
		Failed:      int(failed.Load()),
		Pulled:      int(pulled.Load()),
		Skipped:     int(skipped.Load()),
	}

	// timestamp отмечает только полностью успешный pull
	if result.Failed == 0 {
		if err := c.store.SaveLastSyncTimestamp(ctx, c.now().Unix()); err != nil {
			// Не прерываем синхронизацию из-за ошибки сохранения timestamp
			c.logger.Warn("Failed to save last sync timestamp", "error", err)
		}
	}

	c.logger.Info("Pull completed",
		"collections", result.Collections,
		"failed", result.Failed,
		"pulled", result.Pulled,
		"skipped", result.Skipped)

	return result, nil
}

// Sync выполняет DrainPending, затем Pull
func (c *Coordinator) Sync(ctx context.Context, userID string) (*SyncResult, error) {
	drain, err := c.DrainPending(ctx)
	if err != nil {
		return &SyncResult{Drain: drain}, fmt.Errorf("drain failed: %w", err)
	}

	pull, err := c.Pull(ctx, userID)
	if err != nil {
		return &SyncResult{Drain: drain}, fmt.Errorf("pull failed: %w", err)
	}

	return &SyncResult{Drain: drain, Pull: pull}, nil
}

// PendingCount возвращает количество операций в очереди
func (c *Coordinator) PendingCount(ctx context.Context) (int, error) {
	ops, err := c.store.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending operations: %w", err)
	}
	return len(ops), nil
}

// DeadLetters возвращает брошенные операции
func (c *Coordinator) DeadLetters(ctx context.Context) ([]*models.PendingOperation, error) {
	ops, err := c.store.ListDeadLetter(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dead letter: %w", err)
	}
	return ops, nil
}

// RequeueDeadLetters возвращает брошенные операции в конец очереди со сброшенным счетчиком.
// Операция, для записи которой в очереди уже есть более новая, отбрасывается:
// иначе старый снимок перезапишет более новый на удаленной базе.
func (c *Coordinator) RequeueDeadLetters(ctx context.Context) (int, error) {
	ops, err := c.store.ListDeadLetter(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list dead letter: %w", err)
	}

	pending, err := c.store.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending operations: %w", err)
	}
	latest := make(map[string]uint64, len(pending))
	for _, op := range pending {
		key := op.Collection + "/" + op.RecordID
		if op.Seq > latest[key] {
			latest[key] = op.Seq
		}
	}

	requeued := 0
	for _, op := range ops {
		if seq, ok := latest[op.Collection+"/"+op.RecordID]; ok && seq > op.Seq {
			c.logger.Warn("Dropping dead letter superseded by newer operation",
				"op_id", op.ID,
				"record_id", op.RecordID,
				"kind", op.Kind)
			continue
		}

		op.Attempts = 0
		op.LastError = ""
		op.LastAttemptAt = nil
		if err := c.store.Enqueue(ctx, op); err != nil {
			return requeued, fmt.Errorf("failed to requeue operation %s: %w", op.ID, err)
		}
		requeued++
	}

	if err := c.store.ClearDeadLetter(ctx); err != nil {
		return requeued, fmt.Errorf("failed to clear dead letter: %w", err)
	}

	if len(ops) > 0 {
		c.logger.Info("Dead letter operations requeued", "count", requeued, "dropped", len(ops)-requeued)
	}
	return requeued, nil
}
