// Package network хранит состояние связи и запускает синхронизацию при переходе в online.
package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	clientsync "github.com/iudanet/echomind/internal/client/sync"
)

// ErrOffline ручная синхронизация без связи не запускается
var ErrOffline = errors.New("network is offline")

// DefaultCheckInterval период проверки доступности сервера
const DefaultCheckInterval = 3 * time.Second

// SyncTask фоновая синхронизация
type SyncTask = clientsync.Task[*clientsync.SyncResult]

// Observer получает уведомления о смене состояния сети
type Observer interface {
	NetworkChanged(online bool)
}

// ObserverFunc адаптер функции к Observer
type ObserverFunc func(online bool)

// NetworkChanged вызывает f(online)
func (f ObserverFunc) NetworkChanged(online bool) {
	f(online)
}

// Syncer выполняет drain, затем pull
type Syncer interface {
	Sync(ctx context.Context, userID string) (*clientsync.SyncResult, error)
}

// UserSource возвращает текущего пользователя
type UserSource interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Prober проверяет доступность удаленной базы. nil означает online.
type Prober interface {
	Probe(ctx context.Context) error
}

// Config параметры монитора
type Config struct {
	CheckInterval   time.Duration
	InitiallyOnline bool
}

type subscription struct {
	observer Observer
	id       int
}

// Monitor явный объект состояния сети.
// Переход offline -> online запускает синхронизацию в фоне.
type Monitor struct {
	syncer    Syncer
	users     UserSource
	prober    Prober
	logger    *slog.Logger
	baseCtx   context.Context
	current   *SyncTask
	observers []subscription
	interval  time.Duration
	nextID    int
	mu        sync.Mutex
	online    bool
}

// NewMonitor создает монитор. prober может быть nil, если Run не используется.
func NewMonitor(syncer Syncer, users UserSource, prober Prober, cfg Config, logger *slog.Logger) *Monitor {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	return &Monitor{
		syncer:   syncer,
		users:    users,
		prober:   prober,
		logger:   logger,
		baseCtx:  context.Background(),
		interval: cfg.CheckInterval,
		online:   cfg.InitiallyOnline,
	}
}

// Online возвращает текущее состояние сети
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe регистрирует наблюдателя. Возвращает функцию отписки.
func (m *Monitor) Subscribe(o Observer) (unsubscribe func()) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.observers = append(m.observers, subscription{id: id, observer: o})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.observers {
				if s.id == id {
					m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// SetOnline применяет сигнал о состоянии сети.
// Повтор того же состояния ничего не делает. При переходе в online
// возвращает запущенную задачу синхронизации, иначе nil.
func (m *Monitor) SetOnline(online bool) *SyncTask {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return nil
	}
	m.online = online
	observers := make([]Observer, 0, len(m.observers))
	for _, s := range m.observers {
		observers = append(observers, s.observer)
	}
	ctx := m.baseCtx
	m.mu.Unlock()

	m.logger.Info("Network state changed", "online", online)

	for _, o := range observers {
		o.NetworkChanged(online)
	}

	if !online {
		return nil
	}
	return m.startSync(ctx)
}

// TriggerSync запускает синхронизацию вручную.
// Если синхронизация уже идет, возвращает ее задачу.
func (m *Monitor) TriggerSync(ctx context.Context) *SyncTask {
	if !m.Online() {
		return clientsync.Go(ctx, func(ctx context.Context) (*clientsync.SyncResult, error) {
			return nil, ErrOffline
		})
	}
	return m.startSync(ctx)
}

func (m *Monitor) startSync(ctx context.Context) *SyncTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		select {
		case <-m.current.Done():
		default:
			m.logger.Debug("Sync already in flight")
			return m.current
		}
	}

	m.current = clientsync.Go(ctx, m.runSync)
	return m.current
}

func (m *Monitor) runSync(ctx context.Context) (*clientsync.SyncResult, error) {
	userID, err := m.users.CurrentUserID(ctx)
	if err != nil {
		m.logger.Warn("Sync skipped: no authenticated user", "error", err)
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	result, err := m.syncer.Sync(ctx, userID)
	if err != nil {
		m.logger.Error("Sync failed", "user_id", userID, "error", err)
		return result, err
	}
	return result, nil
}

// Run опрашивает Prober каждые CheckInterval и передает результат в SetOnline.
// Первая проверка выполняется сразу. Завершается при отмене ctx.
func (m *Monitor) Run(ctx context.Context) error {
	if m.prober == nil {
		return errors.New("network monitor has no prober")
	}

	m.mu.Lock()
	m.baseCtx = ctx
	m.mu.Unlock()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.probe(ctx)
	for {
		select {
		case <-ticker.C:
			m.probe(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	err := m.prober.Probe(ctx)
	if err != nil && ctx.Err() != nil {
		return
	}
	if err != nil {
		m.logger.Debug("Server unreachable", "error", err)
	}
	m.SetOnline(err == nil)
}
