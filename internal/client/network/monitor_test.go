package network

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientsync "github.com/iudanet/echomind/internal/client/sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSyncer struct {
	release chan struct{}
	users   []string
	calls   atomic.Int32
	mu      sync.Mutex
}

func (f *fakeSyncer) Sync(ctx context.Context, userID string) (*clientsync.SyncResult, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.users = append(f.users, userID)
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return &clientsync.SyncResult{Drain: &clientsync.DrainResult{}, Pull: &clientsync.PullResult{}}, nil
}

type staticUser struct {
	err error
	id  string
}

func (s staticUser) CurrentUserID(ctx context.Context) (string, error) {
	return s.id, s.err
}

type switchProber struct {
	online atomic.Bool
	probes atomic.Int32
}

func (p *switchProber) Probe(ctx context.Context) error {
	p.probes.Add(1)
	if p.online.Load() {
		return nil
	}
	return errors.New("unreachable")
}

func TestMonitor_TransitionToOnlineStartsSync(t *testing.T) {
	syncer := &fakeSyncer{}
	m := NewMonitor(syncer, staticUser{id: "user-1"}, nil, Config{}, testLogger())

	assert.False(t, m.Online())

	task := m.SetOnline(true)
	require.NotNil(t, task)
	assert.True(t, m.Online())

	result, err := task.Result()
	require.NoError(t, err)
	assert.NotNil(t, result.Drain)
	assert.Equal(t, int32(1), syncer.calls.Load())
	assert.Equal(t, []string{"user-1"}, syncer.users)
}

func TestMonitor_RepeatedSignalIsNoop(t *testing.T) {
	syncer := &fakeSyncer{}
	m := NewMonitor(syncer, staticUser{id: "user-1"}, nil, Config{InitiallyOnline: true}, testLogger())

	var notified atomic.Int32
	m.Subscribe(ObserverFunc(func(online bool) { notified.Add(1) }))

	assert.Nil(t, m.SetOnline(true))
	assert.Zero(t, notified.Load())
	assert.Zero(t, syncer.calls.Load())
}

func TestMonitor_TransitionToOfflineOnlyFlips(t *testing.T) {
	syncer := &fakeSyncer{}
	m := NewMonitor(syncer, staticUser{id: "user-1"}, nil, Config{InitiallyOnline: true}, testLogger())

	assert.Nil(t, m.SetOnline(false))
	assert.False(t, m.Online())
	assert.Zero(t, syncer.calls.Load())
}

func TestMonitor_ObserversAndUnsubscribe(t *testing.T) {
	m := NewMonitor(&fakeSyncer{}, staticUser{id: "user-1"}, nil, Config{}, testLogger())

	var mu sync.Mutex
	var first, second []bool
	unsubscribe := m.Subscribe(ObserverFunc(func(online bool) {
		mu.Lock()
		first = append(first, online)
		mu.Unlock()
	}))
	m.Subscribe(ObserverFunc(func(online bool) {
		mu.Lock()
		second = append(second, online)
		mu.Unlock()
	}))

	task := m.SetOnline(true)
	_, _ = task.Result()
	m.SetOnline(false)

	unsubscribe()
	unsubscribe()

	task = m.SetOnline(true)
	_, _ = task.Result()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, first)
	assert.Equal(t, []bool{true, false, true}, second)
}

func TestMonitor_TriggerSyncSingleFlight(t *testing.T) {
	syncer := &fakeSyncer{release: make(chan struct{})}
	m := NewMonitor(syncer, staticUser{id: "user-1"}, nil, Config{InitiallyOnline: true}, testLogger())

	ctx := context.Background()
	first := m.TriggerSync(ctx)
	second := m.TriggerSync(ctx)
	assert.Same(t, first, second)

	close(syncer.release)
	_, err := first.Result()
	require.NoError(t, err)
	assert.Equal(t, int32(1), syncer.calls.Load())

	// после завершения запускается новая задача
	third := m.TriggerSync(ctx)
	assert.NotSame(t, first, third)
	_, err = third.Result()
	require.NoError(t, err)
	assert.Equal(t, int32(2), syncer.calls.Load())
}

func TestMonitor_TriggerSyncOffline(t *testing.T) {
	syncer := &fakeSyncer{}
	m := NewMonitor(syncer, staticUser{id: "user-1"}, nil, Config{}, testLogger())

	_, err := m.TriggerSync(context.Background()).Result()
	assert.ErrorIs(t, err, ErrOffline)
	assert.Zero(t, syncer.calls.Load())
}

func TestMonitor_SyncWithoutUser(t *testing.T) {
	syncer := &fakeSyncer{}
	noUser := errors.New("session not found")
	m := NewMonitor(syncer, staticUser{err: noUser}, nil, Config{}, testLogger())

	_, err := m.SetOnline(true).Result()
	assert.ErrorIs(t, err, noUser)
	assert.Zero(t, syncer.calls.Load())
}

func TestMonitor_RunFollowsProber(t *testing.T) {
	syncer := &fakeSyncer{}
	prober := &switchProber{}
	m := NewMonitor(syncer, staticUser{id: "user-1"}, prober, Config{CheckInterval: 5 * time.Millisecond, InitiallyOnline: true}, testLogger())

	changes := make(chan bool, 10)
	m.Subscribe(ObserverFunc(func(online bool) { changes <- online }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case online := <-changes:
		assert.False(t, online)
	case <-time.After(time.Second):
		t.Fatal("offline transition not observed")
	}

	prober.online.Store(true)
	select {
	case online := <-changes:
		assert.True(t, online)
	case <-time.After(time.Second):
		t.Fatal("online transition not observed")
	}

	require.Eventually(t, func() bool { return syncer.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	assert.GreaterOrEqual(t, prober.probes.Load(), int32(2))
}

func TestMonitor_RunWithoutProber(t *testing.T) {
	m := NewMonitor(&fakeSyncer{}, staticUser{}, nil, Config{}, testLogger())
	assert.Error(t, m.Run(context.Background()))
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }

func TestHTTPProber_AppliesTimeout(t *testing.T) {
	p := NewHTTPProber(healthFunc(func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
		return nil
	}), 50*time.Millisecond)

	assert.NoError(t, p.Probe(context.Background()))

	failing := NewHTTPProber(healthFunc(func(ctx context.Context) error {
		return errors.New("connection refused")
	}), 0)
	assert.Error(t, failing.Probe(context.Background()))
	assert.Equal(t, 3*time.Second, failing.timeout)
}
