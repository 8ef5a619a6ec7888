package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/echomind/internal/client/auth"
	"github.com/iudanet/echomind/internal/client/data"
	"github.com/iudanet/echomind/internal/client/iocli"
	"github.com/iudanet/echomind/internal/client/network"
	"github.com/iudanet/echomind/internal/client/remote"
	"github.com/iudanet/echomind/internal/client/storage"
	"github.com/iudanet/echomind/internal/client/storage/memory"
	clientsync "github.com/iudanet/echomind/internal/client/sync"
	"github.com/iudanet/echomind/internal/models"
	"github.com/iudanet/echomind/pkg/api"
)

type fakeProber struct {
	reachable atomic.Bool
}

func (p *fakeProber) Probe(ctx context.Context) error {
	if p.reachable.Load() {
		return nil
	}
	return errors.New("connection refused")
}

// memoryRemote таблицы удаленной базы в памяти
func memoryRemote() *clientsync.RemoteDatabaseMock {
	var mu sync.Mutex
	tables := make(map[string]map[string]api.Row)
	table := func(name string) map[string]api.Row {
		if tables[name] == nil {
			tables[name] = make(map[string]api.Row)
		}
		return tables[name]
	}

	return &clientsync.RemoteDatabaseMock{
		InsertFunc: func(ctx context.Context, name string, row api.Row) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := table(name)[row.ID]; ok {
				return remote.ErrConflict
			}
			table(name)[row.ID] = row
			return nil
		},
		UpdateFunc: func(ctx context.Context, name string, row api.Row, filters ...remote.Filter) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := table(name)[row.ID]; !ok {
				return remote.ErrNotFound
			}
			table(name)[row.ID] = row
			return nil
		},
		DeleteFunc: func(ctx context.Context, name string, filters ...remote.Filter) error {
			mu.Lock()
			defer mu.Unlock()
			delete(table(name), filters[0].Value)
			return nil
		},
		SelectFunc: func(ctx context.Context, name string, filters ...remote.Filter) ([]api.Row, error) {
			mu.Lock()
			defer mu.Unlock()
			var rows []api.Row
			for _, row := range table(name) {
				rows = append(rows, row)
			}
			return rows, nil
		},
	}
}

type testCli struct {
	cli    *Cli
	out    *bytes.Buffer
	store  *memory.Storage
	remote *clientsync.RemoteDatabaseMock
	prober *fakeProber
	mon    *network.Monitor
}

func newTestCli(t *testing.T, input string, online bool) *testCli {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.New()
	remoteDB := memoryRemote()
	authenticator := &auth.AuthenticatorMock{
		SignUpFunc: func(ctx context.Context, email, password string) (*api.TokenResponse, error) {
			return &api.TokenResponse{User: api.User{ID: "user-1", Email: email}, AccessToken: "jwt", ExpiresIn: 900}, nil
		},
		SignInFunc: func(ctx context.Context, email, password string) (*api.TokenResponse, error) {
			if password != "password123" {
				return nil, remote.ErrUnauthorized
			}
			return &api.TokenResponse{User: api.User{ID: "user-1", Email: email}, AccessToken: "jwt", ExpiresIn: 900}, nil
		},
	}

	authService := auth.NewService(authenticator, store, logger)
	coordinator := clientsync.NewCoordinator(remoteDB, store, clientsync.Config{MaxAttempts: 3}, logger)
	prober := &fakeProber{}
	prober.reachable.Store(online)
	monitor := network.NewMonitor(coordinator, authService, prober, network.Config{InitiallyOnline: online}, logger)
	dataService := data.NewService(store, remoteDB, monitor, authService, logger)

	out := &bytes.Buffer{}
	c := New(Deps{
		IO:      iocli.New(strings.NewReader(input), out, -1),
		Auth:    authService,
		Data:    dataService,
		Sync:    coordinator,
		Network: monitor,
		Prober:  prober,
		Store:   store,
		Logger:  logger,
	})

	return &testCli{cli: c, out: out, store: store, remote: remoteDB, prober: prober, mon: monitor}
}

func (tc *testCli) login(t *testing.T) {
	t.Helper()
	require.NoError(t, tc.store.SaveSession(context.Background(), &storage.Session{
		Email:       "alice@example.com",
		UserID:      "user-1",
		AccessToken: "jwt",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}))
}

func (tc *testCli) run(t *testing.T, args ...string) string {
	t.Helper()
	tc.out.Reset()
	require.NoError(t, tc.cli.Run(context.Background(), args))
	return tc.out.String()
}

func TestRun_UnknownCommand(t *testing.T) {
	tc := newTestCli(t, "", false)

	err := tc.cli.Run(context.Background(), []string{"dance"})
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, tc.out.String(), "Usage:")

	err = tc.cli.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRegister(t *testing.T) {
	tc := newTestCli(t, "alice@example.com\npassword123\npassword123\n", true)

	out := tc.run(t, "register")
	assert.Contains(t, out, "Registration successful")
	assert.Contains(t, out, "user-1")

	session, err := tc.store.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", session.Email)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	tc := newTestCli(t, "alice@example.com\npassword123\npassword124\n", true)

	err := tc.cli.Run(context.Background(), []string{"register"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwords do not match")
}

func TestLogin(t *testing.T) {
	tc := newTestCli(t, "password123\n", true)

	out := tc.run(t, "login", "alice@example.com")
	assert.Contains(t, out, "Login successful")

	tc = newTestCli(t, "wrongpassword\n", true)
	err := tc.cli.Run(context.Background(), []string{"login", "alice@example.com"})
	assert.ErrorIs(t, err, remote.ErrUnauthorized)
}

func TestJournal_RequiresSession(t *testing.T) {
	tc := newTestCli(t, "", true)

	err := tc.cli.Run(context.Background(), []string{"journal", "list"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestJournal_OfflineThenOnline(t *testing.T) {
	tc := newTestCli(t, "", true)
	tc.login(t)

	out := tc.run(t, "offline")
	assert.Contains(t, out, "Offline mode on")
	assert.False(t, tc.mon.Online())

	out = tc.run(t, "journal", "add", "-title", "Morning", "-tags", "sleep, calm", "slept", "well")
	assert.Contains(t, out, "Journal entry saved")
	assert.Contains(t, out, "will be sent on next sync")
	assert.Empty(t, tc.remote.InsertCalls())

	out = tc.run(t, "journal", "list")
	assert.Contains(t, out, "Morning")
	assert.Contains(t, out, "[pending]")
	assert.Contains(t, out, "sleep, calm")
	assert.Contains(t, out, "slept well")

	out = tc.run(t, "pending")
	assert.Contains(t, out, "Pending operations (1)")
	assert.Contains(t, out, "journals/")

	err := tc.cli.Run(context.Background(), []string{"sync"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline mode is on")

	out = tc.run(t, "online")
	assert.Contains(t, out, "Sent to server:     1")
	assert.True(t, tc.mon.Online())

	out = tc.run(t, "journal", "list")
	assert.Contains(t, out, "Morning")
	assert.NotContains(t, out, "[pending]")

	count, err := tc.cli.sync.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestJournal_Delete(t *testing.T) {
	tc := newTestCli(t, "", true)
	tc.login(t)

	tc.run(t, "journal", "add", "to", "delete")
	records, err := tc.store.GetAll(context.Background(), models.CollectionJournals)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.SyncStatusSynced, records[0].SyncStatus)

	out := tc.run(t, "journal", "delete", records[0].ID)
	assert.Contains(t, out, "Deleted")
	assert.Len(t, tc.remote.DeleteCalls(), 1)

	err = tc.cli.Run(context.Background(), []string{"journal", "delete"})
	assert.Error(t, err)
}

func TestJournal_AddReadsContent(t *testing.T) {
	tc := newTestCli(t, "typed entry\n", false)
	tc.login(t)

	out := tc.run(t, "journal", "add")
	assert.Contains(t, out, "Entry: ")

	journals, err := tc.cli.data.ListJournals(context.Background())
	require.NoError(t, err)
	require.Len(t, journals, 1)
	assert.Equal(t, "typed entry", journals[0].Content)
}

func TestChat(t *testing.T) {
	tc := newTestCli(t, "", false)
	tc.login(t)

	tc.run(t, "chat", "add", "-conversation", "c1", "I", "feel", "tired")
	tc.run(t, "chat", "add", "-conversation", "c1", "-role", "assistant", "Take", "a", "break")

	out := tc.run(t, "chat", "list", "-conversation", "c1")
	assert.Contains(t, out, "user: I feel tired")
	assert.Contains(t, out, "assistant: Take a break")

	out = tc.run(t, "chat", "list")
	assert.Contains(t, out, "No messages yet.")
}

func TestPrompt_List(t *testing.T) {
	tc := newTestCli(t, "", false)
	tc.login(t)

	out := tc.run(t, "prompt", "list")
	assert.Contains(t, out, "No prompts cached")

	require.NoError(t, tc.store.Put(context.Background(), models.CollectionDailyPrompts, &models.Record{
		ID:   "p1",
		Data: []byte(`{"id":"p1","day":"2026-10-18","question":"What are you grateful for?","answered":true}`),
	}))
	out = tc.run(t, "prompt", "list")
	assert.Contains(t, out, "[✓] 2026-10-18  What are you grateful for?")
}

func TestSync_Unreachable(t *testing.T) {
	tc := newTestCli(t, "", false)
	tc.login(t)

	err := tc.cli.Run(context.Background(), []string{"sync"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")

	tc.prober.reachable.Store(true)
	out := tc.run(t, "sync")
	assert.Contains(t, out, "Synchronization completed")
	assert.True(t, tc.mon.Online())
}

func TestPending_Retry(t *testing.T) {
	tc := newTestCli(t, "", false)
	tc.login(t)
	ctx := context.Background()

	require.NoError(t, tc.store.Enqueue(ctx, &models.PendingOperation{ID: "op1", Kind: models.OperationDelete, Collection: models.CollectionJournals, RecordID: "j1"}))
	ops, err := tc.store.ListPending(ctx)
	require.NoError(t, err)
	ops[0].Attempts = 3
	ops[0].LastError = "boom"
	require.NoError(t, tc.store.MoveToDeadLetter(ctx, ops[0]))

	out := tc.run(t, "pending")
	assert.Contains(t, out, "Abandoned operations (1)")
	assert.Contains(t, out, `last_error="boom"`)

	out = tc.run(t, "status")
	assert.Contains(t, out, "Abandoned: 1")

	out = tc.run(t, "pending", "retry")
	assert.Contains(t, out, "1 abandoned operation(s) queued again")

	out = tc.run(t, "pending")
	assert.Contains(t, out, "Pending operations (1)")
	assert.NotContains(t, out, "Abandoned")
}

func TestStatus(t *testing.T) {
	tc := newTestCli(t, "", false)

	out := tc.run(t, "status")
	assert.Contains(t, out, "Not authenticated")
	assert.Contains(t, out, "server unreachable")
	assert.Contains(t, out, "Last sync: never")

	tc.login(t)
	tc.run(t, "offline")
	out = tc.run(t, "status")
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "forced")
	assert.Contains(t, out, "No pending operations")
}

func TestLogout(t *testing.T) {
	tc := newTestCli(t, "", false)
	tc.login(t)

	tc.run(t, "journal", "add", "private", "thoughts")
	out := tc.run(t, "logout")
	assert.Contains(t, out, "1 unsent change(s) will be discarded")
	assert.Contains(t, out, "Logged out")

	records, err := tc.store.GetAll(context.Background(), models.CollectionJournals)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWatch_StopsOnCancel(t *testing.T) {
	tc := newTestCli(t, "", true)
	tc.login(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, tc.cli.Run(ctx, []string{"watch"}))
	assert.Contains(t, tc.out.String(), "Watching connectivity")
}
