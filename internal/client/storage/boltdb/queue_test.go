package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/echomind/internal/client/storage"
	"github.com/iudanet/echomind/internal/models"
)

func createTestOperation(id string, kind models.OperationKind, collection, recordID string) *models.PendingOperation {
	op := &models.PendingOperation{
		CreatedAt:  time.Now().UTC(),
		ID:         id,
		Kind:       kind,
		Collection: collection,
		RecordID:   recordID,
	}
	if kind != models.OperationDelete {
		op.Record = createTestRecord(recordID, collection, models.SyncStatusPending)
	}
	return op
}

func TestQueue_EnqueueListOrder(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	ids := []string{"op-c", "op-a", "op-b"}
	for _, id := range ids {
		op := createTestOperation(id, models.OperationAdd, models.CollectionJournals, "rec-"+id)
		require.NoError(t, store.Enqueue(ctx, op))
		assert.NotZero(t, op.Seq)
	}

	ops, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 3)

	// Порядок вставки, а не лексикографический порядок ID
	for i, id := range ids {
		assert.Equal(t, id, ops[i].ID)
	}
	assert.Less(t, ops[0].Seq, ops[1].Seq)
	assert.Less(t, ops[1].Seq, ops[2].Seq)
	require.NotNil(t, ops[0].Record)
	assert.Equal(t, "rec-op-c", ops[0].Record.ID)
}

func TestQueue_Empty(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	ops, err := store.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestQueue_UpdatePending(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	first := createTestOperation("op-1", models.OperationAdd, models.CollectionJournals, "j1")
	second := createTestOperation("op-2", models.OperationDelete, models.CollectionJournals, "j2")
	require.NoError(t, store.Enqueue(ctx, first))
	require.NoError(t, store.Enqueue(ctx, second))

	now := time.Now().UTC()
	first.Attempts = 2
	first.LastError = "connection refused"
	first.LastAttemptAt = &now
	require.NoError(t, store.UpdatePending(ctx, first))

	ops, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	// Обновленная операция остается первой
	assert.Equal(t, "op-1", ops[0].ID)
	assert.Equal(t, 2, ops[0].Attempts)
	assert.Equal(t, "connection refused", ops[0].LastError)
	require.NotNil(t, ops[0].LastAttemptAt)
}

func TestQueue_UpdatePending_NotFound(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	err := store.UpdatePending(ctx, createTestOperation("ghost", models.OperationAdd, models.CollectionJournals, "j1"))
	assert.ErrorIs(t, err, storage.ErrOperationNotFound)
}

func TestQueue_RemovePending(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	for _, id := range []string{"op-1", "op-2", "op-3"} {
		require.NoError(t, store.Enqueue(ctx, createTestOperation(id, models.OperationAdd, models.CollectionJournals, id)))
	}

	require.NoError(t, store.RemovePending(ctx, "op-2"))
	// Удаление несуществующей операции не ошибка
	require.NoError(t, store.RemovePending(ctx, "op-2"))

	ops, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "op-1", ops[0].ID)
	assert.Equal(t, "op-3", ops[1].ID)
}

func TestQueue_ClearPending(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.Enqueue(ctx, createTestOperation("op-1", models.OperationAdd, models.CollectionJournals, "j1")))
	require.NoError(t, store.ClearPending(ctx))

	ops, err := store.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)

	// Индекс тоже очищен
	assert.ErrorIs(t, store.UpdatePending(ctx, &models.PendingOperation{ID: "op-1"}), storage.ErrOperationNotFound)

	// Очередь пригодна для дальнейшей работы
	require.NoError(t, store.Enqueue(ctx, createTestOperation("op-2", models.OperationAdd, models.CollectionJournals, "j2")))
	ops, err = store.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestQueue_DeadLetter(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	ok := createTestOperation("op-ok", models.OperationAdd, models.CollectionJournals, "j1")
	bad := createTestOperation("op-bad", models.OperationUpdate, models.CollectionJournals, "j2")
	require.NoError(t, store.Enqueue(ctx, ok))
	require.NoError(t, store.Enqueue(ctx, bad))

	bad.Attempts = 5
	bad.LastError = "constraint violation"
	require.NoError(t, store.MoveToDeadLetter(ctx, bad))

	pending, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "op-ok", pending[0].ID)

	dead, err := store.ListDeadLetter(ctx)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "op-bad", dead[0].ID)
	assert.Equal(t, 5, dead[0].Attempts)
	assert.Equal(t, "constraint violation", dead[0].LastError)

	require.NoError(t, store.ClearDeadLetter(ctx))
	dead, err = store.ListDeadLetter(ctx)
	require.NoError(t, err)
	assert.Empty(t, dead)
}

func TestQueue_HasPending(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	has, err := store.HasPending(ctx, models.CollectionJournals, "j1")
	require.NoError(t, err)
	assert.False(t, has)

	queued := createTestOperation("op-1", models.OperationUpdate, models.CollectionJournals, "j1")
	abandoned := createTestOperation("op-2", models.OperationAdd, models.CollectionProfiles, "p1")
	require.NoError(t, store.Enqueue(ctx, queued))
	require.NoError(t, store.Enqueue(ctx, abandoned))
	require.NoError(t, store.MoveToDeadLetter(ctx, abandoned))

	tests := []struct {
		name       string
		collection string
		recordID   string
		expected   bool
	}{
		{name: "queued", collection: models.CollectionJournals, recordID: "j1", expected: true},
		{name: "dead letter", collection: models.CollectionProfiles, recordID: "p1", expected: true},
		{name: "other record", collection: models.CollectionJournals, recordID: "j2", expected: false},
		{name: "same id other collection", collection: models.CollectionResources, recordID: "j1", expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			has, err := store.HasPending(ctx, tt.collection, tt.recordID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, has)
		})
	}

	require.NoError(t, store.RemovePending(ctx, "op-1"))
	require.NoError(t, store.ClearDeadLetter(ctx))
	has, err = store.HasPending(ctx, models.CollectionJournals, "j1")
	require.NoError(t, err)
	assert.False(t, has)
}
