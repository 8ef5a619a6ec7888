package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/echomind/internal/client/storage"
)

func TestStorage_SaveGetDeleteSession(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	session := &storage.Session{
		Email:       "user@example.com",
		UserID:      "user-id-123",
		AccessToken: "access-token",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}

	// Проверяем что GetSession до сохранения выдаст ErrSessionNotFound
	_, err := store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// Сохраняем сессию
	require.NoError(t, store.SaveSession(ctx, session))

	// Получаем и сравниваем
	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session, got)

	// Удаляем
	require.NoError(t, store.DeleteSession(ctx))

	_, err = store.GetSession(ctx)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// Повторное удаление возвращает ErrSessionNotFound
	assert.ErrorIs(t, store.DeleteSession(ctx), storage.ErrSessionNotFound)
}

func TestStorage_SaveSession_Replaces(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.SaveSession(ctx, &storage.Session{UserID: "old"}))
	require.NoError(t, store.SaveSession(ctx, &storage.Session{UserID: "new"}))

	got, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.UserID)
}

func TestStorage_Session_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketAuth)
	})
	require.NoError(t, err)

	_, err = store.GetSession(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "auth bucket not found")

	err = store.SaveSession(ctx, &storage.Session{UserID: "u"})
	assert.Error(t, err)
}
