package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/echomind/internal/models"
	"github.com/iudanet/echomind/internal/server/storage"
	"github.com/iudanet/echomind/pkg/api"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewWithDB(db), mock
}

func testRow() *api.Row {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	return &api.Row{ID: "r1", UserID: "u1", Data: json.RawMessage(`{"a":1}`), Version: 2, CreatedAt: now, UpdatedAt: now}
}

func TestSelect(t *testing.T) {
	s, mock := newMockStorage(t)
	row := testRow()

	mock.ExpectQuery(`SELECT id, user_id, data, version, created_at, updated_at FROM records WHERE collection = \$1 AND user_id = \$2 ORDER BY created_at, id`).
		WithArgs("journals", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "data", "version", "created_at", "updated_at"}).
			AddRow(row.ID, row.UserID, []byte(row.Data), row.Version, row.CreatedAt, row.UpdatedAt))

	rows, err := s.Select(context.Background(), "journals", []storage.Filter{{Column: api.ColumnUserID, Value: "u1"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, row, rows[0])
}

func TestInsert(t *testing.T) {
	s, mock := newMockStorage(t)
	row := testRow()

	mock.ExpectExec(`INSERT INTO records .* VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)`).
		WithArgs("journals", row.ID, row.UserID, []byte(row.Data), row.Version, row.CreatedAt, row.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO records`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	require.NoError(t, s.Insert(context.Background(), "journals", row))
	assert.ErrorIs(t, s.Insert(context.Background(), "journals", row), storage.ErrRowAlreadyExists)
}

func TestUpsert(t *testing.T) {
	s, mock := newMockStorage(t)
	row := testRow()

	mock.ExpectExec(`INSERT INTO records .* ON CONFLICT \(collection, id\) DO UPDATE SET .* WHERE records\.user_id = EXCLUDED\.user_id`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Upsert(context.Background(), "journals", row))
	assert.ErrorIs(t, s.Upsert(context.Background(), "journals", row), storage.ErrRowAlreadyExists)
}

func TestUpdate(t *testing.T) {
	s, mock := newMockStorage(t)
	row := testRow()
	filters := []storage.Filter{{Column: api.ColumnUserID, Value: "u1"}, {Column: api.ColumnID, Value: "r1"}}

	mock.ExpectExec(`UPDATE records SET data = \$1, version = \$2, updated_at = \$3 WHERE collection = \$4 AND user_id = \$5 AND id = \$6`).
		WithArgs([]byte(row.Data), row.Version, row.UpdatedAt, "journals", "u1", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE records`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Update(context.Background(), "journals", row, filters))
	assert.ErrorIs(t, s.Update(context.Background(), "journals", row, filters), storage.ErrRowNotFound)
}

func TestDelete(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(`DELETE FROM records WHERE collection = \$1 AND user_id = \$2 AND id = \$3`).
		WithArgs("journals", "u1", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.Delete(context.Background(), "journals", []storage.Filter{
		{Column: api.ColumnUserID, Value: "u1"},
		{Column: api.ColumnID, Value: "r1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestValidation(t *testing.T) {
	s, _ := newMockStorage(t)

	_, err := s.Select(context.Background(), "users", nil)
	assert.ErrorIs(t, err, storage.ErrUnknownTable)

	_, err = s.Delete(context.Background(), "journals", []storage.Filter{{Column: "version", Value: "1"}})
	assert.ErrorIs(t, err, storage.ErrInvalidFilter)
}

func TestUsers(t *testing.T) {
	s, mock := newMockStorage(t)
	created := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	user := &models.User{ID: "u1", Email: "alice@example.com", PasswordHash: "h", CreatedAt: created}

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.Email, user.PasswordHash, user.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})
	mock.ExpectQuery(`SELECT id, email, password_hash, created_at FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(user.ID, user.Email, user.PasswordHash, user.CreatedAt))
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, user))
	assert.ErrorIs(t, s.CreateUser(ctx, user), storage.ErrUserAlreadyExists)

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestQueryError(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("connection reset"))

	_, err := s.Select(context.Background(), "journals", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

// TestIntegration выполняется против настоящей базы, если задан DATABASE_URL
func TestIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL is not set")
	}

	ctx := context.Background()
	s, err := New(ctx, dsn)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()
	require.NoError(t, s.Ping(ctx))

	user := &models.User{ID: uuid.New().String(), Email: uuid.New().String() + "@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	require.NoError(t, s.CreateUser(ctx, user))

	row := testRow()
	row.ID = uuid.New().String()
	row.UserID = user.ID
	require.NoError(t, s.Insert(ctx, "journals", row))

	rows, err := s.Select(ctx, "journals", []storage.Filter{{Column: api.ColumnUserID, Value: user.ID}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, row.ID, rows[0].ID)

	n, err := s.Delete(ctx, "journals", []storage.Filter{{Column: api.ColumnID, Value: row.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
