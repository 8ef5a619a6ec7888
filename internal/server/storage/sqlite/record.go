package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/echomind/internal/server/storage"
	"github.com/iudanet/echomind/pkg/api"
)

func placeholder(int) string { return "?" }

// Select returns rows of the table matching all filters
func (s *Storage) Select(ctx context.Context, table string, filters []storage.Filter) ([]*api.Row, error) {
	if err := validate(table, filters); err != nil {
		return nil, err
	}

	where, args := storage.WhereClause(table, filters, placeholder)
	query := `
		SELECT id, user_id, data, version, created_at, updated_at
		FROM records
		WHERE ` + where + `
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanRows(rows)
}

// Insert adds a new row
func (s *Storage) Insert(ctx context.Context, table string, row *api.Row) error {
	if err := storage.ValidateTable(table); err != nil {
		return err
	}

	query := `
		INSERT INTO records (collection, id, user_id, data, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		table,
		row.ID,
		row.UserID,
		[]byte(row.Data),
		row.Version,
		row.CreatedAt.UnixMilli(),
		row.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s/%s", storage.ErrRowAlreadyExists, table, row.ID)
		}
		return fmt.Errorf("failed to insert row: %w", err)
	}

	return nil
}

// Upsert inserts the row or overwrites the row with the same id.
// A row owned by another user is not overwritten.
func (s *Storage) Upsert(ctx context.Context, table string, row *api.Row) error {
	if err := storage.ValidateTable(table); err != nil {
		return err
	}

	query := `
		INSERT INTO records (collection, id, user_id, data, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			data = excluded.data,
			version = excluded.version,
			updated_at = excluded.updated_at
		WHERE records.user_id = excluded.user_id
	`

	result, err := s.db.ExecContext(ctx, query,
		table,
		row.ID,
		row.UserID,
		[]byte(row.Data),
		row.Version,
		row.CreatedAt.UnixMilli(),
		row.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert row: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s/%s", storage.ErrRowAlreadyExists, table, row.ID)
	}

	return nil
}

// Update overwrites data and version of matching rows
func (s *Storage) Update(ctx context.Context, table string, row *api.Row, filters []storage.Filter) error {
	if err := validate(table, filters); err != nil {
		return err
	}

	where, args := storage.WhereClause(table, filters, placeholder)
	query := `UPDATE records SET data = ?, version = ?, updated_at = ? WHERE ` + where

	args = append([]any{[]byte(row.Data), row.Version, row.UpdatedAt.UnixMilli()}, args...)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update row: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrRowNotFound
	}

	return nil
}

// Delete removes matching rows
func (s *Storage) Delete(ctx context.Context, table string, filters []storage.Filter) (int64, error) {
	if err := validate(table, filters); err != nil {
		return 0, err
	}

	where, args := storage.WhereClause(table, filters, placeholder)
	result, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete rows: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected, nil
}

func validate(table string, filters []storage.Filter) error {
	if err := storage.ValidateTable(table); err != nil {
		return err
	}
	return storage.ValidateFilters(filters)
}

// scanRows is a helper function to scan multiple rows
func scanRows(rows *sql.Rows) ([]*api.Row, error) {
	result := make([]*api.Row, 0)

	for rows.Next() {
		row := &api.Row{}
		var data []byte
		var createdAt, updatedAt int64

		if err := rows.Scan(
			&row.ID,
			&row.UserID,
			&data,
			&row.Version,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row.Data = data
		row.CreatedAt = time.UnixMilli(createdAt).UTC()
		row.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
