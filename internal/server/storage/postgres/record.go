package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iudanet/echomind/internal/server/storage"
	"github.com/iudanet/echomind/pkg/api"
)

// Select returns rows of the table matching all filters
func (s *Storage) Select(ctx context.Context, table string, filters []storage.Filter) ([]*api.Row, error) {
	if err := validate(table, filters); err != nil {
		return nil, err
	}

	where, args := storage.WhereClause(table, filters, placeholder)
	query := `SELECT id, user_id, data, version, created_at, updated_at FROM records WHERE ` +
		where + ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*api.Row, 0)
	for rows.Next() {
		row := &api.Row{}
		var data []byte
		if err := rows.Scan(&row.ID, &row.UserID, &data, &row.Version, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row.Data = data
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Insert adds a new row
func (s *Storage) Insert(ctx context.Context, table string, row *api.Row) error {
	if err := storage.ValidateTable(table); err != nil {
		return err
	}

	query := `
		INSERT INTO records (collection, id, user_id, data, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		table, row.ID, row.UserID, []byte(row.Data), row.Version, row.CreatedAt, row.UpdatedAt)
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
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (collection, id) DO UPDATE SET
			data = EXCLUDED.data,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
		WHERE records.user_id = EXCLUDED.user_id
	`

	result, err := s.db.ExecContext(ctx, query,
		table, row.ID, row.UserID, []byte(row.Data), row.Version, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert row: %w", err)
	}

	return expectAffected(result, fmt.Errorf("%w: %s/%s", storage.ErrRowAlreadyExists, table, row.ID))
}

// Update overwrites data and version of matching rows
func (s *Storage) Update(ctx context.Context, table string, row *api.Row, filters []storage.Filter) error {
	if err := validate(table, filters); err != nil {
		return err
	}

	// первые три параметра заняты SET
	where, args := storage.WhereClause(table, filters, func(n int) string { return placeholder(n + 3) })
	query := `UPDATE records SET data = $1, version = $2, updated_at = $3 WHERE ` + where

	args = append([]any{[]byte(row.Data), row.Version, row.UpdatedAt}, args...)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update row: %w", err)
	}

	return expectAffected(result, storage.ErrRowNotFound)
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

func expectAffected(result sql.Result, none error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return none
	}
	return nil
}

func validate(table string, filters []storage.Filter) error {
	if err := storage.ValidateTable(table); err != nil {
		return err
	}
	return storage.ValidateFilters(filters)
}
