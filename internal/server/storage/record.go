package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/echomind/internal/models"
	"github.com/iudanet/echomind/pkg/api"
)

// Filter условие col = value
type Filter struct {
	Column string
	Value  string
}

// RecordStorage defines interface for table rows persistence.
// Every table has the same schema, see api.Row.
type RecordStorage interface {
	// Select returns rows of the table matching all filters, ordered by created_at
	// Returns empty slice if nothing matched
	Select(ctx context.Context, table string, filters []Filter) ([]*api.Row, error)

	// Insert adds a new row
	// Returns ErrRowAlreadyExists if a row with the same id exists
	Insert(ctx context.Context, table string, row *api.Row) error

	// Upsert inserts the row or overwrites the existing one with the same id
	Upsert(ctx context.Context, table string, row *api.Row) error

	// Update overwrites data and version of rows matching filters
	// Returns ErrRowNotFound if nothing matched
	Update(ctx context.Context, table string, row *api.Row, filters []Filter) error

	// Delete removes rows matching filters and returns their number
	Delete(ctx context.Context, table string, filters []Filter) (int64, error)
}

// ValidateTable проверяет, что таблица соответствует известной коллекции
func ValidateTable(table string) error {
	if !models.IsKnownCollection(table) {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return nil
}

// ValidateFilters проверяет, что фильтры заданы только по id и user_id
func ValidateFilters(filters []Filter) error {
	for _, f := range filters {
		if f.Column != api.ColumnID && f.Column != api.ColumnUserID {
			return fmt.Errorf("%w: column %q", ErrInvalidFilter, f.Column)
		}
	}
	return nil
}

// WhereClause строит условие "collection = p1 AND col = p2 ..." для таблицы и фильтров.
// placeholder возвращает параметр запроса для n-го аргумента, начиная с 1.
// Колонки должны быть проверены ValidateFilters.
func WhereClause(table string, filters []Filter, placeholder func(n int) string) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(filters)+1)

	b.WriteString("collection = ")
	b.WriteString(placeholder(1))
	args = append(args, table)

	for _, f := range filters {
		b.WriteString(" AND ")
		b.WriteString(f.Column)
		b.WriteString(" = ")
		b.WriteString(placeholder(len(args) + 1))
		args = append(args, f.Value)
	}

	return b.String(), args
}
