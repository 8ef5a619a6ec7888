package remote

import (
	"github.com/iudanet/echomind/internal/models"
	"github.com/iudanet/echomind/pkg/api"
)

// RowFromRecord переводит локальную запись в строку удаленной таблицы
func RowFromRecord(r *models.Record) api.Row {
	return api.Row{
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		ID:        r.ID,
		UserID:    r.UserID,
		Data:      r.Data,
		Version:   r.Version,
	}
}

// RecordFromRow переводит удаленную строку в синхронизированную локальную запись
func RecordFromRow(collection string, row api.Row) *models.Record {
	return &models.Record{
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
		ID:         row.ID,
		Collection: collection,
		UserID:     row.UserID,
		SyncStatus: models.SyncStatusSynced,
		Data:       row.Data,
		Version:    row.Version,
	}
}
