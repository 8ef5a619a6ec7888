package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SyncStatus описывает состояние синхронизации локальной записи
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending" // изменения еще не отправлены на сервер
	SyncStatusSynced  SyncStatus = "synced"  // запись совпадает с удаленной
)

// Record представляет запись локального кеша.
// Data содержит JSON доменной сущности (запись дневника, сообщение чата и т.д.).
type Record struct {
	CreatedAt  time.Time       `json:"created_at"`  // CreatedAt время создания записи
	UpdatedAt  time.Time       `json:"updated_at"`  // UpdatedAt время последнего локального изменения
	ID         string          `json:"id"`          // ID уникальный идентификатор, задается вызывающим
	Collection string          `json:"collection"`  // Collection логическая коллекция (таблица)
	UserID     string          `json:"user_id"`     // UserID владелец записи
	SyncStatus SyncStatus      `json:"sync_status"` // SyncStatus pending | synced
	Data       json.RawMessage `json:"data"`        // Data сериализованная доменная сущность
	Version    int64           `json:"version"`     // Version растет на каждую локальную запись
}

// IsPending сообщает, есть ли у записи неотправленные изменения
func (r *Record) IsPending() bool {
	return r.SyncStatus == SyncStatusPending
}

// Decode десериализует Data в переданную структуру
func (r *Record) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("record %s has no data", r.ID)
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to unmarshal record %s: %w", r.ID, err)
	}
	return nil
}

// Clone создает глубокую копию записи
func (r *Record) Clone() *Record {
	var data json.RawMessage
	if r.Data != nil {
		data = make(json.RawMessage, len(r.Data))
		copy(data, r.Data)
	}

	return &Record{
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		ID:         r.ID,
		Collection: r.Collection,
		UserID:     r.UserID,
		SyncStatus: r.SyncStatus,
		Data:       data,
		Version:    r.Version,
	}
}
