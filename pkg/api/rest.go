package api

import (
	"encoding/json"
	"time"
)

// Заголовок и значение, включающие upsert для POST /rest/v1/{table}
const (
	PreferHeader         = "Prefer"
	PreferMergeDuplicate = "resolution=merge-duplicates"
)

// Колонки, по которым допускается фильтр eq
const (
	ColumnID     = "id"
	ColumnUserID = "user_id"
)

// Row строка удаленной таблицы.
// Все коллекции хранятся в одинаковом формате, доменные поля лежат в Data.
type Row struct {
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Data      json.RawMessage `json:"data"`
	Version   int64           `json:"version"`
}
