package models

import "time"

// OperationKind тип отложенной мутации
type OperationKind string

const (
	OperationAdd    OperationKind = "add"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// PendingOperation представляет одну мутацию, сделанную без связи с сервером.
// Живет в очереди до успешного воспроизведения на удаленной базе.
type PendingOperation struct {
	CreatedAt     time.Time     `json:"created_at"`                // CreatedAt момент постановки в очередь
	LastAttemptAt *time.Time    `json:"last_attempt_at,omitempty"` // LastAttemptAt время последней попытки
	Record        *Record       `json:"record,omitempty"`          // Record снимок записи (nil для delete)
	ID            string        `json:"id"`                        // ID идентификатор операции (UUID)
	Kind          OperationKind `json:"kind"`                      // Kind add | update | delete
	Collection    string        `json:"collection"`                // Collection целевая коллекция
	RecordID      string        `json:"record_id"`                 // RecordID идентификатор записи
	LastError     string        `json:"last_error,omitempty"`      // LastError текст последней ошибки
	Seq           uint64        `json:"seq"`                       // Seq порядковый номер вставки
	Attempts      int           `json:"attempts"`                  // Attempts количество неудачных попыток
}
