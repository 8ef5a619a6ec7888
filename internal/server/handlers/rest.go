package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/echomind/internal/server/storage"
	"github.com/iudanet/echomind/pkg/api"
)

// errForbidden запрос затрагивает строки другого пользователя
var errForbidden = errors.New("rows of another user")

// RestHandler обрабатывает табличные запросы /rest/v1/{table}.
// Все запросы ограничены строками пользователя из токена.
type RestHandler struct {
	logger  *slog.Logger
	records storage.RecordStorage
	now     func() time.Time
}

// NewRestHandler создает новый handler табличных запросов
func NewRestHandler(logger *slog.Logger, records storage.RecordStorage) *RestHandler {
	return &RestHandler{
		logger:  logger,
		records: records,
		now:     time.Now,
	}
}

// Routes монтирует обработчики на router
func (h *RestHandler) Routes(r chi.Router) {
	r.Get("/{table}", h.Select)
	r.Post("/{table}", h.Insert)
	r.Patch("/{table}", h.Update)
	r.Delete("/{table}", h.Delete)
}

// Select обрабатывает GET /rest/v1/{table}?col=eq.val
func (h *RestHandler) Select(w http.ResponseWriter, r *http.Request) {
	table, userID, filters, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	rows, err := h.records.Select(r.Context(), table, filters)
	if err != nil {
		h.sendStorageError(w, r, "select", err)
		return
	}

	h.logger.DebugContext(r.Context(), "rows selected",
		slog.String("table", table),
		slog.String("user_id", userID),
		slog.Int("count", len(rows)))

	sendJSON(w, h.logger, rows, http.StatusOK)
}

// Insert обрабатывает POST /rest/v1/{table}.
// С заголовком Prefer: resolution=merge-duplicates выполняет upsert.
func (h *RestHandler) Insert(w http.ResponseWriter, r *http.Request) {
	table, userID, _, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	row, ok := h.decodeRow(w, r, userID)
	if !ok {
		return
	}
	if row.ID == "" {
		sendError(w, h.logger, "id is required", http.StatusBadRequest)
		return
	}
	if row.Version == 0 {
		row.Version = 1
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = row.UpdatedAt
	}

	var err error
	if strings.Contains(r.Header.Get(api.PreferHeader), api.PreferMergeDuplicate) {
		err = h.records.Upsert(r.Context(), table, row)
	} else {
		err = h.records.Insert(r.Context(), table, row)
	}
	if err != nil {
		h.sendStorageError(w, r, "insert", err)
		return
	}

	h.logger.InfoContext(r.Context(), "row written",
		slog.String("table", table),
		slog.String("id", row.ID),
		slog.String("user_id", userID))

	w.WriteHeader(http.StatusCreated)
}

// Update обрабатывает PATCH /rest/v1/{table}?id=eq.X
func (h *RestHandler) Update(w http.ResponseWriter, r *http.Request) {
	table, userID, filters, ok := h.parseRequest(w, r)
	if !ok {
		return
	}
	if !hasColumn(filters, api.ColumnID) {
		sendError(w, h.logger, "update requires an id filter", http.StatusBadRequest)
		return
	}

	row, ok := h.decodeRow(w, r, userID)
	if !ok {
		return
	}

	if err := h.records.Update(r.Context(), table, row, filters); err != nil {
		h.sendStorageError(w, r, "update", err)
		return
	}

	h.logger.InfoContext(r.Context(), "row updated",
		slog.String("table", table),
		slog.String("id", row.ID),
		slog.String("user_id", userID))

	w.WriteHeader(http.StatusNoContent)
}

// Delete обрабатывает DELETE /rest/v1/{table}?id=eq.X.
// Удаление отсутствующей строки не ошибка.
func (h *RestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	table, userID, filters, ok := h.parseRequest(w, r)
	if !ok {
		return
	}
	if !hasColumn(filters, api.ColumnID) {
		sendError(w, h.logger, "delete requires an id filter", http.StatusBadRequest)
		return
	}

	deleted, err := h.records.Delete(r.Context(), table, filters)
	if err != nil {
		h.sendStorageError(w, r, "delete", err)
		return
	}

	h.logger.InfoContext(r.Context(), "rows deleted",
		slog.String("table", table),
		slog.String("user_id", userID),
		slog.Int64("count", deleted))

	w.WriteHeader(http.StatusNoContent)
}

// parseRequest извлекает таблицу, пользователя и фильтры.
// Фильтр user_id всегда равен пользователю из токена.
func (h *RestHandler) parseRequest(w http.ResponseWriter, r *http.Request) (string, string, []storage.Filter, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		sendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return "", "", nil, false
	}

	table := chi.URLParam(r, "table")
	if err := storage.ValidateTable(table); err != nil {
		sendError(w, h.logger, err.Error(), http.StatusNotFound)
		return "", "", nil, false
	}

	filters, err := parseFilters(r, userID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid filters", slog.String("user_id", userID), slog.Any("error", err))
		code := http.StatusBadRequest
		if errors.Is(err, errForbidden) {
			code = http.StatusForbidden
		}
		sendError(w, h.logger, err.Error(), code)
		return "", "", nil, false
	}

	return table, userID, filters, true
}

// parseFilters разбирает параметры вида col=eq.value
func parseFilters(r *http.Request, userID string) ([]storage.Filter, error) {
	filters := []storage.Filter{{Column: api.ColumnUserID, Value: userID}}

	for column, values := range r.URL.Query() {
		for _, v := range values {
			value, ok := strings.CutPrefix(v, "eq.")
			if !ok {
				return nil, fmt.Errorf("%w: only eq operator is supported for %s", storage.ErrInvalidFilter, column)
			}
			switch column {
			case api.ColumnUserID:
				if value != userID {
					return nil, errForbidden
				}
			case api.ColumnID:
				filters = append(filters, storage.Filter{Column: column, Value: value})
			default:
				return nil, fmt.Errorf("%w: column %q", storage.ErrInvalidFilter, column)
			}
		}
	}

	return filters, nil
}

// decodeRow читает строку из тела запроса и проверяет владельца
func (h *RestHandler) decodeRow(w http.ResponseWriter, r *http.Request, userID string) (*api.Row, bool) {
	var row api.Row
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode row", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return nil, false
	}

	switch row.UserID {
	case "":
		row.UserID = userID
	case userID:
	default:
		h.logger.WarnContext(r.Context(), "row of another user",
			slog.String("user_id", userID),
			slog.String("row_user_id", row.UserID))
		sendError(w, h.logger, "user_id does not match the token", http.StatusForbidden)
		return nil, false
	}

	if len(row.Data) == 0 {
		row.Data = json.RawMessage("{}")
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = h.now().UTC()
	}

	return &row, true
}

func (h *RestHandler) sendStorageError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrRowNotFound):
		sendError(w, h.logger, "row not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrRowAlreadyExists):
		sendError(w, h.logger, "row already exists", http.StatusConflict)
	case errors.Is(err, storage.ErrUnknownTable):
		sendError(w, h.logger, err.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrInvalidFilter):
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(r.Context(), "storage error", slog.String("op", op), slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
	}
}

func hasColumn(filters []storage.Filter, column string) bool {
	for _, f := range filters {
		if f.Column == column {
			return true
		}
	}
	return false
}
