package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/echomind/pkg/api"
)

// Pinger проверка доступности хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger *slog.Logger
	db     Pinger
}

// NewHealthHandler создает новый handler для health check.
// db может быть nil, тогда база не проверяется.
func NewHealthHandler(logger *slog.Logger, db Pinger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		db:     db,
	}
}

// Health обрабатывает GET /api/v1/health
// Клиенты используют его как сигнал связности
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status: "ok",
		Time:   time.Now().Unix(),
	}

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "database is unavailable", slog.Any("error", err))
			resp.Status = "unavailable"
			sendJSON(w, h.logger, resp, http.StatusServiceUnavailable)
			return
		}
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}
