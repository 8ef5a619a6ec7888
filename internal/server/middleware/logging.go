package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/echomind/internal/server/handlers"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Write captures the number of bytes written
func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// LoggingMiddleware создает middleware для логирования HTTP запросов.
// Пути из skipPaths не логируются: клиенты опрашивают health каждые несколько секунд.
// Тело и заголовки не логируются, в них пароли и токены.
func LoggingMiddleware(logger *slog.Logger, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			// user_id появится в контексте только внутри AuthMiddleware
			var userID string
			next.ServeHTTP(wrapped, r.WithContext(withUserSlot(r.Context(), &userID)))

			level := slog.LevelInfo
			switch {
			case wrapped.statusCode >= 500:
				level = slog.LevelError
			case wrapped.statusCode >= 400:
				level = slog.LevelWarn
			}

			attrs := []any{
				"method", r.Method,
				"route", routePattern(r),
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_written", wrapped.written,
				"remote_addr", r.RemoteAddr,
			}
			if table := chi.URLParam(r, "table"); table != "" {
				attrs = append(attrs, "table", table)
			}
			if userID != "" {
				attrs = append(attrs, "user_id", userID)
			}

			logger.Log(r.Context(), level, "HTTP request", attrs...)
		})
	}
}

// routePattern возвращает шаблон маршрута chi, например /rest/v1/{table}
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// CaptureUser записывает пользователя из контекста в слот LoggingMiddleware.
// Ставится после AuthMiddleware.
func CaptureUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slot, ok := r.Context().Value(userSlotKey{}).(*string); ok {
			if userID, ok := handlers.UserIDFromContext(r.Context()); ok {
				*slot = userID
			}
		}
		next.ServeHTTP(w, r)
	})
}
