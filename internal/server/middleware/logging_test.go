package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/iudanet/echomind/internal/server/handlers"
)

func newLoggedRouter(buf *bytes.Buffer, status int) http.Handler {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := chi.NewRouter()
	r.Use(LoggingMiddleware(logger, "/api/v1/health"))
	r.Get("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {})
	r.Group(func(r chi.Router) {
		// вместо AuthMiddleware
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), handlers.UserIDKey, "user-1")))
			})
		})
		r.Use(CaptureUser)
		r.Get("/rest/v1/{table}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("[]"))
		})
	})
	return r
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		wantLevel string
		status    int
	}{
		{name: "success", status: http.StatusOK, wantLevel: "level=INFO"},
		{name: "client error", status: http.StatusNotFound, wantLevel: "level=WARN"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			router := newLoggedRouter(&buf, tt.status)

			req := httptest.NewRequest(http.MethodGet, "/rest/v1/journals?user_id=eq.user-1", nil)
			req.Header.Set("Authorization", "Bearer secret-token")
			router.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "route=/rest/v1/{table}")
			assert.Contains(t, out, "table=journals")
			assert.Contains(t, out, "user_id=user-1")
			assert.Contains(t, out, "bytes_written=2")
			assert.NotContains(t, out, "secret-token")
		})
	}
}

func TestLoggingMiddleware_SkipPaths(t *testing.T) {
	var buf bytes.Buffer
	router := newLoggedRouter(&buf, http.StatusOK)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Empty(t, buf.String())
}
