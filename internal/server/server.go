// Package server собирает HTTP API удаленной базы.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/echomind/internal/server/handlers"
	"github.com/iudanet/echomind/internal/server/middleware"
	"github.com/iudanet/echomind/internal/server/storage"
)

const healthPath = "/api/v1/health"

// Storage хранилище, которое нужно роутеру
type Storage interface {
	storage.RecordStorage
	storage.UserStorage
	handlers.Pinger
}

// Options параметры роутера
type Options struct {
	JWT            handlers.JWTConfig
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// NewRouter возвращает обработчик всех маршрутов и функцию остановки фоновых задач
func NewRouter(logger *slog.Logger, store Storage, opts Options) (http.Handler, func()) {
	authHandler := handlers.NewAuthHandler(logger, store, opts.JWT)
	restHandler := handlers.NewRestHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, store)

	limiter := middleware.NewRateLimiter(opts.AuthRateLimit, opts.AuthRateWindow, logger)

	r := chi.NewRouter()
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.LoggingMiddleware(logger, healthPath))

	r.Get(healthPath, healthHandler.Health)

	r.Route("/auth/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/signup", authHandler.SignUp)
		r.Post("/token", authHandler.Token)
	})

	r.Route("/rest/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(logger, opts.JWT))
		r.Use(middleware.CaptureUser)
		restHandler.Routes(r)
	})

	return r, limiter.Stop
}
