package network

import (
	"context"
	"time"
)

// HealthChecker вызывает эндпоинт проверки доступности сервера
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HTTPProber проверяет сеть запросом к /api/v1/health
type HTTPProber struct {
	client  HealthChecker
	timeout time.Duration
}

// NewHTTPProber создает prober с таймаутом на одну проверку
func NewHTTPProber(client HealthChecker, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPProber{client: client, timeout: timeout}
}

// Probe возвращает nil, если сервер ответил
func (p *HTTPProber) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.client.Health(ctx)
}
