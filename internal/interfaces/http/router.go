package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/registro-usuarios/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router de operación.
type RouterDeps struct {
	AppName  string
	Checks   map[string]HealthCheck // nombre → chequeo (database, rabbitmq)
	Gatherer prometheus.Gatherer
}

// Router registra /health y /metrics.
func Router(app *fiber.App, deps RouterDeps) {
	health := NewHealthHandler(deps.AppName, deps.Checks)
	app.Get("/health", health.Get)

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(deps.Gatherer)))
	}
}
