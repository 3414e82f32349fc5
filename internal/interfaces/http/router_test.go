package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
	apphttp "github.com/jhoicas/registro-usuarios/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func ok(context.Context) error { return nil }

func buildTestApp(checks map[string]apphttp.HealthCheck, gatherer prometheus.Gatherer) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:  "registro-usuarios",
		Checks:   checks,
		Gatherer: gatherer,
	})
	return app
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func healthBody(t *testing.T, resp *http.Response) dto.HealthResponse {
	t.Helper()
	var body dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// /health
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_AllChecksPass(t *testing.T) {
	app := buildTestApp(map[string]apphttp.HealthCheck{"database": ok, "rabbitmq": ok}, nil)

	resp := get(t, app, "/health")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := healthBody(t, resp)
	assert.Equal(t, dto.HealthOK, body.Status)
	assert.Equal(t, "registro-usuarios", body.Service)
	assert.Equal(t, map[string]string{"database": "ok", "rabbitmq": "ok"}, body.Checks)
}

func TestHealth_FailingCheckReturns503(t *testing.T) {
	app := buildTestApp(map[string]apphttp.HealthCheck{
		"database": ok,
		"rabbitmq": func(context.Context) error { return errors.New("conexión cerrada") },
	}, nil)

	resp := get(t, app, "/health")

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	body := healthBody(t, resp)
	assert.Equal(t, dto.HealthDegraded, body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "conexión cerrada", body.Checks["rabbitmq"])
}

// ──────────────────────────────────────────────────────────────────────────────
// /metrics
// ──────────────────────────────────────────────────────────────────────────────

func TestMetrics_ExposesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "registro_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	app := buildTestApp(nil, reg)
	resp := get(t, app, "/metrics")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "registro_test_total 1")
}

func TestMetrics_NotMountedWithoutGatherer(t *testing.T) {
	app := buildTestApp(nil, nil)

	resp := get(t, app, "/metrics")

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
