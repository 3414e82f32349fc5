package http

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/registro-usuarios/internal/application/dto"
)

// HealthCheck devuelve nil si la dependencia está disponible.
type HealthCheck func(ctx context.Context) error

const checkTimeout = 2 * time.Second

// HealthHandler responde el estado de BD y broker.
type HealthHandler struct {
	service string
	names   []string
	checks  map[string]HealthCheck
}

// NewHealthHandler construye el handler; los chequeos se ejecutan en orden alfabético.
func NewHealthHandler(service string, checks map[string]HealthCheck) *HealthHandler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return &HealthHandler{service: service, names: names, checks: checks}
}

// Get GET /health. 200 si todos los chequeos pasan, 503 si alguno falla.
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:  dto.HealthOK,
		Service: h.service,
		Checks:  make(map[string]string, len(h.checks)),
	}
	for _, name := range h.names {
		ctx, cancel := context.WithTimeout(c.UserContext(), checkTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			resp.Status = dto.HealthDegraded
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = dto.HealthOK
	}

	status := fiber.StatusOK
	if resp.Status != dto.HealthOK {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
