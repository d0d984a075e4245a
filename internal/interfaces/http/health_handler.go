package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/docuflow-api/internal/application/dto"
)

// Pinger comprueba la disponibilidad del almacenamiento.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler GET /health.
type HealthHandler struct {
	service string
	backend string
	store   Pinger
}

// NewHealthHandler construye el handler.
func NewHealthHandler(service, backend string, store Pinger) *HealthHandler {
	return &HealthHandler{service: service, backend: backend, store: store}
}

// Get godoc
// @Summary      Estado del servicio
// @Description  200 si el almacenamiento responde, 503 si no.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok", Service: h.service, Store: h.backend}
	if h.store != nil {
		if err := h.store.Ping(c.UserContext()); err != nil {
			resp.Status = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
	}
	return c.JSON(resp)
}
