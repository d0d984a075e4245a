package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/docuflow-api/internal/application/analytics"
	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary godoc
// @Summary      Resumen del Dashboard
// @Description  Conteos por estado, importes y actividad diaria. Sin month se usa el mes en curso.
// @Tags         dashboard
// @Produce      json
// @Param        month  query     string  false  "Mes YYYY-MM"
// @Success      200    {object}  dto.DashboardSummaryDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	month, err := appanalytics.ParseMonth(c.Query("month"), time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	summary, err := h.uc.GetSummary(c.UserContext(), month)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(summary)
}
