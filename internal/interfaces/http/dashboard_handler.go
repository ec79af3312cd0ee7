package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comercio-api/internal/application/reports"
)

// DashboardHandler maneja el endpoint del tablero principal.
type DashboardHandler struct {
	uc *reports.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *reports.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve ventas y margen del día y del mes en curso, y el conteo
// de productos bajo el punto de reorden.
// GET /api/dashboard/summary
//
// No requiere parámetros; las fechas se calculan en el servidor con la zona
// horaria local.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.Dashboard(c.Context(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
