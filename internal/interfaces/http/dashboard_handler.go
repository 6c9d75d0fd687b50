package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Tapiceria-api/internal/application/analytics"
)

// DashboardHandler resumen de la página de inicio.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (total_quotes, total_quoted_value, materials_count,
// low_stock_count, recent_quotes[3], recent_materials[3], date_label).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
