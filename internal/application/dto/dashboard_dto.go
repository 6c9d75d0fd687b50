package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Resume la actividad de cotizaciones y el estado del inventario.
type DashboardSummaryDTO struct {
	TotalQuotes      int             `json:"total_quotes"`
	TotalQuotedValue decimal.Decimal `json:"total_quoted_value"` // suma de TotalCost de todas las cotizaciones

	MaterialsCount int `json:"materials_count"`
	LowStockCount  int `json:"low_stock_count"` // materiales con existencia <= umbral

	RecentQuotes    []QuoteSummaryResponse `json:"recent_quotes"`    // más recientes primero
	RecentMaterials []MaterialResponse     `json:"recent_materials"` // últimos agregados primero

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}
