package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Borrador ──────────────────────────────────────────────────────────────────

// DraftClientRequest actualiza cliente y/o proyecto del borrador. Campos nil no se tocan.
type DraftClientRequest struct {
	ClientName         *string `json:"client_name"`
	ProjectDescription *string `json:"project_description"`
}

// DraftLaborRequest fija el costo de mano de obra.
type DraftLaborRequest struct {
	LaborCost decimal.Decimal `json:"labor_cost"`
}

// DraftAddItemRequest agrega un material (o suma 1 si ya está).
type DraftAddItemRequest struct {
	MaterialID string `json:"material_id" validate:"required"`
}

// DraftQuantityRequest fija la cantidad de una línea; <= 0 la elimina.
type DraftQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// DraftItemResponse línea del borrador con precios vigentes del catálogo.
// Available=false si el material fue eliminado del inventario.
type DraftItemResponse struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Quantity     decimal.Decimal `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Stock        decimal.Decimal `json:"stock"`
	ExceedsStock bool            `json:"exceeds_stock"`
	Available    bool            `json:"available"`
}

// DraftResponse estado completo de una sesión de edición.
type DraftResponse struct {
	SessionID          string              `json:"session_id"`
	State              string              `json:"state"`
	ClientName         string              `json:"client_name"`
	ProjectDescription string              `json:"project_description"`
	LaborCost          decimal.Decimal     `json:"labor_cost"`
	Items              []DraftItemResponse `json:"items"`
	MaterialsCost      decimal.Decimal     `json:"materials_cost"`
	TotalCost          decimal.Decimal     `json:"total_cost"`
}

// ── Cotización ────────────────────────────────────────────────────────────────

// QuoteLineItemResponse línea congelada de una cotización.
type QuoteLineItemResponse struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// QuoteResponse salida de una cotización finalizada.
type QuoteResponse struct {
	ID                 string                  `json:"id"`
	Number             string                  `json:"number"`
	ClientName         string                  `json:"client_name"`
	ProjectDescription string                  `json:"project_description"`
	CreatedAt          time.Time               `json:"created_at"`
	LaborCost          decimal.Decimal         `json:"labor_cost"`
	MaterialsCost      decimal.Decimal         `json:"materials_cost"`
	TotalCost          decimal.Decimal         `json:"total_cost"`
	Items              []QuoteLineItemResponse `json:"items"`
}

// QuoteSummaryResponse resumen para listados (sin líneas).
type QuoteSummaryResponse struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	ClientName string          `json:"client_name"`
	CreatedAt  time.Time       `json:"created_at"`
	ItemCount  int             `json:"item_count"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

// QuoteListResponse listado cronológico de cotizaciones.
type QuoteListResponse struct {
	Items []QuoteSummaryResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// ExportResponse metadatos del archivo exportado (el cuerpo HTTP lleva los bytes).
type ExportResponse struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Path        string `json:"path,omitempty"`
	Size        int    `json:"size"`
}
