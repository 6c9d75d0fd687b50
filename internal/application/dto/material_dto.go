package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialRequest entrada para crear o reemplazar un material.
// Unit acepta el código (metros, unidades, kg, litros, m2) o su tipo (length, count, mass, volume, area).
type MaterialRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit" validate:"required"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitLabel string          `json:"unit_label"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MaterialListResponse lista de materiales en orden de alta.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// UnitResponse opción del selector de unidades.
type UnitResponse struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}
