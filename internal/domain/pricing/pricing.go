// Package pricing es el motor de costos de las cotizaciones (servicio de dominio puro).
//
// Todas las sumas se hacen con decimal.Decimal sin redondear; el redondeo a 2
// decimales (bancario) ocurre solo al presentar, vía Round.
package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
)

// PresentationDigits decimales con que se muestran los montos.
const PresentationDigits = 2

// CatalogLookup resuelve un material por ID; ok=false si ya no existe en el catálogo.
type CatalogLookup func(materialID string) (material *entity.Material, ok bool)

// LineItemCost costo de una línea: unitCost × quantity, exacto.
func LineItemCost(unitCost, quantity decimal.Decimal) (decimal.Decimal, error) {
	if unitCost.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: costo unitario negativo (%s)", domain.ErrInvalidInput, unitCost)
	}
	if quantity.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: cantidad negativa (%s)", domain.ErrInvalidInput, quantity)
	}
	return unitCost.Mul(quantity), nil
}

// MaterialsCost suma LineItemCost de cada ítem cuyo material resuelve en el catálogo.
// Los ítems que no resuelven aportan 0 y se omiten sin error.
func MaterialsCost(items []entity.DraftItem, lookup CatalogLookup) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		m, ok := lookup(item.MaterialID)
		if !ok || m == nil {
			continue
		}
		cost, err := LineItemCost(m.UnitCost, item.Quantity)
		if err != nil {
			return decimal.Zero, fmt.Errorf("material %s: %w", item.MaterialID, err)
		}
		total = total.Add(cost)
	}
	return total, nil
}

// TotalCost materiales + mano de obra. La mano de obra negativa se rechaza.
func TotalCost(materialsCost, laborCost decimal.Decimal) (decimal.Decimal, error) {
	if laborCost.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: mano de obra negativa (%s)", domain.ErrInvalidInput, laborCost)
	}
	if materialsCost.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: costo de materiales negativo (%s)", domain.ErrInvalidInput, materialsCost)
	}
	return materialsCost.Add(laborCost), nil
}

// LineItemsCost suma los totales ya congelados de una cotización finalizada.
func LineItemsCost(items []entity.QuoteLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalCost)
	}
	return total
}

// Round redondeo bancario a PresentationDigits. Solo para mostrar.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(PresentationDigits)
}

// FromFloat convierte un número recibido de la capa de presentación.
// NaN e ±Inf no tienen representación decimal y se rechazan.
func FromFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: número no finito", domain.ErrInvalidInput)
	}
	return decimal.NewFromFloat(v), nil
}

// LookupFromSlice construye un CatalogLookup a partir de una lista de materiales.
func LookupFromSlice(materials []*entity.Material) CatalogLookup {
	byID := make(map[string]*entity.Material, len(materials))
	for _, m := range materials {
		if m != nil {
			byID[m.ID] = m
		}
	}
	return func(id string) (*entity.Material, bool) {
		m, ok := byID[id]
		return m, ok
	}
}
