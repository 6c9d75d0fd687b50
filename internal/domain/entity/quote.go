package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// quoteNumberLen caracteres finales del ID que forman el número visible de cotización.
const quoteNumberLen = 8

// Quote cotización finalizada. Inmutable: los costos quedan congelados al crearla.
type Quote struct {
	ID                 string
	ClientName         string
	ProjectDescription string
	CreatedAt          time.Time
	LaborCost          decimal.Decimal
	MaterialsCost      decimal.Decimal
	TotalCost          decimal.Decimal // MaterialsCost + LaborCost
	Items              []QuoteLineItem
}

// QuoteLineItem copia desnormalizada del material al momento de finalizar.
// Editar o borrar el material después no altera la cotización.
type QuoteLineItem struct {
	MaterialID   string
	MaterialName string
	UnitCost     decimal.Decimal
	Quantity     decimal.Decimal
	Unit         Unit
	TotalCost    decimal.Decimal // UnitCost × Quantity
}

// Number número legible de la cotización: últimos 8 caracteres del ID en mayúsculas.
func (q *Quote) Number() string {
	id := q.ID
	if len(id) > quoteNumberLen {
		id = id[len(id)-quoteNumberLen:]
	}
	return strings.ToUpper(id)
}
