package entity

import "github.com/shopspring/decimal"

// DraftItem línea de un borrador: referencia viva al material más la cantidad pedida.
type DraftItem struct {
	MaterialID string
	Quantity   decimal.Decimal // siempre > 0 mientras esté en la lista
}

// QuoteDraft cotización en edición. Pertenece en exclusiva al Builder que la edita.
// Items no repite MaterialID y conserva el orden de inserción.
type QuoteDraft struct {
	ClientName         string
	ProjectDescription string
	LaborCost          decimal.Decimal
	Items              []DraftItem
}

// Clone devuelve una copia independiente del borrador.
func (d QuoteDraft) Clone() QuoteDraft {
	out := d
	out.Items = make([]DraftItem, len(d.Items))
	copy(out.Items, d.Items)
	return out
}

// IndexOf posición del material en Items, o -1.
func (d *QuoteDraft) IndexOf(materialID string) int {
	for i := range d.Items {
		if d.Items[i].MaterialID == materialID {
			return i
		}
	}
	return -1
}
