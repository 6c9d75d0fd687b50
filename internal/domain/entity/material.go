package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
)

// Unit unidad de medida de un material (enumeración cerrada).
type Unit int

const (
	UnitLength Unit = iota + 1 // metros
	UnitCount                  // unidades
	UnitMass                   // kilogramos
	UnitVolume                 // litros
	UnitArea                   // metros cuadrados
)

// Units lista todas las unidades válidas en orden de presentación.
var Units = []Unit{UnitLength, UnitCount, UnitMass, UnitVolume, UnitArea}

// String devuelve el código corto que se guarda y se imprime en la cotización.
func (u Unit) String() string {
	switch u {
	case UnitLength:
		return "metros"
	case UnitCount:
		return "unidades"
	case UnitMass:
		return "kg"
	case UnitVolume:
		return "litros"
	case UnitArea:
		return "m2"
	default:
		return ""
	}
}

// Label nombre legible de la unidad (formularios y hoja de cálculo).
func (u Unit) Label() string {
	switch u {
	case UnitLength:
		return "Metros"
	case UnitCount:
		return "Unidades"
	case UnitMass:
		return "Kilogramos"
	case UnitVolume:
		return "Litros"
	case UnitArea:
		return "Metros cuadrados"
	default:
		return ""
	}
}

// Valid indica si u pertenece a la enumeración.
func (u Unit) Valid() bool { return u >= UnitLength && u <= UnitArea }

// ParseUnit acepta el código corto ("metros", "kg", ...) o el tipo en inglés ("length", "mass", ...).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metros", "m", "length":
		return UnitLength, nil
	case "unidades", "und", "count":
		return UnitCount, nil
	case "kg", "kilogramos", "mass":
		return UnitMass, nil
	case "litros", "l", "volume":
		return UnitVolume, nil
	case "m2", "metros cuadrados", "area":
		return UnitArea, nil
	}
	return 0, fmt.Errorf("%w: unidad de medida desconocida %q", domain.ErrInvalidInput, s)
}

// MarshalText serializa la unidad con su código corto (JSON, CSV).
func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("%w: unidad de medida inválida", domain.ErrInvalidInput)
	}
	return []byte(u.String()), nil
}

// UnmarshalText acepta cualquier forma reconocida por ParseUnit.
func (u *Unit) UnmarshalText(b []byte) error {
	parsed, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Material representa un insumo del inventario de la tapicería.
// UnitCost y Quantity nunca son negativos.
type Material struct {
	ID        string
	Name      string
	UnitCost  decimal.Decimal // costo por unidad de medida
	Quantity  decimal.Decimal // existencia actual (informativa, no se descuenta al cotizar)
	Unit      Unit
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate verifica las invariantes del material.
func (m *Material) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: el nombre del material es requerido", domain.ErrInvalidInput)
	}
	if m.UnitCost.IsNegative() {
		return fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	if m.Quantity.IsNegative() {
		return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if !m.Unit.Valid() {
		return fmt.Errorf("%w: unidad de medida inválida", domain.ErrInvalidInput)
	}
	return nil
}
