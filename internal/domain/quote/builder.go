// Package quote contiene el constructor de cotizaciones: la máquina de estados que
// acumula un borrador (cliente, mano de obra, materiales) hasta finalizarlo en una
// entity.Quote inmutable.
//
//	Empty ──set*/AddItem──▶ Drafting ──cliente + ítems──▶ ReadyToFinalize ──Finalize──▶ Finalized ─▶ Empty
//	  ▲                                                                                   │
//	  └──────────────────────────────────── Reset (desde cualquier estado) ◀──────────────┘
package quote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/pricing"
)

// State estado del borrador.
type State int

const (
	StateEmpty State = iota
	StateDrafting
	StateReadyToFinalize
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateDrafting:
		return "drafting"
	case StateReadyToFinalize:
		return "ready_to_finalize"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// MaterialReader subconjunto del MaterialRepository que necesita el Builder.
type MaterialReader interface {
	GetByID(ctx context.Context, id string) (*entity.Material, error)
}

// IDGenerator asigna el identificador de la cotización al finalizar.
type IDGenerator interface {
	NewID() string
}

// Clock fuente de la fecha de creación.
type Clock interface {
	Now() time.Time
}

// UUIDGenerator IDGenerator por defecto (UUID v4).
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.New().String() }

// SystemClock Clock por defecto.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Builder edita un único borrador; se instancia uno por sesión de edición y no es seguro
// para uso concurrente. Toda operación que falla deja el borrador intacto.
type Builder struct {
	materials MaterialReader
	draft     entity.QuoteDraft
}

// NewBuilder construye un Builder en estado Empty.
func NewBuilder(materials MaterialReader) *Builder {
	return &Builder{materials: materials, draft: emptyDraft()}
}

func emptyDraft() entity.QuoteDraft {
	return entity.QuoteDraft{LaborCost: decimal.Zero, Items: []entity.DraftItem{}}
}

// State calcula el estado actual a partir del borrador.
func (b *Builder) State() State {
	d := &b.draft
	if strings.TrimSpace(d.ClientName) != "" && len(d.Items) > 0 {
		return StateReadyToFinalize
	}
	if d.ClientName != "" || d.ProjectDescription != "" || !d.LaborCost.IsZero() || len(d.Items) > 0 {
		return StateDrafting
	}
	return StateEmpty
}

// Draft copia del borrador para mostrarlo; modificarla no afecta al Builder.
func (b *Builder) Draft() entity.QuoteDraft { return b.draft.Clone() }

// Restore reemplaza el borrador por uno guardado previamente (p. ej. si falló la persistencia).
func (b *Builder) Restore(d entity.QuoteDraft) { b.draft = d.Clone() }

func (b *Builder) SetClientName(name string) { b.draft.ClientName = name }

func (b *Builder) SetProjectDescription(text string) { b.draft.ProjectDescription = text }

// SetLaborCost fija la mano de obra; negativo → ErrInvalidInput.
func (b *Builder) SetLaborCost(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: la mano de obra no puede ser negativa", domain.ErrInvalidInput)
	}
	b.draft.LaborCost = amount
	return nil
}

// AddItem agrega el material con cantidad 1, o suma 1 si ya estaba.
// El stock registrado es informativo: no limita la cantidad.
func (b *Builder) AddItem(ctx context.Context, materialID string) error {
	m, err := b.materials.GetByID(ctx, materialID)
	if err != nil {
		return fmt.Errorf("quote: obtener material: %w", err)
	}
	if m == nil {
		return fmt.Errorf("%w: material %s", domain.ErrNotFound, materialID)
	}
	if i := b.draft.IndexOf(materialID); i >= 0 {
		b.draft.Items[i].Quantity = b.draft.Items[i].Quantity.Add(decimal.NewFromInt(1))
		return nil
	}
	b.draft.Items = append(b.draft.Items, entity.DraftItem{MaterialID: materialID, Quantity: decimal.NewFromInt(1)})
	return nil
}

// SetItemQuantity reemplaza la cantidad; quantity ≤ 0 equivale a RemoveItem.
// Si el material no está en el borrador no hace nada.
func (b *Builder) SetItemQuantity(materialID string, quantity decimal.Decimal) {
	if !quantity.IsPositive() {
		b.RemoveItem(materialID)
		return
	}
	if i := b.draft.IndexOf(materialID); i >= 0 {
		b.draft.Items[i].Quantity = quantity
	}
}

// RemoveItem quita el material; ausente no es error.
func (b *Builder) RemoveItem(materialID string) {
	i := b.draft.IndexOf(materialID)
	if i < 0 {
		return
	}
	b.draft.Items = append(b.draft.Items[:i:i], b.draft.Items[i+1:]...)
}

// Reset descarta el borrador y vuelve a Empty.
func (b *Builder) Reset() { b.draft = emptyDraft() }

// MaterialsCost costo de materiales con los precios vigentes del catálogo.
// Los ítems cuyo material ya no existe aportan 0.
func (b *Builder) MaterialsCost(ctx context.Context) (decimal.Decimal, error) {
	return pricing.MaterialsCost(b.draft.Items, b.lookup(ctx))
}

// TotalCost materiales vigentes + mano de obra.
func (b *Builder) TotalCost(ctx context.Context) (decimal.Decimal, error) {
	materials, err := b.MaterialsCost(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return pricing.TotalCost(materials, b.draft.LaborCost)
}

// lookup resuelve contra el repositorio; un error de lectura se trata como no resuelto.
func (b *Builder) lookup(ctx context.Context) pricing.CatalogLookup {
	return func(id string) (*entity.Material, bool) {
		m, err := b.materials.GetByID(ctx, id)
		if err != nil || m == nil {
			return nil, false
		}
		return m, true
	}
}

// Finalize convierte el borrador en una cotización inmutable y vuelve a Empty.
//
// Retorna:
//   - *domain.ValidationError si falta el cliente o no hay ítems.
//   - domain.ErrNotFound si algún material del borrador ya no existe.
//
// En caso de error el borrador no cambia. Persistir la cotización es responsabilidad del llamador.
func (b *Builder) Finalize(ctx context.Context, ids IDGenerator, clock Clock) (*entity.Quote, error) {
	d := &b.draft
	clientName := strings.TrimSpace(d.ClientName)
	if clientName == "" {
		return nil, domain.NewValidationError("client_name", "Por favor ingresa el nombre del cliente")
	}
	if len(d.Items) == 0 {
		return nil, domain.NewValidationError("items", "Agrega al menos un material a la cotización")
	}

	// Snapshot desnormalizado: se copia todo lo que el documento necesita.
	resolved := make([]*entity.Material, 0, len(d.Items))
	lines := make([]entity.QuoteLineItem, 0, len(d.Items))
	for _, item := range d.Items {
		m, err := b.materials.GetByID(ctx, item.MaterialID)
		if err != nil {
			return nil, fmt.Errorf("quote: obtener material: %w", err)
		}
		if m == nil {
			return nil, fmt.Errorf("%w: material %s ya no existe en el inventario", domain.ErrNotFound, item.MaterialID)
		}
		lineTotal, err := pricing.LineItemCost(m.UnitCost, item.Quantity)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, m)
		lines = append(lines, entity.QuoteLineItem{
			MaterialID:   m.ID,
			MaterialName: m.Name,
			UnitCost:     m.UnitCost,
			Quantity:     item.Quantity,
			Unit:         m.Unit,
			TotalCost:    lineTotal,
		})
	}

	materialsCost, err := pricing.MaterialsCost(d.Items, pricing.LookupFromSlice(resolved))
	if err != nil {
		return nil, err
	}
	totalCost, err := pricing.TotalCost(materialsCost, d.LaborCost)
	if err != nil {
		return nil, err
	}

	q := &entity.Quote{
		ID:                 ids.NewID(),
		ClientName:         clientName,
		ProjectDescription: strings.TrimSpace(d.ProjectDescription),
		CreatedAt:          clock.Now(),
		LaborCost:          d.LaborCost,
		MaterialsCost:      materialsCost,
		TotalCost:          totalCost,
		Items:              lines,
	}
	b.Reset()
	return q, nil
}
