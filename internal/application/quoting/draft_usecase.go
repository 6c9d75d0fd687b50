package quoting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tapiceria-api/internal/application/dto"
	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/pricing"
	"github.com/jhoicas/Tapiceria-api/internal/domain/quote"
	"github.com/jhoicas/Tapiceria-api/internal/domain/repository"
	"github.com/jhoicas/Tapiceria-api/pkg/logger"
)

// session un borrador en edición. mu serializa las operaciones sobre el mismo Builder.
type session struct {
	mu      sync.Mutex
	builder *quote.Builder
	touched time.Time
}

// DraftUseCase administra las sesiones de edición de cotizaciones.
// Cada sesión tiene su propio Builder; las sesiones viven en memoria del proceso.
type DraftUseCase struct {
	materials repository.MaterialRepository
	quotes    repository.QuoteRepository
	ids       quote.IDGenerator
	clock     quote.Clock
	log       *logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// DraftOption ajusta dependencias opcionales (útil en tests).
type DraftOption func(*DraftUseCase)

// WithIDGenerator reemplaza el generador de IDs de cotización.
func WithIDGenerator(g quote.IDGenerator) DraftOption { return func(uc *DraftUseCase) { uc.ids = g } }

// WithClock reemplaza el reloj.
func WithClock(c quote.Clock) DraftOption { return func(uc *DraftUseCase) { uc.clock = c } }

// NewDraftUseCase construye el caso de uso.
func NewDraftUseCase(
	materials repository.MaterialRepository,
	quotes repository.QuoteRepository,
	log *logger.Logger,
	opts ...DraftOption,
) *DraftUseCase {
	uc := &DraftUseCase{
		materials: materials,
		quotes:    quotes,
		ids:       quote.UUIDGenerator{},
		clock:     quote.SystemClock{},
		log:       log,
		sessions:  make(map[string]*session),
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// ── Sesiones ──────────────────────────────────────────────────────────────────

// Start abre una sesión vacía.
func (uc *DraftUseCase) Start(ctx context.Context) (*dto.DraftResponse, error) {
	id := uuid.New().String()
	s := &session{builder: quote.NewBuilder(uc.materials), touched: uc.clock.Now()}

	uc.mu.Lock()
	uc.sessions[id] = s
	uc.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return uc.view(ctx, id, s.builder)
}

// Discard cierra la sesión y descarta su borrador.
func (uc *DraftUseCase) Discard(_ context.Context, sessionID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.sessions[sessionID]; !ok {
		return sessionNotFound(sessionID)
	}
	delete(uc.sessions, sessionID)
	return nil
}

// PurgeIdle cierra las sesiones sin actividad desde hace más de maxIdle. Devuelve cuántas cerró.
func (uc *DraftUseCase) PurgeIdle(maxIdle time.Duration) int {
	limit := uc.clock.Now().Add(-maxIdle)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	n := 0
	for id, s := range uc.sessions {
		s.mu.Lock()
		idle := s.touched.Before(limit)
		s.mu.Unlock()
		if idle {
			delete(uc.sessions, id)
			n++
		}
	}
	return n
}

// ── Edición ───────────────────────────────────────────────────────────────────

// Get estado actual del borrador con precios vigentes.
func (uc *DraftUseCase) Get(ctx context.Context, sessionID string) (*dto.DraftResponse, error) {
	return uc.edit(ctx, sessionID, func(*quote.Builder) error { return nil })
}

// SetClient actualiza cliente y/o proyecto.
func (uc *DraftUseCase) SetClient(ctx context.Context, sessionID string, in dto.DraftClientRequest) (*dto.DraftResponse, error) {
	return uc.edit(ctx, sessionID, func(b *quote.Builder) error {
		if in.ClientName != nil {
			b.SetClientName(*in.ClientName)
		}
		if in.ProjectDescription != nil {
			b.SetProjectDescription(*in.ProjectDescription)
		}
		return nil
	})
}

// SetLabor fija la mano de obra. Negativo es ErrInvalidInput.
func (uc *DraftUseCase) SetLabor(ctx context.Context, sessionID string, in dto.DraftLaborRequest) (*dto.DraftResponse, error) {
	return uc.edit(ctx, sessionID, func(b *quote.Builder) error {
		return b.SetLaborCost(in.LaborCost)
	})
}

// AddItem agrega un material con cantidad 1, o suma 1 si ya estaba.
func (uc *DraftUseCase) AddItem(ctx context.Context, sessionID string, in dto.DraftAddItemRequest) (*dto.DraftResponse, error) {
	return uc.edit(ctx, sessionID, func(b *quote.Builder) error {
		return b.AddItem(ctx, in.MaterialID)
	})
}

// SetQuantity fija la cantidad; <= 0 elimina la línea.
func (uc *DraftUseCase) SetQuantity(ctx context.Context, sessionID, materialID string, in dto.DraftQuantityRequest) (*dto.DraftResponse, error) {
	return uc.edit(ctx, sessionID, func(b *quote.Builder) error {
		b.SetItemQuantity(materialID, in.Quantity)
		return nil
	})
}

// RemoveItem quita la línea del material.
func (uc *DraftUseCase) RemoveItem(ctx context.Context, sessionID, materialID string) (*dto.DraftResponse, error) {
	return uc.edit(ctx, sessionID, func(b *quote.Builder) error {
		b.RemoveItem(materialID)
		return nil
	})
}

// Reset vacía el borrador sin cerrar la sesión.
func (uc *DraftUseCase) Reset(ctx context.Context, sessionID string) (*dto.DraftResponse, error) {
	return uc.edit(ctx, sessionID, func(b *quote.Builder) error {
		b.Reset()
		return nil
	})
}

// Finalize congela el borrador en una cotización y la guarda. El borrador solo
// se vacía si la cotización quedó guardada; si el repositorio falla se restaura
// tal como estaba.
func (uc *DraftUseCase) Finalize(ctx context.Context, sessionID string) (*dto.QuoteResponse, error) {
	s, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = uc.clock.Now()

	snapshot := s.builder.Draft()
	q, err := s.builder.Finalize(ctx, uc.ids, uc.clock)
	if err != nil {
		return nil, err
	}
	if err := uc.quotes.Create(ctx, q); err != nil {
		s.builder.Restore(snapshot)
		return nil, fmt.Errorf("quoting: guardar cotización: %w", err)
	}

	uc.log.Info().
		Str("quote_id", q.ID).
		Str("client", q.ClientName).
		Int("items", len(q.Items)).
		Str("total", q.TotalCost.StringFixed(pricing.PresentationDigits)).
		Msg("cotización finalizada")
	return ToQuoteResponse(q), nil
}

// ── Internos ──────────────────────────────────────────────────────────────────

func sessionNotFound(id string) error {
	return fmt.Errorf("%w: sesión de cotización %s", domain.ErrNotFound, id)
}

func (uc *DraftUseCase) session(id string) (*session, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s, ok := uc.sessions[id]
	if !ok {
		return nil, sessionNotFound(id)
	}
	return s, nil
}

func (uc *DraftUseCase) edit(ctx context.Context, sessionID string, fn func(*quote.Builder) error) (*dto.DraftResponse, error) {
	s, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = uc.clock.Now()
	before := s.builder.Draft()
	if err := fn(s.builder); err != nil {
		return nil, err
	}
	resp, err := uc.view(ctx, sessionID, s.builder)
	if err != nil {
		s.builder.Restore(before)
		return nil, err
	}
	return resp, nil
}

// view arma la respuesta con los precios vigentes. Los materiales eliminados
// aparecen con Available=false y no suman.
func (uc *DraftUseCase) view(ctx context.Context, sessionID string, b *quote.Builder) (*dto.DraftResponse, error) {
	d := b.Draft()
	items := make([]dto.DraftItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		row := dto.DraftItemResponse{MaterialID: it.MaterialID, Quantity: it.Quantity}
		m, err := uc.materials.GetByID(ctx, it.MaterialID)
		if err != nil {
			return nil, fmt.Errorf("quoting: obtener material: %w", err)
		}
		if m != nil {
			sub, err := pricing.LineItemCost(m.UnitCost, it.Quantity)
			if err != nil {
				return nil, err
			}
			row.MaterialName = m.Name
			row.Unit = m.Unit.String()
			row.UnitCost = m.UnitCost
			row.Subtotal = sub
			row.Stock = m.Quantity
			row.ExceedsStock = it.Quantity.GreaterThan(m.Quantity)
			row.Available = true
		}
		items = append(items, row)
	}

	materials, err := b.MaterialsCost(ctx)
	if err != nil {
		return nil, err
	}
	total, err := b.TotalCost(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DraftResponse{
		SessionID:          sessionID,
		State:              b.State().String(),
		ClientName:         d.ClientName,
		ProjectDescription: d.ProjectDescription,
		LaborCost:          d.LaborCost,
		Items:              items,
		MaterialsCost:      materials,
		TotalCost:          total,
	}, nil
}
