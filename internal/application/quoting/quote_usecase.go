package quoting

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tapiceria-api/internal/application/dto"
	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/repository"
)

// QuoteUseCase consultas sobre cotizaciones finalizadas (inmutables).
type QuoteUseCase struct {
	quotes repository.QuoteRepository
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(quotes repository.QuoteRepository) *QuoteUseCase {
	return &QuoteUseCase{quotes: quotes}
}

// GetByID devuelve la cotización con sus líneas. ErrNotFound si no existe.
func (uc *QuoteUseCase) GetByID(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	q, err := uc.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("quoting: obtener cotización: %w", err)
	}
	if q == nil {
		return nil, fmt.Errorf("%w: cotización %s", domain.ErrNotFound, id)
	}
	return ToQuoteResponse(q), nil
}

// List todas las cotizaciones en orden cronológico.
func (uc *QuoteUseCase) List(ctx context.Context) (*dto.QuoteListResponse, error) {
	list, err := uc.quotes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("quoting: listar cotizaciones: %w", err)
	}
	items := make([]dto.QuoteSummaryResponse, 0, len(list))
	for _, q := range list {
		items = append(items, ToQuoteSummary(q))
	}
	return &dto.QuoteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: len(items), Total: len(items)},
	}, nil
}

// Recent las n más recientes, la más nueva primero.
func (uc *QuoteUseCase) Recent(ctx context.Context, n int) ([]dto.QuoteSummaryResponse, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n debe ser mayor que cero", domain.ErrInvalidInput)
	}
	list, err := uc.quotes.Recent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("quoting: cotizaciones recientes: %w", err)
	}
	out := make([]dto.QuoteSummaryResponse, 0, len(list))
	for _, q := range list {
		out = append(out, ToQuoteSummary(q))
	}
	return out, nil
}
