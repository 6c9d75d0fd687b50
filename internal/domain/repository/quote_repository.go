package repository

import (
	"context"

	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
)

// QuoteRepository define el puerto de persistencia para cotizaciones finalizadas.
type QuoteRepository interface {
	// Create guarda cabecera y líneas de forma atómica.
	Create(ctx context.Context, quote *entity.Quote) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	// List en orden cronológico (más antigua primero).
	List(ctx context.Context) ([]*entity.Quote, error)
	// Recent las n más recientes por fecha de creación descendente.
	Recent(ctx context.Context, n int) ([]*entity.Quote, error)
}
