package repository

import (
	"context"

	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material (DIP).
// GetByID devuelve (nil, nil) si no existe; List respeta el orden de inserción.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	List(ctx context.Context) ([]*entity.Material, error)
	// Update reemplaza nombre, costo, cantidad y unidad. ErrNotFound si no existe.
	Update(ctx context.Context, material *entity.Material) error
	// Delete no valida referencias: las cotizaciones guardan su propia copia.
	Delete(ctx context.Context, id string) error
}
