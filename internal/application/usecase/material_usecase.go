package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tapiceria-api/internal/application/dto"
	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/repository"
)

// MaterialUseCase casos de uso CRUD del inventario de materiales.
// La existencia es informativa: cotizar no la descuenta.
type MaterialUseCase struct {
	repo repository.MaterialRepository
	now  func() time.Time
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, now: time.Now}
}

// Create da de alta un material.
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.MaterialRequest) (*dto.MaterialResponse, error) {
	unit, err := entity.ParseUnit(in.Unit)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	m := &entity.Material{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		UnitCost:  in.UnitCost,
		Quantity:  in.Quantity,
		Unit:      unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// GetByID obtiene un material. ErrNotFound si no existe.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// Update reemplaza nombre, costo, cantidad y unidad. Las cotizaciones ya
// guardadas conservan el precio con que se hicieron.
func (uc *MaterialUseCase) Update(ctx context.Context, id string, in dto.MaterialRequest) (*dto.MaterialResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	unit, err := entity.ParseUnit(in.Unit)
	if err != nil {
		return nil, err
	}
	m.Name = strings.TrimSpace(in.Name)
	m.UnitCost = in.UnitCost
	m.Quantity = in.Quantity
	m.Unit = unit
	m.UpdatedAt = uc.now()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// List lista el inventario en orden de alta.
func (uc *MaterialUseCase) List(ctx context.Context) (*dto.MaterialListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: len(items), Total: len(items)},
	}, nil
}

// Delete elimina un material. Los borradores que lo usen dejan de sumarlo.
func (uc *MaterialUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Units opciones válidas de unidad de medida.
func (uc *MaterialUseCase) Units() []dto.UnitResponse {
	out := make([]dto.UnitResponse, 0, len(entity.Units))
	for _, u := range entity.Units {
		out = append(out, dto.UnitResponse{Code: u.String(), Label: u.Label()})
	}
	return out
}

func (uc *MaterialUseCase) get(ctx context.Context, id string) (*entity.Material, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrNotFound, id)
	}
	return m, nil
}

// ToMaterialResponse convierte la entidad a DTO.
func ToMaterialResponse(m *entity.Material) *dto.MaterialResponse { return toMaterialResponse(m) }

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	if m == nil {
		return nil
	}
	return &dto.MaterialResponse{
		ID:        m.ID,
		Name:      m.Name,
		UnitCost:  m.UnitCost,
		Quantity:  m.Quantity,
		Unit:      m.Unit.String(),
		UnitLabel: m.Unit.Label(),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
