// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORAGE_DRIVER=memory y como doble de prueba en los tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo catálogo en memoria que conserva el orden de inserción.
// Guarda y entrega copias para que nadie mute el estado interno.
type MaterialRepo struct {
	mu    sync.RWMutex
	byID  map[string]entity.Material
	order []string
}

// NewMaterialRepository construye un catálogo vacío, opcionalmente precargado.
func NewMaterialRepository(seed ...*entity.Material) *MaterialRepo {
	r := &MaterialRepo{byID: make(map[string]entity.Material)}
	for _, m := range seed {
		_ = r.Create(context.Background(), m)
	}
	return r
}

func (r *MaterialRepo) Create(_ context.Context, material *entity.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[material.ID]; ok {
		return domain.ErrDuplicate
	}
	r.byID[material.ID] = *material
	r.order = append(r.order, material.ID)
	return nil
}

func (r *MaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MaterialRepo) List(_ context.Context) ([]*entity.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.Material, 0, len(r.order))
	for _, id := range r.order {
		m := r.byID[id]
		list = append(list, &m)
	}
	return list, nil
}

func (r *MaterialRepo) Update(_ context.Context, material *entity.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[material.ID]; !ok {
		return fmt.Errorf("%w: material %s", domain.ErrNotFound, material.ID)
	}
	r.byID[material.ID] = *material
	return nil
}

func (r *MaterialRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return nil
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
