package quoting_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/memory"
)

type fixedIDs struct{ id string }

func (f fixedIDs) NewID() string { return f.id }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func catalog() *memory.MaterialRepo {
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return memory.NewMaterialRepository(
		&entity.Material{ID: "tela", Name: "Tela Chenille", UnitCost: dec("50.00"), Quantity: dec("10"), Unit: entity.UnitLength, CreatedAt: now, UpdatedAt: now},
		&entity.Material{ID: "espuma", Name: "Espuma alta densidad", UnitCost: dec("25.50"), Quantity: dec("3"), Unit: entity.UnitCount, CreatedAt: now, UpdatedAt: now},
	)
}

// quoteRepoMock QuoteRepository configurable con testify/mock.
type quoteRepoMock struct{ mock.Mock }

func (m *quoteRepoMock) Create(ctx context.Context, q *entity.Quote) error {
	return m.Called(ctx, q).Error(0)
}

func (m *quoteRepoMock) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*entity.Quote)
	return q, args.Error(1)
}

func (m *quoteRepoMock) List(ctx context.Context) ([]*entity.Quote, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]*entity.Quote)
	return l, args.Error(1)
}

func (m *quoteRepoMock) Recent(ctx context.Context, n int) ([]*entity.Quote, error) {
	args := m.Called(ctx, n)
	l, _ := args.Get(0).([]*entity.Quote)
	return l, args.Error(1)
}

// flakyMaterials deja pasar `allow` lecturas por ID y luego falla.
type flakyMaterials struct {
	*memory.MaterialRepo
	allow atomic.Int32
	armed atomic.Bool
}

func (f *flakyMaterials) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	if f.armed.Load() && f.allow.Add(-1) < 0 {
		return nil, errors.New("lectura caída")
	}
	return f.MaterialRepo.GetByID(ctx, id)
}
