package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/memory"
)

func TestMaterialRepo_OrdenDeInsercionYCopias(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMaterialRepository()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(ctx, &entity.Material{ID: id, Name: id, Unit: entity.UnitCount}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].ID, list[1].ID, list[2].ID})

	list[0].Name = "mutado"
	got, err := repo.GetByID(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "c", got.Name, "List debe devolver copias")

	assert.ErrorIs(t, repo.Create(ctx, &entity.Material{ID: "a"}), domain.ErrDuplicate)
	assert.ErrorIs(t, repo.Update(ctx, &entity.Material{ID: "zz"}), domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.NoError(t, repo.Delete(ctx, "a"))
	missing, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQuoteRepo_ListYRecent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewQuoteRepository()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"q1", "q2", "q3", "q4"} {
		require.NoError(t, repo.Create(ctx, &entity.Quote{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			TotalCost: decimal.NewFromInt(int64(i)),
		}))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "q1", all[0].ID)
	assert.Equal(t, "q4", all[3].ID)

	recent, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []string{"q4", "q3", "q2"}, []string{recent[0].ID, recent[1].ID, recent[2].ID})

	none, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
