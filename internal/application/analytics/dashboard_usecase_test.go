package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tapiceria-api/internal/application/analytics"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/memory"
)

func TestDashboard_Resumen(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	mat := func(id string, qty int64, at time.Time) *entity.Material {
		return &entity.Material{ID: id, Name: id, UnitCost: decimal.NewFromInt(1), Quantity: decimal.NewFromInt(qty), Unit: entity.UnitCount, CreatedAt: at}
	}
	materials := memory.NewMaterialRepository(
		mat("tela", 20, base),
		mat("espuma", 2, base.Add(2*time.Hour)),
		mat("hilo", 5, base.Add(time.Hour)),
		mat("grapas", 0, base.Add(3*time.Hour)),
	)

	quotes := memory.NewQuoteRepository()
	for i, total := range []string{"100.50", "200.25", "50", "1000"} {
		require.NoError(t, quotes.Create(ctx, &entity.Quote{
			ID:         "quote-000" + string(rune('1'+i)),
			ClientName: "Cliente " + string(rune('A'+i)),
			CreatedAt:  base.Add(time.Duration(i) * 24 * time.Hour),
			TotalCost:  decimal.RequireFromString(total),
		}))
	}

	uc := analytics.NewDashboardUseCase(materials, quotes, decimal.NewFromInt(5))
	sum, err := uc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, sum.TotalQuotes)
	assert.True(t, decimal.RequireFromString("1350.75").Equal(sum.TotalQuotedValue))
	assert.Equal(t, 4, sum.MaterialsCount)
	assert.Equal(t, 3, sum.LowStockCount, "espuma, hilo y grapas están en o bajo el umbral")

	require.Len(t, sum.RecentQuotes, 3)
	assert.Equal(t, "Cliente D", sum.RecentQuotes[0].ClientName)
	assert.Equal(t, "Cliente B", sum.RecentQuotes[2].ClientName)

	require.Len(t, sum.RecentMaterials, 3)
	assert.Equal(t, []string{"grapas", "espuma", "hilo"},
		[]string{sum.RecentMaterials[0].ID, sum.RecentMaterials[1].ID, sum.RecentMaterials[2].ID})
	assert.NotEmpty(t, sum.DateLabel)
}

func TestDashboard_Vacio(t *testing.T) {
	uc := analytics.NewDashboardUseCase(memory.NewMaterialRepository(), memory.NewQuoteRepository(), decimal.NewFromInt(5))

	sum, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.TotalQuotes)
	assert.True(t, sum.TotalQuotedValue.IsZero())
	assert.Empty(t, sum.RecentQuotes)
	assert.Empty(t, sum.RecentMaterials)
}

func TestDashboard_ValorCotizadoRedondeoBancario(t *testing.T) {
	ctx := context.Background()
	quotes := memory.NewQuoteRepository()
	require.NoError(t, quotes.Create(ctx, &entity.Quote{ID: "q1", ClientName: "A", CreatedAt: time.Now(), TotalCost: decimal.RequireFromString("10.125")}))

	sum, err := analytics.NewDashboardUseCase(memory.NewMaterialRepository(), quotes, decimal.NewFromInt(5)).GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10.12", sum.TotalQuotedValue.StringFixed(2), "mitad hacia el par")
}
