// Package analytics contiene el resumen de la página de inicio: actividad de
// cotizaciones y estado del inventario.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Tapiceria-api/internal/application/dto"
	"github.com/jhoicas/Tapiceria-api/internal/application/quoting"
	"github.com/jhoicas/Tapiceria-api/internal/application/usecase"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/pricing"
	"github.com/jhoicas/Tapiceria-api/internal/domain/repository"
)

const (
	dashboardRecentQuotes    = 3 // cotizaciones recientes en el widget
	dashboardRecentMaterials = 3 // últimos materiales agregados
)

// DashboardUseCase genera el resumen del inicio.
//
// Fuente de datos: MaterialRepository y QuoteRepository (solo lectura).
type DashboardUseCase struct {
	materials         repository.MaterialRepository
	quotes            repository.QuoteRepository
	lowStockThreshold decimal.Decimal
	now               func() time.Time
}

// NewDashboardUseCase construye el caso de uso. Un material con existencia
// menor o igual a lowStockThreshold cuenta como bajo en stock.
func NewDashboardUseCase(
	materials repository.MaterialRepository,
	quotes repository.QuoteRepository,
	lowStockThreshold decimal.Decimal,
) *DashboardUseCase {
	return &DashboardUseCase{
		materials:         materials,
		quotes:            quotes,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres lecturas en paralelo:
//  1. List(materiales)        → conteo, bajo stock, últimos agregados
//  2. List(cotizaciones)      → total y valor cotizado
//  3. Recent(cotizaciones, 3) → widget de recientes
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var (
		materials []*entity.Material
		all       []*entity.Quote
		recent    []*entity.Quote
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if materials, err = uc.materials.List(gctx); err != nil {
			return fmt.Errorf("dashboard: materiales: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if all, err = uc.quotes.List(gctx); err != nil {
			return fmt.Errorf("dashboard: cotizaciones: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if recent, err = uc.quotes.Recent(gctx, dashboardRecentQuotes); err != nil {
			return fmt.Errorf("dashboard: cotizaciones recientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// ── Cotizaciones ───────────────────────────────────────────────────────────
	total := decimal.Zero
	for _, q := range all {
		total = total.Add(q.TotalCost)
	}
	recentQuotes := make([]dto.QuoteSummaryResponse, 0, len(recent))
	for _, q := range recent {
		recentQuotes = append(recentQuotes, quoting.ToQuoteSummary(q))
	}

	// ── Inventario ─────────────────────────────────────────────────────────────
	lowStock := 0
	for _, m := range materials {
		if m.Quantity.LessThanOrEqual(uc.lowStockThreshold) {
			lowStock++
		}
	}

	return &dto.DashboardSummaryDTO{
		TotalQuotes:      len(all),
		TotalQuotedValue: pricing.Round(total),
		MaterialsCount:   len(materials),
		LowStockCount:    lowStock,
		RecentQuotes:     recentQuotes,
		RecentMaterials:  latestMaterials(materials, dashboardRecentMaterials),
		DateLabel:        monthLabel(uc.now()),
	}, nil
}

// latestMaterials los n últimos agregados, el más nuevo primero. Ante empate
// de fecha manda el orden de alta.
func latestMaterials(list []*entity.Material, n int) []dto.MaterialResponse {
	idx := make([]int, len(list))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ma, mb := list[idx[a]], list[idx[b]]
		if !ma.CreatedAt.Equal(mb.CreatedAt) {
			return ma.CreatedAt.After(mb.CreatedAt)
		}
		return idx[a] > idx[b]
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	out := make([]dto.MaterialResponse, 0, len(idx))
	for _, i := range idx {
		out = append(out, *usecase.ToMaterialResponse(list[i]))
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
