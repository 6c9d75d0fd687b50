package quote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/quote"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixedID string

func (f fixedID) NewID() string { return string(f) }

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

var testNow = fixedClock(time.Date(2026, 10, 15, 10, 30, 0, 0, time.UTC))

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tela() *entity.Material {
	return &entity.Material{ID: "mat-tela", Name: "Tela", UnitCost: d("50.00"), Quantity: d("10"), Unit: entity.UnitLength}
}

func espuma() *entity.Material {
	return &entity.Material{ID: "mat-espuma", Name: "Espuma", UnitCost: d("35.50"), Quantity: d("3"), Unit: entity.UnitArea}
}

func newBuilder(ms ...*entity.Material) (*quote.Builder, *memory.MaterialRepo) {
	repo := memory.NewMaterialRepository(ms...)
	return quote.NewBuilder(repo), repo
}

type mockReader struct{ mock.Mock }

func (m *mockReader) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	args := m.Called(ctx, id)
	mat, _ := args.Get(0).(*entity.Material)
	return mat, args.Error(1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados y operaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestBuilder_Estados(t *testing.T) {
	ctx := context.Background()
	b, _ := newBuilder(tela())
	assert.Equal(t, quote.StateEmpty, b.State())

	b.SetProjectDescription("Sofá de 3 plazas")
	assert.Equal(t, quote.StateDrafting, b.State())

	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	assert.Equal(t, quote.StateDrafting, b.State(), "sin cliente no está lista")

	b.SetClientName("   ")
	assert.Equal(t, quote.StateDrafting, b.State(), "cliente en blanco no cuenta")

	b.SetClientName("Juan")
	assert.Equal(t, quote.StateReadyToFinalize, b.State())

	b.Reset()
	assert.Equal(t, quote.StateEmpty, b.State())
	assert.Empty(t, b.Draft().Items)
}

func TestBuilder_AddItemDosVecesIncrementa(t *testing.T) {
	ctx := context.Background()
	b, _ := newBuilder(tela(), espuma())

	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	require.NoError(t, b.AddItem(ctx, "mat-espuma"))
	require.NoError(t, b.AddItem(ctx, "mat-tela"))

	items := b.Draft().Items
	require.Len(t, items, 2, "el mismo material no se duplica")
	assert.Equal(t, "mat-tela", items[0].MaterialID, "se conserva el orden de inserción")
	assert.True(t, d("2").Equal(items[0].Quantity))
	assert.True(t, d("1").Equal(items[1].Quantity))
}

func TestBuilder_AddItemNoLimitadoPorStock(t *testing.T) {
	ctx := context.Background()
	m := tela()
	m.Quantity = d("1")
	b, _ := newBuilder(m)
	for i := 0; i < 5; i++ {
		require.NoError(t, b.AddItem(ctx, m.ID))
	}
	assert.True(t, d("5").Equal(b.Draft().Items[0].Quantity))
}

func TestBuilder_AddItemMaterialInexistente(t *testing.T) {
	ctx := context.Background()
	b, _ := newBuilder(tela())
	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	before := b.Draft()

	err := b.AddItem(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, b.Draft(), "el borrador no cambia")
}

func TestBuilder_CatalogoVacioNuncaFinaliza(t *testing.T) {
	ctx := context.Background()
	b, _ := newBuilder()
	b.SetClientName("Juan")
	for _, id := range []string{"a", "b", "mat-tela"} {
		assert.ErrorIs(t, b.AddItem(ctx, id), domain.ErrNotFound)
	}
	_, err := b.Finalize(ctx, fixedID("q"), testNow)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBuilder_AddItemErrorDeLectura(t *testing.T) {
	reader := new(mockReader)
	reader.On("GetByID", mock.Anything, "mat-tela").Return(nil, errors.New("db caída"))
	b := quote.NewBuilder(reader)

	err := b.AddItem(context.Background(), "mat-tela")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, b.Draft().Items)
	reader.AssertExpectations(t)
}

func TestBuilder_SetItemQuantity(t *testing.T) {
	ctx := context.Background()
	b, _ := newBuilder(tela(), espuma())
	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	require.NoError(t, b.AddItem(ctx, "mat-espuma"))

	b.SetItemQuantity("mat-tela", d("3.5"))
	assert.True(t, d("3.5").Equal(b.Draft().Items[0].Quantity))

	b.SetItemQuantity("mat-tela", decimal.Zero)
	items := b.Draft().Items
	require.Len(t, items, 1)
	assert.Equal(t, "mat-espuma", items[0].MaterialID)

	cost, err := b.MaterialsCost(ctx)
	require.NoError(t, err)
	assert.True(t, d("35.50").Equal(cost), "el ítem eliminado no suma")

	b.SetItemQuantity("mat-espuma", d("-1"))
	assert.Empty(t, b.Draft().Items)

	b.SetItemQuantity("ausente", d("4"))
	assert.Empty(t, b.Draft().Items, "cantidad sobre material ausente no lo agrega")
}

func TestBuilder_RemoveItemAusenteNoEsError(t *testing.T) {
	b, _ := newBuilder()
	b.RemoveItem("nada")
	assert.Equal(t, quote.StateEmpty, b.State())
}

func TestBuilder_SetLaborCostNegativo(t *testing.T) {
	b, _ := newBuilder()
	require.NoError(t, b.SetLaborCost(d("80")))

	err := b.SetLaborCost(d("-5"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, d("80").Equal(b.Draft().LaborCost))
}

func TestBuilder_CostosConPreciosVigentes(t *testing.T) {
	ctx := context.Background()
	b, repo := newBuilder(tela(), espuma())
	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	require.NoError(t, b.AddItem(ctx, "mat-espuma"))
	require.NoError(t, b.SetLaborCost(d("20")))

	total, err := b.TotalCost(ctx)
	require.NoError(t, err)
	assert.True(t, d("105.50").Equal(total))

	// Un material borrado del catálogo deja de sumar mientras se edita.
	require.NoError(t, repo.Delete(ctx, "mat-espuma"))
	total, err = b.TotalCost(ctx)
	require.NoError(t, err)
	assert.True(t, d("70").Equal(total))
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalize
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalize_EjemploTela(t *testing.T) {
	ctx := context.Background()
	b, _ := newBuilder(tela())
	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	require.NoError(t, b.SetLaborCost(d("100")))
	b.SetClientName("Juan")

	q, err := b.Finalize(ctx, fixedID("3f2a9c1e-0000-4000-8000-00abcdef1234"), testNow)
	require.NoError(t, err)

	assert.Equal(t, "3f2a9c1e-0000-4000-8000-00abcdef1234", q.ID)
	assert.Equal(t, "CDEF1234", q.Number())
	assert.Equal(t, "Juan", q.ClientName)
	assert.Equal(t, time.Time(testNow), q.CreatedAt)
	assert.Equal(t, "100.00", q.MaterialsCost.StringFixed(2))
	assert.Equal(t, "200.00", q.TotalCost.StringFixed(2))
	require.Len(t, q.Items, 1)
	assert.Equal(t, "Tela", q.Items[0].MaterialName)
	assert.Equal(t, entity.UnitLength, q.Items[0].Unit)
	assert.True(t, d("2").Equal(q.Items[0].Quantity))
	assert.True(t, d("100").Equal(q.Items[0].TotalCost))

	assert.Equal(t, quote.StateEmpty, b.State(), "tras finalizar el builder vuelve a Empty")
}

func TestFinalize_SinClienteNoCambiaBorrador(t *testing.T) {
	ctx := context.Background()
	b, _ := newBuilder(tela())
	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	before := b.Draft()

	_, err := b.Finalize(ctx, fixedID("q"), testNow)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "client_name", vErr.Field)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, before, b.Draft())
}

func TestFinalize_SinItems(t *testing.T) {
	b, _ := newBuilder(tela())
	b.SetClientName("Juan")

	_, err := b.Finalize(context.Background(), fixedID("q"), testNow)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "items", vErr.Field)
	assert.Equal(t, "Juan", b.Draft().ClientName)
}

func TestFinalize_MaterialBorradoAntesDeFinalizar(t *testing.T) {
	ctx := context.Background()
	b, repo := newBuilder(tela(), espuma())
	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	require.NoError(t, b.AddItem(ctx, "mat-espuma"))
	b.SetClientName("Ana")
	require.NoError(t, repo.Delete(ctx, "mat-espuma"))
	before := b.Draft()

	_, err := b.Finalize(ctx, fixedID("q"), testNow)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, b.Draft())
	assert.Equal(t, quote.StateReadyToFinalize, b.State())
}

func TestFinalize_SnapshotIndependienteDelCatalogo(t *testing.T) {
	ctx := context.Background()
	b, repo := newBuilder(tela())
	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	b.SetClientName("Juan")
	q, err := b.Finalize(ctx, fixedID("q"), testNow)
	require.NoError(t, err)

	changed := tela()
	changed.Name = "Tela premium"
	changed.UnitCost = d("99")
	require.NoError(t, repo.Update(ctx, changed))
	require.NoError(t, repo.Delete(ctx, "mat-tela"))

	assert.Equal(t, "Tela", q.Items[0].MaterialName)
	assert.True(t, d("50").Equal(q.Items[0].UnitCost))
	assert.True(t, d("50").Equal(q.MaterialsCost))
}

func TestBuilder_RestoreYDraftSonCopias(t *testing.T) {
	ctx := context.Background()
	b, _ := newBuilder(tela())
	require.NoError(t, b.AddItem(ctx, "mat-tela"))
	b.SetClientName("Juan")
	snap := b.Draft()
	snap.Items[0].Quantity = d("99")
	assert.True(t, d("1").Equal(b.Draft().Items[0].Quantity))

	b.Reset()
	b.Restore(snap)
	assert.Equal(t, quote.StateReadyToFinalize, b.State())
	assert.True(t, d("99").Equal(b.Draft().Items[0].Quantity))
}
