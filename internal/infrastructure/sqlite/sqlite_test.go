package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/migrations"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─── Migraciones ────────────────────────────────────────────────────────────

func TestMigraciones_VersionEIdempotencia(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	v, err := migrations.Version(ctx, db, migrations.SQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	require.NoError(t, migrations.Up(ctx, db, migrations.SQLite), "volver a migrar no debe fallar")
	assert.Error(t, migrations.Up(ctx, db, "oracle"))
}

// ─── Materiales ─────────────────────────────────────────────────────────────

func TestMaterialRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewMaterialRepository(openDB(t))
	at := time.Date(2026, 10, 1, 9, 30, 0, 123456789, time.UTC)

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(ctx, &entity.Material{
			ID: id, Name: "Material " + id, UnitCost: dec("12.345"), Quantity: dec("7.5"),
			Unit: entity.UnitLength, CreatedAt: at, UpdatedAt: at,
		}))
	}
	assert.ErrorIs(t, repo.Create(ctx, &entity.Material{ID: "a", Unit: entity.UnitCount, CreatedAt: at, UpdatedAt: at}), domain.ErrDuplicate)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].ID, list[1].ID, list[2].ID})

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, dec("12.345").Equal(got.UnitCost))
	assert.True(t, dec("7.5").Equal(got.Quantity))
	assert.Equal(t, entity.UnitLength, got.Unit)
	assert.True(t, at.Equal(got.CreatedAt))

	got.Name = "Tela lino"
	got.Unit = entity.UnitArea
	got.UnitCost = dec("99")
	require.NoError(t, repo.Update(ctx, got))
	updated, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Tela lino", updated.Name)
	assert.Equal(t, entity.UnitArea, updated.Unit)
	assert.True(t, dec("99").Equal(updated.UnitCost))

	assert.ErrorIs(t, repo.Update(ctx, &entity.Material{ID: "zz", Unit: entity.UnitCount}), domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.NoError(t, repo.Delete(ctx, "a"))
	missing, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// ─── Cotizaciones ───────────────────────────────────────────────────────────

func sampleQuote(id string, at time.Time) *entity.Quote {
	return &entity.Quote{
		ID:                 id,
		ClientName:         "María López",
		ProjectDescription: "Sofá 3 puestos",
		CreatedAt:          at,
		LaborCost:          dec("1500"),
		MaterialsCost:      dec("376.5"),
		TotalCost:          dec("1876.5"),
		Items: []entity.QuoteLineItem{
			{MaterialID: "tela", MaterialName: "Tela", UnitCost: dec("50"), Quantity: dec("6"), Unit: entity.UnitLength, TotalCost: dec("300")},
			{MaterialID: "espuma", MaterialName: "Espuma", UnitCost: dec("25.5"), Quantity: dec("3"), Unit: entity.UnitCount, TotalCost: dec("76.5")},
		},
	}
}

func TestQuoteRepo_CreateYGetByID(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := sqlite.NewQuoteRepository(db)
	at := time.Date(2026, 10, 2, 15, 4, 5, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, sampleQuote("q-1", at)))
	assert.ErrorIs(t, repo.Create(ctx, sampleQuote("q-1", at)), domain.ErrDuplicate)

	got, err := repo.GetByID(ctx, "q-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sofá 3 puestos", got.ProjectDescription)
	assert.True(t, dec("1876.5").Equal(got.TotalCost))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "tela", got.Items[0].MaterialID)
	assert.Equal(t, entity.UnitCount, got.Items[1].Unit)
	assert.True(t, dec("76.5").Equal(got.Items[1].TotalCost))

	missing, err := repo.GetByID(ctx, "nada")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQuoteRepo_CreateAtomico(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := sqlite.NewQuoteRepository(db)

	q := sampleQuote("q-roto", time.Now())
	_, err := db.Exec(`INSERT INTO quote_items (quote_id, position, material_id, material_name, unit_cost, quantity, unit, total_cost)
		VALUES ('q-roto', 0, 'x', 'x', '0', '0', 'm', '0')`)
	require.Error(t, err, "sin cabecera la FK rechaza la línea")

	// Una línea inválida dentro de la transacción deja la tabla sin la cabecera.
	_, err = db.Exec(`CREATE TRIGGER fail_items BEFORE INSERT ON quote_items
		WHEN NEW.position = 1 BEGIN SELECT RAISE(ABORT, 'boom'); END`)
	require.NoError(t, err)
	require.Error(t, repo.Create(ctx, q))

	got, err := repo.GetByID(ctx, "q-roto")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQuoteRepo_ListYRecent(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewQuoteRepository(openDB(t))
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	// Insertadas fuera de orden cronológico.
	for _, c := range []struct {
		id string
		h  int
	}{{"q3", 3}, {"q1", 1}, {"q4", 4}, {"q2", 2}} {
		require.NoError(t, repo.Create(ctx, sampleQuote(c.id, base.Add(time.Duration(c.h)*time.Hour))))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"q1", "q2", "q3", "q4"}, []string{all[0].ID, all[1].ID, all[2].ID, all[3].ID})
	for _, q := range all {
		assert.Len(t, q.Items, 2)
	}

	recent, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []string{"q4", "q3", "q2"}, []string{recent[0].ID, recent[1].ID, recent[2].ID})

	none, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQuoteRepo_SobreviveAlBorrarMaterial(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	materials := sqlite.NewMaterialRepository(db)
	quotes := sqlite.NewQuoteRepository(db)
	now := time.Now()

	require.NoError(t, materials.Create(ctx, &entity.Material{
		ID: "tela", Name: "Tela", UnitCost: dec("50"), Quantity: dec("10"), Unit: entity.UnitLength, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, quotes.Create(ctx, sampleQuote("q-1", now)))
	require.NoError(t, materials.Delete(ctx, "tela"))

	got, err := quotes.GetByID(ctx, "q-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Tela", got.Items[0].MaterialName)
}
