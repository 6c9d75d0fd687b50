// Package migrations aplica el esquema con goose a partir de SQL embebido.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed sql/sqlite/*.sql sql/postgres/*.sql
var files embed.FS

// Dialectos soportados.
const (
	SQLite   = "sqlite3"
	Postgres = "postgres"
)

var dirs = map[string]string{
	SQLite:   "sql/sqlite",
	Postgres: "sql/postgres",
}

// goose guarda dialecto y FS en variables globales.
var mu sync.Mutex

// Up aplica todas las migraciones pendientes del dialecto indicado.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	dir, ok := dirs[dialect]
	if !ok {
		return fmt.Errorf("migrations: dialecto %q no soportado", dialect)
	}
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	return nil
}

// Version versión actual del esquema.
func Version(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	if _, ok := dirs[dialect]; !ok {
		return 0, fmt.Errorf("migrations: dialecto %q no soportado", dialect)
	}
	mu.Lock()
	defer mu.Unlock()
	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}
