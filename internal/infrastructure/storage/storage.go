// Package storage abre los repositorios del driver configurado (memory, sqlite o postgres).
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tapiceria-api/internal/domain/repository"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/migrations"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Tapiceria-api/pkg/config"
	"github.com/jhoicas/Tapiceria-api/pkg/logger"
)

// Repositories puertos de persistencia del driver elegido.
type Repositories struct {
	Materials repository.MaterialRepository
	Quotes    repository.QuoteRepository

	close func()
}

// Close libera la conexión o el pool.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Open conecta el driver y, si AutoMigrate está activo, aplica las migraciones.
func Open(ctx context.Context, cfg config.StorageConfig, db config.DBConfig, log *logger.Logger) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &Repositories{
			Materials: memory.NewMaterialRepository(),
			Quotes:    memory.NewQuoteRepository(),
			close:     func() {},
		}, nil

	case config.DriverSQLite:
		conn, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := migrations.Up(ctx, conn, migrations.SQLite); err != nil {
				conn.Close()
				return nil, err
			}
		}
		logVersion(log, func() (int64, error) { return migrations.Version(ctx, conn, migrations.SQLite) })
		return &Repositories{
			Materials: sqlite.NewMaterialRepository(conn),
			Quotes:    sqlite.NewQuoteRepository(conn),
			close:     func() { _ = conn.Close() },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, db)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Repositories{
			Materials: postgres.NewMaterialRepository(pool),
			Quotes:    postgres.NewQuoteRepository(pool, postgres.NewTxRunner(pool)),
			close:     pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido: %q", cfg.Driver)
}

func logVersion(log *logger.Logger, version func() (int64, error)) {
	v, err := version()
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo leer la versión del esquema")
		return
	}
	log.Info().Int64("schema_version", v).Msg("esquema de base de datos")
}
