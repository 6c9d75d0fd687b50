// seed_materials importa el catálogo de materiales desde un CSV
// (name;unit_cost;quantity;unit) al almacenamiento configurado (STORAGE_DRIVER).
//
// Uso: go run ./cmd/seed_materials [--latin1] [--dry-run] materiales.csv
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/Tapiceria-api/internal/application/usecase"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/catalog"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/storage"
	"github.com/jhoicas/Tapiceria-api/pkg/config"
	"github.com/jhoicas/Tapiceria-api/pkg/logger"
)

func main() {
	latin1 := pflag.Bool("latin1", false, "el archivo está en ISO-8859-1 (Excel en Windows)")
	dryRun := pflag.Bool("dry-run", false, "validar sin guardar")
	sep := pflag.String("sep", ";", "separador de campos")
	pflag.Parse()

	if pflag.NArg() != 1 || len([]rune(*sep)) != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_materials [--latin1] [--dry-run] [--sep ;] archivo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, AppName: "seed_materials"})

	f, err := os.Open(pflag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := catalog.Read(f, catalog.Options{Latin1: *latin1, Separator: []rune(*sep)[0]})
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	log.Info().Int("materiales", len(rows)).Str("archivo", pflag.Arg(0)).Msg("CSV leído")
	if *dryRun {
		return
	}

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg.Storage, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	uc := usecase.NewMaterialUseCase(repos.Materials)
	created := 0
	for i, in := range rows {
		if _, err := uc.Create(ctx, in); err != nil {
			log.Error().Err(err).Int("fila", i+1).Str("material", in.Name).Msg("material omitido")
			continue
		}
		created++
	}
	log.Info().Int("creados", created).Int("omitidos", len(rows)-created).Msg("importación terminada")
}
