package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Tapiceria-api/internal/application/analytics"
	"github.com/jhoicas/Tapiceria-api/internal/application/quoting"
	"github.com/jhoicas/Tapiceria-api/internal/application/usecase"
	"github.com/jhoicas/Tapiceria-api/internal/domain/document"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/capture"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/excel"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/filestore"
	infrapdf "github.com/jhoicas/Tapiceria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Tapiceria-api/internal/interfaces/http"
	"github.com/jhoicas/Tapiceria-api/pkg/config"
	"github.com/jhoicas/Tapiceria-api/pkg/logger"
)

const (
	swaggerFile   = "./docs/swagger.json"
	maxUploadSize = 25 << 20 // capturas de pantalla
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		AppName: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg.Storage, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	loc, err := cfg.Quote.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}
	docOpts := document.DefaultOptions()
	docOpts.CurrencyPrefix = cfg.Quote.CurrencyPrefix
	docOpts.ValidityDays = cfg.Quote.ValidityDays
	docOpts.Location = loc
	renderer, err := document.NewRenderer(docOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración del documento")
	}

	// PDF: layout paginado y modo captura comparten exportador
	pdfExporter := infrapdf.NewMarotoExporter(cfg.App.Name)

	materialUC := usecase.NewMaterialUseCase(repos.Materials)
	draftUC := quoting.NewDraftUseCase(repos.Materials, repos.Quotes, log.Component("drafts"))
	quoteUC := quoting.NewQuoteUseCase(repos.Quotes)
	exportUC := quoting.NewExportUseCase(quoting.ExportConfig{
		Quotes:    repos.Quotes,
		Renderer:  renderer,
		Exporters: []quoting.DocumentExporter{pdfExporter, excel.NewExporter(docOpts)},
		Store:     filestore.NewOS(cfg.Export.Dir),
		Decoder:   capture.NewDecoder(cfg.Export.CaptureMaxPixels),
		Capture:   pdfExporter,
		Log:       log,
	})
	dashboardUC := appanalytics.NewDashboardUseCase(repos.Materials, repos.Quotes, cfg.Quote.LowStockThreshold)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    maxUploadSize,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 60, // exportaciones grandes
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Tapicería API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		MaterialUC:  materialUC,
		DraftUC:     draftUC,
		QuoteUC:     quoteUC,
		ExportUC:    exportUC,
		DashboardUC: dashboardUC,
	})

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeDrafts(purgeCtx, draftUC, cfg.Quote.DraftIdle, log)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// purgeDrafts cierra periódicamente las sesiones de borrador abandonadas.
func purgeDrafts(ctx context.Context, uc *quoting.DraftUseCase, maxIdle time.Duration, log *logger.Logger) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(maxIdle / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := uc.PurgeIdle(maxIdle); n > 0 {
				log.Info().Int("sessions", n).Msg("borradores inactivos descartados")
			}
		}
	}
}
