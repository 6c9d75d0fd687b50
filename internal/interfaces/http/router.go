package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Tapiceria-api/internal/application/analytics"
	"github.com/jhoicas/Tapiceria-api/internal/application/quoting"
	"github.com/jhoicas/Tapiceria-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	MaterialUC  *usecase.MaterialUseCase
	DraftUC     *quoting.DraftUseCase
	QuoteUC     *quoting.QuoteUseCase
	ExportUC    *quoting.ExportUseCase
	DashboardUC *appanalytics.DashboardUseCase
}

// Router registra las rutas de la API. Aplicación de un solo usuario: sin autenticación.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Materiales (units antes de :id)
	materials := api.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Get("/units", materialHandler.Units)
	materials.Get("/", materialHandler.List)
	materials.Post("/", materialHandler.Create)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", materialHandler.Update)
	materials.Delete("/:id", materialHandler.Delete)

	// Borradores de cotización
	drafts := api.Group("/drafts")
	draftHandler := NewDraftHandler(deps.DraftUC)
	drafts.Post("/", draftHandler.Start)
	drafts.Get("/:sid", draftHandler.Get)
	drafts.Delete("/:sid", draftHandler.Discard)
	drafts.Put("/:sid/client", draftHandler.SetClient)
	drafts.Put("/:sid/labor", draftHandler.SetLabor)
	drafts.Post("/:sid/items", draftHandler.AddItem)
	drafts.Put("/:sid/items/:materialId", draftHandler.SetQuantity)
	drafts.Delete("/:sid/items/:materialId", draftHandler.RemoveItem)
	drafts.Post("/:sid/reset", draftHandler.Reset)
	drafts.Post("/:sid/finalize", draftHandler.Finalize)

	// Cotizaciones guardadas y exportación
	quotes := api.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.ExportUC)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/recent", quoteHandler.Recent)
	quotes.Get("/formats", quoteHandler.Formats)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Get("/:id/export", quoteHandler.Export)
	quotes.Post("/:id/capture", quoteHandler.Capture)

	// Dashboard
	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
