package http

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tapiceria-api/internal/application/dto"
	"github.com/jhoicas/Tapiceria-api/internal/application/quoting"
)

const defaultRecentQuotes = 3

// QuoteHandler consulta y exportación de cotizaciones guardadas.
type QuoteHandler struct {
	quotes *quoting.QuoteUseCase
	export *quoting.ExportUseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(quotes *quoting.QuoteUseCase, export *quoting.ExportUseCase) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, export: export}
}

// List godoc
// @Summary      Listar cotizaciones (más antigua primero)
// @Tags         quotes
// @Produce      json
// @Success      200  {object}  dto.QuoteListResponse
// @Router       /api/quotes [get]
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	out, err := h.quotes.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Recent GET /api/quotes/recent?n=3
func (h *QuoteHandler) Recent(c *fiber.Ctx) error {
	out, err := h.quotes.Recent(c.Context(), c.QueryInt("n", defaultRecentQuotes))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cotización
// @Tags         quotes
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.quotes.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Formats GET /api/quotes/formats
func (h *QuoteHandler) Formats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"formats": h.export.Formats()})
}

// Export godoc
// @Summary      Exportar cotización
// @Description  Devuelve el archivo como adjunto. Con meta=true responde solo los metadatos.
// @Tags         quotes
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id      path   string  true   "ID de la cotización"
// @Param        format  query  string  false  "pdf | xlsx"  default(pdf)
// @Param        meta    query  bool    false  "solo metadatos"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/export [get]
func (h *QuoteHandler) Export(c *fiber.Ctx) error {
	res, err := h.export.Export(c.Context(), c.Params("id"), c.Query("format"))
	if err != nil {
		return writeError(c, err)
	}
	return sendExport(c, res)
}

// Capture POST /api/quotes/:id/capture (multipart, campo "image": PNG, JPEG o WebP)
//
// PDF de una página con la captura centrada.
func (h *QuoteHandler) Capture(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "INVALID_BODY", "se requiere el archivo 'image'")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "INVALID_BODY", "no se pudo leer la imagen")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "INVALID_BODY", "no se pudo leer la imagen")
	}

	res, err := h.export.ExportCapture(c.Context(), c.Params("id"), data)
	if err != nil {
		return writeError(c, err)
	}
	return sendExport(c, res)
}

func sendExport(c *fiber.Ctx, res *quoting.ExportResult) error {
	if meta, _ := strconv.ParseBool(c.Query("meta")); meta {
		return c.JSON(dto.ExportResponse{
			FileName:    res.FileName,
			ContentType: res.ContentType,
			Path:        res.Path,
			Size:        len(res.Data),
		})
	}
	c.Attachment(res.FileName)
	c.Set(fiber.HeaderContentType, res.ContentType)
	return c.Send(res.Data)
}
