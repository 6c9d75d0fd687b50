package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tapiceria-api/internal/application/dto"
	"github.com/jhoicas/Tapiceria-api/internal/application/quoting"
)

// DraftHandler sesiones de edición de cotizaciones. Toda respuesta de edición
// devuelve el borrador completo con precios vigentes.
type DraftHandler struct {
	uc *quoting.DraftUseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(uc *quoting.DraftUseCase) *DraftHandler {
	return &DraftHandler{uc: uc}
}

// Start POST /api/drafts
func (h *DraftHandler) Start(c *fiber.Ctx) error {
	out, err := h.uc.Start(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/drafts/:sid
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	return h.respond(c)(h.uc.Get(c.Context(), c.Params("sid")))
}

// Discard DELETE /api/drafts/:sid
func (h *DraftHandler) Discard(c *fiber.Ctx) error {
	if err := h.uc.Discard(c.Context(), c.Params("sid")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetClient PUT /api/drafts/:sid/client
func (h *DraftHandler) SetClient(c *fiber.Ctx) error {
	var in dto.DraftClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	return h.respond(c)(h.uc.SetClient(c.Context(), c.Params("sid"), in))
}

// SetLabor PUT /api/drafts/:sid/labor
func (h *DraftHandler) SetLabor(c *fiber.Ctx) error {
	var in dto.DraftLaborRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	return h.respond(c)(h.uc.SetLabor(c.Context(), c.Params("sid"), in))
}

// AddItem POST /api/drafts/:sid/items
func (h *DraftHandler) AddItem(c *fiber.Ctx) error {
	var in dto.DraftAddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.MaterialID == "" {
		return badRequest(c, "VALIDATION", "material_id es requerido")
	}
	return h.respond(c)(h.uc.AddItem(c.Context(), c.Params("sid"), in))
}

// SetQuantity PUT /api/drafts/:sid/items/:materialId
func (h *DraftHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.DraftQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	return h.respond(c)(h.uc.SetQuantity(c.Context(), c.Params("sid"), c.Params("materialId"), in))
}

// RemoveItem DELETE /api/drafts/:sid/items/:materialId
func (h *DraftHandler) RemoveItem(c *fiber.Ctx) error {
	return h.respond(c)(h.uc.RemoveItem(c.Context(), c.Params("sid"), c.Params("materialId")))
}

// Reset POST /api/drafts/:sid/reset
func (h *DraftHandler) Reset(c *fiber.Ctx) error {
	return h.respond(c)(h.uc.Reset(c.Context(), c.Params("sid")))
}

// Finalize POST /api/drafts/:sid/finalize
//
// 201 con la cotización guardada; 422 si falta el cliente o no hay materiales.
func (h *DraftHandler) Finalize(c *fiber.Ctx) error {
	out, err := h.uc.Finalize(c.Context(), c.Params("sid"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *DraftHandler) respond(c *fiber.Ctx) func(*dto.DraftResponse, error) error {
	return func(out *dto.DraftResponse, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}
