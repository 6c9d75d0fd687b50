package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tapiceria-api/internal/application/dto"
	"github.com/jhoicas/Tapiceria-api/internal/application/quoting"
	"github.com/jhoicas/Tapiceria-api/internal/domain"
)

const internalErrorMsg = "error interno del servidor"

// writeError traduce errores de dominio a respuestas HTTP. El error original
// queda en Locals para el log de la petición.
//
//	ErrExport        → 500 con mensaje genérico (la causa solo va al log)
//	ValidationError  → 422
//	ErrInvalidInput  → 400
//	ErrNotFound      → 404
//	ErrDuplicate     → 409
//	otro             → 500 con mensaje genérico
func writeError(c *fiber.Ctx, err error) error {
	c.Locals(LocalError, err)

	// ErrExport primero: su causa puede envolver otros sentinels.
	if errors.Is(err, domain.ErrExport) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "EXPORT_FAILED", Message: exportMessage(err),
		})
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: verr.Error(), Field: verr.Field,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return badRequest(c, "INVALID_INPUT", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalErrorMsg})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// exportMessage nunca expone la causa.
func exportMessage(err error) string {
	var exp *quoting.ExportError
	if errors.As(err, &exp) {
		return exp.Error()
	}
	return domain.ErrExport.Error()
}
