package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrValidation   = errors.New("validación fallida")
	ErrExport       = errors.New("error al exportar el documento")
	ErrDuplicate    = errors.New("recurso duplicado")
)

// ValidationError indica un campo obligatorio ausente al finalizar una cotización.
// Es accionable por el usuario; errors.Is(err, ErrValidation) es verdadero.
type ValidationError struct {
	Field   string // client_name, items
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: campo requerido %q", ErrValidation, e.Field)
	}
	return e.Message
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError construye un ValidationError con mensaje para el usuario.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
