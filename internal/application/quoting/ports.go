// Package quoting orquesta la edición de borradores, la consulta de
// cotizaciones y su exportación a documentos.
package quoting

import (
	"context"

	"github.com/jhoicas/Tapiceria-api/internal/domain/document"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
)

// DocumentExporter convierte una cotización ya paginada al formato final (pdf, xlsx).
type DocumentExporter interface {
	Format() string
	ContentType() string
	Export(ctx context.Context, quote *entity.Quote, doc *document.Document) ([]byte, error)
}

// CaptureExporter genera el PDF de un documento de captura (una imagen por página).
type CaptureExporter interface {
	ExportDocument(ctx context.Context, doc *document.Document) ([]byte, error)
}

// CaptureDecoder identifica formato y dimensiones de una captura.
// Formatos no soportados devuelven domain.ErrInvalidInput.
type CaptureDecoder interface {
	Decode(data []byte) (document.Capture, error)
}

// FileStore guarda archivos de forma atómica y devuelve la ruta final.
type FileStore interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}
