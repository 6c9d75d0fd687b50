package quoting

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/document"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/repository"
	"github.com/jhoicas/Tapiceria-api/pkg/logger"
)

// exportFailedMsg mensaje para el usuario; la causa real solo va al log.
const exportFailedMsg = "no se pudo generar el documento, inténtalo de nuevo"

// ExportResult archivo generado.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
	Path        string // vacío si no hay FileStore configurado
}

// ExportConfig dependencias del caso de uso. Store y la pareja Decoder/Capture son opcionales.
type ExportConfig struct {
	Quotes    repository.QuoteRepository
	Renderer  *document.Renderer
	Exporters []DocumentExporter
	Store     FileStore
	Decoder   CaptureDecoder
	Capture   CaptureExporter
	Log       *logger.Logger
}

// ExportUseCase genera los documentos de una cotización guardada.
//
// Exportaciones simultáneas de la misma cotización y formato se unifican en una
// sola generación; todas reciben el mismo resultado.
type ExportUseCase struct {
	quotes    repository.QuoteRepository
	renderer  *document.Renderer
	exporters map[string]DocumentExporter
	store     FileStore
	decoder   CaptureDecoder
	capture   CaptureExporter
	log       *logger.Logger
	group     singleflight.Group
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(cfg ExportConfig) *ExportUseCase {
	byFormat := make(map[string]DocumentExporter, len(cfg.Exporters))
	for _, e := range cfg.Exporters {
		byFormat[strings.ToLower(e.Format())] = e
	}
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	return &ExportUseCase{
		quotes:    cfg.Quotes,
		renderer:  cfg.Renderer,
		exporters: byFormat,
		store:     cfg.Store,
		decoder:   cfg.Decoder,
		capture:   cfg.Capture,
		log:       log.Component("export"),
	}
}

// Formats formatos disponibles en orden alfabético.
func (uc *ExportUseCase) Formats() []string {
	return slices.Sorted(maps.Keys(uc.exporters))
}

// Export genera el documento de la cotización en el formato pedido.
//
// Retorna:
//   - domain.ErrNotFound      si la cotización no existe.
//   - domain.ErrInvalidInput  si el formato no está soportado.
//   - domain.ErrExport        si falla la generación o el guardado (la causa se registra en el log).
func (uc *ExportUseCase) Export(ctx context.Context, quoteID, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "pdf"
	}
	exp, ok := uc.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de exportación %q no soportado", domain.ErrInvalidInput, format)
	}
	q, err := uc.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	return uc.do(ctx, q.ID+":"+format, q.ID, format, func(ctx context.Context) (*ExportResult, error) {
		doc, err := uc.renderer.Render(q)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		data, err := exp.Export(ctx, q, doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		return uc.save(ctx, document.FileName(q, format), exp.ContentType(), data)
	})
}

// ExportCapture modo alternativo: PDF de una sola página con la captura de
// pantalla de la cotización centrada y escalada.
func (uc *ExportUseCase) ExportCapture(ctx context.Context, quoteID string, image []byte) (*ExportResult, error) {
	if uc.decoder == nil || uc.capture == nil {
		return nil, fmt.Errorf("%w: exportación por captura no disponible", domain.ErrInvalidInput)
	}
	q, err := uc.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	c, err := uc.decoder.Decode(image)
	if err != nil {
		return nil, err
	}

	// Capturas distintas de la misma cotización no comparten resultado.
	sum := sha256.Sum256(image)
	key := q.ID + ":capture:" + hex.EncodeToString(sum[:8])

	return uc.do(ctx, key, q.ID, "capture", func(ctx context.Context) (*ExportResult, error) {
		doc, err := document.RenderCapture(c, uc.renderer.Options().Geometry, "Cotización "+q.Number())
		if err != nil {
			return nil, fmt.Errorf("render captura: %w", err)
		}
		data, err := uc.capture.ExportDocument(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("captura: %w", err)
		}
		return uc.save(ctx, document.CaptureFileName(q), "application/pdf", data)
	})
}

// ── Internos ──────────────────────────────────────────────────────────────────

func (uc *ExportUseCase) load(ctx context.Context, quoteID string) (*entity.Quote, error) {
	q, err := uc.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("quoting: obtener cotización: %w", err)
	}
	if q == nil {
		return nil, fmt.Errorf("%w: cotización %s", domain.ErrNotFound, quoteID)
	}
	return q, nil
}

func (uc *ExportUseCase) save(ctx context.Context, name, contentType string, data []byte) (*ExportResult, error) {
	res := &ExportResult{FileName: name, ContentType: contentType, Data: data}
	if uc.store == nil {
		return res, nil
	}
	path, err := uc.store.Write(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("guardar: %w", err)
	}
	res.Path = path
	return res, nil
}

// do ejecuta fn una sola vez por clave. La generación compartida no se cancela
// si el primer solicitante abandona; cada llamador respeta su propio ctx.
func (uc *ExportUseCase) do(
	ctx context.Context,
	key, quoteID, format string,
	fn func(context.Context) (*ExportResult, error),
) (*ExportResult, error) {
	shared := context.WithoutCancel(ctx)
	ch := uc.group.DoChan(key, func() (any, error) {
		return fn(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			uc.log.Error().Err(r.Err).
				Str("quote_id", quoteID).
				Str("format", format).
				Msg("exportación fallida")
			return nil, &ExportError{cause: r.Err}
		}
		res := r.Val.(*ExportResult)
		uc.log.Info().
			Str("quote_id", quoteID).
			Str("format", format).
			Str("file", res.FileName).
			Int("bytes", len(res.Data)).
			Bool("shared", r.Shared).
			Msg("documento exportado")
		return res, nil
	}
}

// ExportError falla de exportación. Error() devuelve un mensaje apto para el
// usuario; errors.Is(err, domain.ErrExport) es verdadero y Unwrap expone la causa.
type ExportError struct {
	cause error
}

func (e *ExportError) Error() string { return exportFailedMsg }

func (e *ExportError) Is(target error) bool { return target == domain.ErrExport }

func (e *ExportError) Unwrap() error { return e.cause }
