package quoting_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tapiceria-api/internal/application/quoting"
	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/document"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/capture"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/excel"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/filestore"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tapiceria-api/pkg/logger"
)

const exportQuoteID = "3f2a9c1e-0000-4000-8000-00abcdef1234"

// stubExporter exportador controlable: cuenta llamadas y puede bloquear o fallar.
type stubExporter struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (s *stubExporter) Format() string      { return "stub" }
func (s *stubExporter) ContentType() string { return "text/plain" }
func (s *stubExporter) Export(_ context.Context, q *entity.Quote, _ *document.Document) ([]byte, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return []byte("cotización " + q.Number()), nil
}

type exportFixture struct {
	uc    *quoting.ExportUseCase
	fs    afero.Fs
	logs  *bytes.Buffer
	store *filestore.Store
}

func newExportFixture(t *testing.T, extra ...quoting.DocumentExporter) exportFixture {
	t.Helper()
	ctx := context.Background()
	quotes := memory.NewQuoteRepository()
	q := storedQuote(exportQuoteID, "Ana Pérez", time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, quotes.Create(ctx, q))

	r, err := document.NewRenderer(document.DefaultOptions())
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	store := filestore.New(fs, "/exports")
	var logs bytes.Buffer
	marotoExp := pdf.NewMarotoExporter("Tapicería")
	exporters := append([]quoting.DocumentExporter{marotoExp, excel.NewExporter(document.DefaultOptions())}, extra...)

	uc := quoting.NewExportUseCase(quoting.ExportConfig{
		Quotes:    quotes,
		Renderer:  r,
		Exporters: exporters,
		Store:     store,
		Decoder:   capture.NewDecoder(0),
		Capture:   marotoExp,
		Log:       logger.New(logger.Config{Env: "production", Level: "debug", Out: &logs}),
	})
	return exportFixture{uc: uc, fs: fs, logs: &logs, store: store}
}

// ─── Formatos ─────────────────────────────────────────────────────────────────

func TestExport_PDF(t *testing.T) {
	fx := newExportFixture(t)

	res, err := fx.uc.Export(context.Background(), exportQuoteID, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "Cotizacion_Ana_Pérez_CDEF1234.pdf", res.FileName)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("%PDF")))

	saved, err := fx.store.Read(res.FileName)
	require.NoError(t, err)
	assert.Equal(t, res.Data, saved)
	assert.Contains(t, fx.logs.String(), "documento exportado")
}

func TestExport_FormatoPorDefectoEsPDF(t *testing.T) {
	fx := newExportFixture(t)

	res, err := fx.uc.Export(context.Background(), exportQuoteID, "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
}

func TestExport_XLSX(t *testing.T) {
	fx := newExportFixture(t)

	res, err := fx.uc.Export(context.Background(), exportQuoteID, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "Cotizacion_Ana_Pérez_CDEF1234.xlsx", res.FileName)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("PK")), "xlsx es un zip")
	assert.Equal(t, []string{"pdf", "xlsx"}, fx.uc.Formats())
}

func TestExport_FormatoNoSoportado(t *testing.T) {
	_, err := newExportFixture(t).uc.Export(context.Background(), exportQuoteID, "docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport_CotizacionInexistente(t *testing.T) {
	_, err := newExportFixture(t).uc.Export(context.Background(), "nope", "pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Fallas ───────────────────────────────────────────────────────────────────

func TestExport_FallaSeReportaComoErrExport(t *testing.T) {
	stub := &stubExporter{err: errors.New("fuente corrupta")}
	fx := newExportFixture(t, stub)

	_, err := fx.uc.Export(context.Background(), exportQuoteID, "stub")
	require.ErrorIs(t, err, domain.ErrExport)
	assert.NotContains(t, err.Error(), "fuente corrupta", "la causa no se muestra al usuario")
	assert.Contains(t, fx.logs.String(), "fuente corrupta", "la causa queda en el log")

	exists, _ := afero.Exists(fx.fs, "/exports/Cotizacion_Ana_Pérez_CDEF1234.stub")
	assert.False(t, exists)
}

// ─── Concurrencia ─────────────────────────────────────────────────────────────

func TestExport_SolicitudesSimultaneasSeUnifican(t *testing.T) {
	stub := &stubExporter{release: make(chan struct{})}
	fx := newExportFixture(t, stub)

	const n = 5
	var wg sync.WaitGroup
	results := make([]*quoting.ExportResult, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := fx.uc.Export(context.Background(), exportQuoteID, "stub")
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	require.Eventually(t, func() bool { return stub.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(stub.release)
	wg.Wait()

	assert.Equal(t, int32(1), stub.calls.Load())
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, "cotización CDEF1234", string(r.Data))
	}
}

func TestExport_LlamadorCancelado(t *testing.T) {
	stub := &stubExporter{release: make(chan struct{})}
	fx := newExportFixture(t, stub)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := fx.uc.Export(ctx, exportQuoteID, "stub")
		done <- err
	}()
	require.Eventually(t, func() bool { return stub.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	close(stub.release)
}

// ─── Captura ──────────────────────────────────────────────────────────────────

func TestExportCapture(t *testing.T) {
	fx := newExportFixture(t)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 120, 300))))

	res, err := fx.uc.ExportCapture(context.Background(), exportQuoteID, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Cotizacion_Ana_Pérez_CDEF1234_captura.pdf", res.FileName)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("%PDF")))
}

func TestExportCapture_NoPisaElPDFPrincipal(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	main, err := fx.uc.Export(ctx, exportQuoteID, "pdf")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 50, 50))))
	capt, err := fx.uc.ExportCapture(ctx, exportQuoteID, buf.Bytes())
	require.NoError(t, err)
	assert.NotEqual(t, main.FileName, capt.FileName)

	stored, err := fx.store.Read(main.FileName)
	require.NoError(t, err)
	assert.Equal(t, main.Data, stored, "el PDF de la tabla sigue intacto")
}

func TestExportCapture_ImagenesDistintasNoSeUnifican(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	encode := func(w, h int) []byte {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
		return buf.Bytes()
	}
	imgs := [][]byte{encode(40, 200), encode(200, 40)}

	results := make([]*quoting.ExportResult, len(imgs))
	var wg sync.WaitGroup
	for i, img := range imgs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := fx.uc.ExportCapture(ctx, exportQuoteID, img)
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	wg.Wait()
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.NotEqual(t, results[0].Data, results[1].Data)
}

func TestExportCapture_ImagenInvalida(t *testing.T) {
	_, err := newExportFixture(t).uc.ExportCapture(context.Background(), exportQuoteID, []byte("no es imagen"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportCapture_NoConfigurada(t *testing.T) {
	r, err := document.NewRenderer(document.DefaultOptions())
	require.NoError(t, err)
	uc := quoting.NewExportUseCase(quoting.ExportConfig{Quotes: memory.NewQuoteRepository(), Renderer: r})

	_, err = uc.ExportCapture(context.Background(), exportQuoteID, []byte{1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
