package pdf_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/document"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/infrastructure/pdf"
)

func sampleQuote(n int) *entity.Quote {
	q := &entity.Quote{
		ID:                 "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d",
		ClientName:         "Hotel Las Palmas",
		ProjectDescription: "Retapizado de 12 sillas de comedor",
		CreatedAt:          time.Date(2026, 10, 15, 15, 0, 0, 0, time.UTC),
		LaborCost:          decimal.NewFromInt(1500),
	}
	for i := 1; i <= n; i++ {
		cost := decimal.RequireFromString("125.50")
		qty := decimal.NewFromInt(int64(i))
		q.Items = append(q.Items, entity.QuoteLineItem{
			MaterialID:   "m" + strconv.Itoa(i),
			MaterialName: "Tela Ñandú " + strconv.Itoa(i),
			UnitCost:     cost,
			Quantity:     qty,
			Unit:         entity.UnitLength,
			TotalCost:    cost.Mul(qty),
		})
		q.MaterialsCost = q.MaterialsCost.Add(cost.Mul(qty))
	}
	q.TotalCost = q.MaterialsCost.Add(q.LaborCost)
	return q
}

func render(t *testing.T, q *entity.Quote) *document.Document {
	t.Helper()
	r, err := document.NewRenderer(document.DefaultOptions())
	require.NoError(t, err)
	doc, err := r.Render(q)
	require.NoError(t, err)
	return doc
}

// ─── Tabla ────────────────────────────────────────────────────────────────────

func TestMarotoExporter_GeneraPDF(t *testing.T) {
	exp := pdf.NewMarotoExporter("Tapicería")
	q := sampleQuote(3)

	out, err := exp.Export(context.Background(), q, render(t, q))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
	assert.Equal(t, "pdf", exp.Format())
	assert.Equal(t, "application/pdf", exp.ContentType())
}

func TestMarotoExporter_VariasPaginas(t *testing.T) {
	exp := pdf.NewMarotoExporter("")
	q := sampleQuote(80)
	doc := render(t, q)
	require.Greater(t, len(doc.Pages), 2)

	out, err := exp.Export(context.Background(), q, doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMarotoExporter_DocumentoVacio(t *testing.T) {
	_, err := pdf.NewMarotoExporter("").ExportDocument(context.Background(), &document.Document{Geometry: document.A4()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMarotoExporter_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q := sampleQuote(1)

	_, err := pdf.NewMarotoExporter("").Export(ctx, q, render(t, q))
	assert.ErrorIs(t, err, context.Canceled)
}

// ─── Captura ──────────────────────────────────────────────────────────────────

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMarotoExporter_Captura(t *testing.T) {
	c := document.Capture{Data: pngBytes(t, 40, 90), Format: "png", Width: 40, Height: 90}
	doc, err := document.RenderCapture(c, document.A4(), "Cotización 7B3DCB6D")
	require.NoError(t, err)

	out, err := pdf.NewMarotoExporter("").ExportDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMarotoExporter_FormatoImagenNoSoportado(t *testing.T) {
	c := document.Capture{Data: []byte("GIF89a"), Format: "gif", Width: 10, Height: 10}
	doc, err := document.RenderCapture(c, document.A4(), "x")
	require.NoError(t, err)

	_, err = pdf.NewMarotoExporter("").ExportDocument(context.Background(), doc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
