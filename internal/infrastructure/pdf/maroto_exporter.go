// Package pdf traduce el documento paginado de una cotización a PDF con Maroto v2.
//
// Cada página del layout se convierte en una página Maroto. Los elementos se
// agrupan en franjas horizontales por coordenada Y; los huecos entre franjas se
// rellenan con filas vacías para que la posición final coincida con el layout.
//
//	┌──────────────────────────────┐
//	│ fila vacía (hasta Y franja)  │
//	│ franja: textos de misma Y    │  -> row.New(alto).Add(col.New(12).Add(...))
//	│ fila vacía                   │
//	│ franja: regla                │  -> line
//	└──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/document"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
)

const (
	gridSize      = 12
	bandEpsilon   = 0.01
	ruleRowHeight = 1.0
	fontFamily    = "helvetica"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorText = &props.Color{Red: 30, Green: 30, Blue: 30}
	colorRule = &props.Color{Red: 0, Green: 70, Blue: 127}
)

// ── Exporter ──────────────────────────────────────────────────────────────────

// MarotoExporter genera PDFs a partir de documentos ya paginados.
type MarotoExporter struct {
	author string
}

// NewMarotoExporter construye el exportador. author se escribe en los metadatos del PDF.
func NewMarotoExporter(author string) *MarotoExporter {
	return &MarotoExporter{author: author}
}

func (e *MarotoExporter) Format() string      { return "pdf" }
func (e *MarotoExporter) ContentType() string { return "application/pdf" }

// Export genera el PDF de la cotización a partir de su documento renderizado.
func (e *MarotoExporter) Export(ctx context.Context, _ *entity.Quote, doc *document.Document) ([]byte, error) {
	return e.ExportDocument(ctx, doc)
}

// ExportDocument genera el PDF de cualquier documento (tabla o captura).
func (e *MarotoExporter) ExportDocument(ctx context.Context, doc *document.Document) ([]byte, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, fmt.Errorf("%w: documento sin páginas", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g := doc.Geometry

	b := config.NewBuilder().
		WithDimensions(g.Width, g.Height).
		WithLeftMargin(g.MarginLeft).WithRightMargin(g.MarginRight).
		WithTopMargin(g.MarginTop).WithBottomMargin(g.MarginBottom).
		WithMaxGridSize(gridSize).
		WithDefaultFont(&props.Font{Family: fontFamily, Size: 10, Color: colorText}).
		WithTitle(doc.Title, true)
	if e.author != "" {
		b = b.WithAuthor(e.author, true)
	}
	m := maroto.New(b.Build())

	pages := make([]core.Page, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		rows, err := pageRows(p, g)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page.New().Add(rows...))
	}
	m.AddPages(pages...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Franjas ───────────────────────────────────────────────────────────────────

type band struct {
	y        float64
	rule     bool
	elements []document.Element
}

// bands agrupa los elementos por Y. Las reglas siempre van en franja propia.
func bands(p document.Page) []band {
	els := make([]document.Element, len(p.Elements))
	copy(els, p.Elements)
	sort.SliceStable(els, func(i, j int) bool { return els[i].Y < els[j].Y })

	var out []band
	for _, el := range els {
		isRule := el.Kind == document.KindRule
		if n := len(out); n > 0 && !isRule && !out[n-1].rule && el.Y-out[n-1].y < bandEpsilon {
			out[n-1].elements = append(out[n-1].elements, el)
			continue
		}
		out = append(out, band{y: el.Y, rule: isRule, elements: []document.Element{el}})
	}
	return out
}

func (b band) height() float64 {
	if b.rule {
		return ruleRowHeight
	}
	h := 0.0
	for _, el := range b.elements {
		h = max(h, el.Y-b.y+el.Height)
	}
	return max(h, bandEpsilon)
}

func pageRows(p document.Page, g document.Geometry) ([]core.Row, error) {
	var rows []core.Row
	cursor := g.MarginTop
	for _, b := range bands(p) {
		if gap := b.y - cursor; gap > bandEpsilon {
			rows = append(rows, row.New(gap))
			cursor = b.y
		}
		h := b.height()
		if b.rule {
			rows = append(rows, line.NewRow(h, props.Line{Color: colorRule, Thickness: b.elements[0].Thickness}))
			cursor += h
			continue
		}
		comps := make([]core.Component, 0, len(b.elements))
		for _, el := range b.elements {
			c, err := component(el, b.y, g)
			if err != nil {
				return nil, err
			}
			comps = append(comps, c)
		}
		rows = append(rows, row.New(h).Add(col.New(gridSize).Add(comps...)))
		cursor += h
	}
	return rows, nil
}

func component(el document.Element, bandY float64, g document.Geometry) (core.Component, error) {
	switch el.Kind {
	case document.KindText:
		return text.New(el.Text, props.Text{
			Top:    el.Y - bandY,
			Left:   el.X - g.MarginLeft,
			Right:  max(g.Right()-(el.X+el.Width), 0),
			Family: fontFamily,
			Size:   el.Font.Size,
			Style:  fontStyle(el.Font.Style),
			Align:  alignment(el.Align),
		}), nil
	case document.KindImage:
		ext, err := imageExtension(el.Format)
		if err != nil {
			return nil, err
		}
		return image.NewFromBytes(el.Image, ext, props.Rect{Center: true, Percent: 100}), nil
	default:
		return nil, fmt.Errorf("pdf: tipo de elemento no soportado (%d)", el.Kind)
	}
}

func fontStyle(s document.FontStyle) fontstyle.Type {
	switch s {
	case document.StyleBold:
		return fontstyle.Bold
	case document.StyleItalic:
		return fontstyle.Italic
	default:
		return fontstyle.Normal
	}
}

func alignment(a document.Align) align.Type {
	switch a {
	case document.AlignCenter:
		return align.Center
	case document.AlignRight:
		return align.Right
	default:
		return align.Left
	}
}

func imageExtension(format string) (extension.Type, error) {
	switch format {
	case "png":
		return extension.Png, nil
	case "jpg", "jpeg":
		return extension.Jpg, nil
	default:
		return "", fmt.Errorf("%w: formato de imagen %q no soportado en PDF", domain.ErrInvalidInput, format)
	}
}
