package document

import (
	"fmt"
	"time"

	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
)

// Alturas de línea (mm) del layout de cotización.
const (
	RowHeight     = 8.0
	SummaryHeight = 48.0
	FooterHeight  = 6.0

	titleBlockHeight   = 35.0
	sectionTitleHeight = 12.0
	tableHeaderHeight  = 15.0
)

// columnRatios proporción fija de las columnas: Material, Cantidad, Unidad, Precio Unit., Total.
var columnRatios = [...]float64{80, 25, 25, 25, 35}

var tableHeaders = [...]string{"Material", "Cantidad", "Unidad", "Precio Unit.", "Total"}

var columnAligns = [...]Align{AlignLeft, AlignRight, AlignCenter, AlignRight, AlignRight}

// Options parámetros del render.
type Options struct {
	Geometry       Geometry
	CurrencyPrefix string         // "L" (lempiras)
	ValidityDays   int            // días de validez impresos en el pie
	Location       *time.Location // zona para formatear la fecha; nil = la de la cotización
}

// DefaultOptions A4, lempiras, 30 días.
func DefaultOptions() Options {
	return Options{Geometry: A4(), CurrencyPrefix: "L", ValidityDays: 30}
}

// Renderer convierte una cotización finalizada en un Document paginado.
type Renderer struct {
	opts Options
}

// NewRenderer construye el renderer; valida la geometría.
func NewRenderer(opts Options) (*Renderer, error) {
	if err := opts.Geometry.Validate(); err != nil {
		return nil, err
	}
	if opts.ValidityDays <= 0 {
		opts.ValidityDays = 30
	}
	return &Renderer{opts: opts}, nil
}

// Options devuelve la configuración efectiva.
func (r *Renderer) Options() Options { return r.opts }

// Render arma título, datos del cliente, tabla de materiales (en el orden de la
// cotización), resumen de costos y pie de validez anclado al final de la última página.
func (r *Renderer) Render(q *entity.Quote) (*Document, error) {
	if q == nil {
		return nil, fmt.Errorf("document: cotización nil")
	}
	blocks := make([]Block, 0, len(q.Items)+6)
	blocks = append(blocks, r.titleBlock(), r.clientBlock(q), r.sectionTitle("DETALLE DE MATERIALES"), r.tableHeaderBlock())
	for _, it := range q.Items {
		blocks = append(blocks, r.rowBlock(it))
	}
	// La última fila no queda sola: viaja con el resumen.
	if len(q.Items) > 0 {
		blocks[len(blocks)-1].KeepWithNext = true
	}
	blocks = append(blocks, r.summaryBlock(q), r.footerBlock())

	return &Document{
		Geometry: r.opts.Geometry,
		Title:    "Cotización " + q.Number(),
		Pages:    Paginate(blocks, r.opts.Geometry),
	}, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (r *Renderer) text(s string, x, y, w, h float64, a Align, size float64, style FontStyle) Element {
	return Element{Kind: KindText, X: x, Y: y, Width: w, Height: h, Text: s, Align: a, Font: Font{Size: size, Style: style}}
}

func (r *Renderer) rule(y, thickness float64) Element {
	g := r.opts.Geometry
	return Element{Kind: KindRule, X: g.MarginLeft, Y: y, Width: g.ContentWidth(), Thickness: thickness}
}

func (r *Renderer) titleBlock() Block {
	g := r.opts.Geometry
	return Block{Name: "title", Height: titleBlockHeight, Elements: []Element{
		r.text("COTIZACIÓN", g.MarginLeft, 0, g.ContentWidth(), 9, AlignCenter, 20, StyleBold),
		r.rule(15, 0.5),
	}}
}

func (r *Renderer) clientBlock(q *entity.Quote) Block {
	g := r.opts.Geometry
	x, w := g.MarginLeft, g.ContentWidth()
	els := []Element{r.text("INFORMACIÓN DEL CLIENTE", x, 0, w, 6, AlignLeft, 14, StyleBold)}
	y := 12.0
	els = append(els, r.text("Cliente: "+q.ClientName, x, y, w, 5, AlignLeft, 12, StyleNormal))
	y += 10
	if q.ProjectDescription != "" {
		els = append(els, r.text("Proyecto: "+q.ProjectDescription, x, y, w, 5, AlignLeft, 12, StyleNormal))
		y += 10
	}
	els = append(els, r.text("Fecha: "+FormatDate(q.CreatedAt, r.opts.Location), x, y, w, 5, AlignLeft, 12, StyleNormal))
	y += 8
	els = append(els, r.text("Cotización #: "+q.Number(), x, y, w, 5, AlignLeft, 12, StyleNormal))
	y += 20
	return Block{Name: "client", Height: y, Elements: els}
}

func (r *Renderer) sectionTitle(s string) Block {
	g := r.opts.Geometry
	return Block{Name: "section", Height: sectionTitleHeight, Elements: []Element{
		r.text(s, g.MarginLeft, 0, g.ContentWidth(), 6, AlignLeft, 14, StyleBold),
	}}
}

// Columns posiciones X y anchos de las 5 columnas de la tabla, escalados al ancho útil.
func (r *Renderer) Columns() (xs, widths [len(columnRatios)]float64) {
	g := r.opts.Geometry
	var sum float64
	for _, c := range columnRatios {
		sum += c
	}
	x := g.MarginLeft
	for i, c := range columnRatios {
		widths[i] = g.ContentWidth() * c / sum
		xs[i] = x
		x += widths[i]
	}
	return xs, widths
}

func (r *Renderer) tableHeaderBlock() Block {
	xs, ws := r.Columns()
	els := make([]Element, 0, len(tableHeaders)+1)
	for i, h := range tableHeaders {
		els = append(els, r.text(h, xs[i], 0, ws[i], 4, columnAligns[i], 10, StyleBold))
	}
	els = append(els, r.rule(5, 0.3))
	return Block{Name: "table-header", Height: tableHeaderHeight, Elements: els}
}

func (r *Renderer) rowBlock(it entity.QuoteLineItem) Block {
	xs, ws := r.Columns()
	cells := [len(columnRatios)]string{
		it.MaterialName,
		FormatQuantity(it.Quantity),
		it.Unit.String(),
		FormatCurrency(it.UnitCost, r.opts.CurrencyPrefix),
		FormatCurrency(it.TotalCost, r.opts.CurrencyPrefix),
	}
	els := make([]Element, 0, len(cells))
	for i, c := range cells {
		els = append(els, r.text(c, xs[i], 0, ws[i], 4, columnAligns[i], 10, StyleNormal))
	}
	return Block{Name: "row", Height: RowHeight, Elements: els}
}

// summaryBlock resumen alineado a la derecha: etiquetas en 50 mm, valores en 30 mm.
func (r *Renderer) summaryBlock(q *entity.Quote) Block {
	g := r.opts.Geometry
	labelX := g.Right() - 80
	valueX := g.Right() - 30
	line := func(label, value string, y, size float64, style FontStyle) []Element {
		return []Element{
			r.text(label, labelX, y, 50, 5, AlignLeft, size, style),
			r.text(value, valueX, y, 30, 5, AlignRight, size, style),
		}
	}
	els := []Element{r.rule(8, 0.3)}
	els = append(els, line("Subtotal Materiales:", FormatCurrency(q.MaterialsCost, r.opts.CurrencyPrefix), 20, 11, StyleNormal)...)
	els = append(els, line("Mano de Obra:", FormatCurrency(q.LaborCost, r.opts.CurrencyPrefix), 28, 11, StyleNormal)...)
	els = append(els, line("TOTAL:", FormatCurrency(q.TotalCost, r.opts.CurrencyPrefix), 40, 14, StyleBold)...)
	return Block{Name: "summary", Height: SummaryHeight, Elements: els}
}

func (r *Renderer) footerBlock() Block {
	g := r.opts.Geometry
	note := fmt.Sprintf("Esta cotización tiene validez de %d días.", r.opts.ValidityDays)
	return Block{Name: "footer", Height: FooterHeight, AnchorBottom: true, Elements: []Element{
		r.text(note, g.MarginLeft, 0, g.ContentWidth(), 4, AlignLeft, 9, StyleItalic),
	}}
}
