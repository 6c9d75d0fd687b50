// Package excel exporta cotizaciones a hojas de cálculo .xlsx con excelize.
package excel

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Tapiceria-api/internal/domain/document"
	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/pricing"
)

const sheetName = "Cotización"

var (
	columns = []string{"A", "B", "C", "D", "E"}
	widths  = []float64{40, 12, 14, 16, 18}
	headers = []string{"Material", "Cantidad", "Unidad", "Precio Unit.", "Total"}
)

// Exporter genera la cotización como libro de Excel de una hoja.
type Exporter struct {
	currencyPrefix string
	validityDays   int
	loc            *time.Location
}

// NewExporter construye el exportador con el prefijo de moneda, los días de validez y la zona horaria de las fechas.
func NewExporter(opts document.Options) *Exporter {
	return &Exporter{currencyPrefix: opts.CurrencyPrefix, validityDays: opts.ValidityDays, loc: opts.Location}
}

func (e *Exporter) Format() string { return "xlsx" }
func (e *Exporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export escribe la cotización; el documento paginado no se usa porque la hoja no tiene páginas.
func (e *Exporter) Export(ctx context.Context, q *entity.Quote, _ *document.Document) ([]byte, error) {
	if q == nil {
		return nil, fmt.Errorf("excel: cotización nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("excel: nombre de hoja: %w", err)
	}
	for i, c := range columns {
		if err := f.SetColWidth(sheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("excel: ancho de columna %s: %w", c, err)
		}
	}

	st, err := e.newStyles(f)
	if err != nil {
		return nil, err
	}

	// ── Encabezado ──────────────────────────────────────────────────────
	if err := f.MergeCell(sheetName, "A1", "E1"); err != nil {
		return nil, fmt.Errorf("excel: combinar título: %w", err)
	}
	f.SetCellValue(sheetName, "A1", "COTIZACIÓN")
	f.SetCellStyle(sheetName, "A1", "E1", st.title)

	info := [][2]string{
		{"Cliente:", sanitizeCell(q.ClientName)},
		{"Proyecto:", sanitizeCell(q.ProjectDescription)},
		{"Fecha:", document.FormatDate(q.CreatedAt, e.loc)},
		{"Cotización #:", q.Number()},
	}
	r := 3
	for _, kv := range info {
		if kv[0] == "Proyecto:" && kv[1] == "" {
			continue
		}
		f.SetCellValue(sheetName, cell("A", r), kv[0])
		f.SetCellStyle(sheetName, cell("A", r), cell("A", r), st.label)
		f.SetCellValue(sheetName, cell("B", r), kv[1])
		r++
	}

	// ── Tabla ───────────────────────────────────────────────────────────
	r++
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(columns[i], r), h)
	}
	f.SetCellStyle(sheetName, cell("A", r), cell("E", r), st.header)
	for _, it := range q.Items {
		r++
		f.SetCellValue(sheetName, cell("A", r), sanitizeCell(it.MaterialName))
		f.SetCellValue(sheetName, cell("B", r), it.Quantity.InexactFloat64())
		f.SetCellValue(sheetName, cell("C", r), it.Unit.String())
		f.SetCellValue(sheetName, cell("D", r), pricing.Round(it.UnitCost).InexactFloat64())
		f.SetCellValue(sheetName, cell("E", r), pricing.Round(it.TotalCost).InexactFloat64())
		f.SetCellStyle(sheetName, cell("A", r), cell("A", r), st.body)
		f.SetCellStyle(sheetName, cell("B", r), cell("B", r), st.quantity)
		f.SetCellStyle(sheetName, cell("C", r), cell("C", r), st.center)
		f.SetCellStyle(sheetName, cell("D", r), cell("E", r), st.money)
	}

	// ── Resumen ─────────────────────────────────────────────────────────
	r += 2
	summary := []struct {
		label string
		value float64
		total bool
	}{
		{"Subtotal Materiales:", pricing.Round(q.MaterialsCost).InexactFloat64(), false},
		{"Mano de Obra:", pricing.Round(q.LaborCost).InexactFloat64(), false},
		{"TOTAL:", pricing.Round(q.TotalCost).InexactFloat64(), true},
	}
	for _, s := range summary {
		f.SetCellValue(sheetName, cell("D", r), s.label)
		f.SetCellValue(sheetName, cell("E", r), s.value)
		if s.total {
			f.SetCellStyle(sheetName, cell("D", r), cell("D", r), st.totalLabel)
			f.SetCellStyle(sheetName, cell("E", r), cell("E", r), st.totalMoney)
		} else {
			f.SetCellStyle(sheetName, cell("D", r), cell("D", r), st.label)
			f.SetCellStyle(sheetName, cell("E", r), cell("E", r), st.money)
		}
		r++
	}

	r++
	f.SetCellValue(sheetName, cell("A", r), fmt.Sprintf("Esta cotización tiene validez de %d días.", e.validityDays))
	f.SetCellStyle(sheetName, cell("A", r), cell("A", r), st.footer)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

// ── Estilos ───────────────────────────────────────────────────────────────────

type styles struct {
	title, label, header, body, quantity, center, money, totalLabel, totalMoney, footer int
}

func (e *Exporter) newStyles(f *excelize.File) (styles, error) {
	moneyFmt := `"` + e.currencyPrefix + `" #,##0.00`
	qtyFmt := "#,##0.###"
	var s styles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 18}, Alignment: &excelize.Alignment{Horizontal: "center"}}},
		{&s.label, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Border:    thinBorders(),
		}},
		{&s.body, &excelize.Style{Border: thinBorders()}},
		{&s.quantity, &excelize.Style{Border: thinBorders(), CustomNumFmt: &qtyFmt}},
		{&s.center, &excelize.Style{Border: thinBorders(), Alignment: &excelize.Alignment{Horizontal: "center"}}},
		{&s.money, &excelize.Style{Border: thinBorders(), CustomNumFmt: &moneyFmt}},
		{&s.totalLabel, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}}},
		{&s.totalMoney, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}, CustomNumFmt: &moneyFmt}},
		{&s.footer, &excelize.Style{Font: &excelize.Font{Italic: true, Size: 9, Color: "#646464"}}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return styles{}, fmt.Errorf("excel: crear estilo: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	out := make([]excelize.Border, len(sides))
	for i, side := range sides {
		out[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return out
}

func cell(col string, row int) string { return col + strconv.Itoa(row) }

// sanitizeCell evita que Excel interprete como fórmula un texto escrito por el usuario.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
