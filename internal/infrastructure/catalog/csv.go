// Package catalog importa el catálogo de materiales desde CSV.
//
// Formato: name;unit_cost;quantity;unit, una línea por material. La primera
// línea se ignora si es el encabezado. Hojas exportadas desde Excel en Windows
// suelen venir en ISO-8859-1; ver Options.Latin1.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Tapiceria-api/internal/application/dto"
	"github.com/jhoicas/Tapiceria-api/internal/domain"
)

const fieldsPerRecord = 4

// Options ajustes del lector.
type Options struct {
	Latin1    bool // decodificar ISO-8859-1 a UTF-8
	Separator rune // ';' si es cero
}

// Read parsea el CSV completo. Un error indica la línea del archivo.
func Read(r io.Reader, opts Options) ([]dto.MaterialRequest, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	if opts.Separator != 0 {
		cr.Comma = opts.Separator
	}
	cr.FieldsPerRecord = fieldsPerRecord
	cr.TrimLeadingSpace = true

	var out []dto.MaterialRequest
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", domain.ErrInvalidInput, err)
		}
		line, _ := cr.FieldPos(0)
		if first && isHeader(rec) {
			continue
		}
		req, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: línea %d: %v", domain.ErrInvalidInput, line, err)
		}
		out = append(out, req)
	}
	return out, nil
}

func isHeader(rec []string) bool {
	return strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff")), "name") ||
		strings.EqualFold(strings.TrimSpace(rec[0]), "nombre")
}

func parseRecord(rec []string) (dto.MaterialRequest, error) {
	name := strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff"))
	if name == "" {
		return dto.MaterialRequest{}, errors.New("nombre vacío")
	}
	cost, err := parseDecimal(rec[1])
	if err != nil {
		return dto.MaterialRequest{}, fmt.Errorf("costo unitario %q: %w", rec[1], err)
	}
	qty, err := parseDecimal(rec[2])
	if err != nil {
		return dto.MaterialRequest{}, fmt.Errorf("cantidad %q: %w", rec[2], err)
	}
	return dto.MaterialRequest{
		Name:     name,
		UnitCost: cost,
		Quantity: qty,
		Unit:     strings.TrimSpace(rec[3]),
	}, nil
}

// parseDecimal acepta coma decimal ("12,50") además de punto.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
