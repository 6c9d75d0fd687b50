package document

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tapiceria-api/internal/domain/entity"
	"github.com/jhoicas/Tapiceria-api/internal/domain/pricing"
)

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatCurrency monto con 2 decimales, separador de miles y prefijo: "L 1,234.50".
func FormatCurrency(amount decimal.Decimal, prefix string) string {
	s := pricing.Round(amount).StringFixed(pricing.PresentationDigits)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	out := sign + groupThousands(intPart) + "." + frac
	if prefix == "" {
		return out
	}
	return prefix + " " + out
}

// groupThousands inserta comas de miles en un entero sin signo.
// Ej: "25000" → "25,000", "1000000" → "1,000,000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// FormatQuantity cantidad sin ceros sobrantes: "2", "3.5".
func FormatQuantity(q decimal.Decimal) string { return q.String() }

// FormatDate fecha larga en español: "15 de octubre de 2026". loc nil usa la zona de t.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return strconv.Itoa(t.Day()) + " de " + monthNames[t.Month()-1] + " de " + strconv.Itoa(t.Year())
}

// FileName nombre del archivo exportado:
// Cotizacion_<cliente con espacios → _>_<número de cotización>.<ext>
func FileName(q *entity.Quote, ext string) string {
	return baseName(q) + "." + ext
}

// CaptureFileName nombre del PDF por captura; no pisa el documento principal.
func CaptureFileName(q *entity.Quote) string {
	return baseName(q) + "_captura.pdf"
}

func baseName(q *entity.Quote) string {
	client := strings.Join(strings.Fields(q.ClientName), "_")
	client = strings.NewReplacer("/", "-", "\\", "-").Replace(client)
	return "Cotizacion_" + client + "_" + q.Number()
}
