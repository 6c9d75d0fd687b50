// Package document arma la representación imprimible de una cotización como una
// lista de páginas de tamaño fijo con elementos posicionados (texto, líneas, imagen).
//
// El layout es puro: no depende de ningún motor de PDF. Los exportadores de
// infraestructura (maroto, excelize) solo traducen el Document resultante.
//
// Layout de la página (A4, márgenes de 20 mm):
//
//	┌──────────────────────────────────────────────┐
//	│                 COTIZACIÓN                   │
//	│  ──────────────────────────────────────────  │
//	│  INFORMACIÓN DEL CLIENTE                     │
//	│  Cliente / Proyecto / Fecha / Cotización #   │
//	│  DETALLE DE MATERIALES                       │
//	│  Material | Cantidad | Unidad | P.Unit | Total│
//	│  ──────────────────────────────────────────  │
//	│  filas… (salto de página antes de la fila    │
//	│          que no cabe; nunca se parte)        │
//	│  ──────────────────────────────────────────  │
//	│                  Subtotal / Mano de obra     │
//	│                  TOTAL                       │
//	│  Validez (anclado al margen inferior)        │
//	└──────────────────────────────────────────────┘
package document

import (
	"fmt"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
)

// Geometry dimensiones de página en milímetros.
type Geometry struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// A4 página vertical 210×297 mm con márgenes de 20 mm.
func A4() Geometry {
	return Geometry{Width: 210, Height: 297, MarginTop: 20, MarginBottom: 20, MarginLeft: 20, MarginRight: 20}
}

// ContentWidth ancho útil entre márgenes.
func (g Geometry) ContentWidth() float64 { return g.Width - g.MarginLeft - g.MarginRight }

// ContentHeight alto útil entre márgenes.
func (g Geometry) ContentHeight() float64 { return g.Height - g.MarginTop - g.MarginBottom }

// Bottom coordenada vertical del margen inferior.
func (g Geometry) Bottom() float64 { return g.Height - g.MarginBottom }

// Right coordenada horizontal del margen derecho.
func (g Geometry) Right() float64 { return g.Width - g.MarginRight }

// Validate exige un área útil positiva.
func (g Geometry) Validate() error {
	if g.ContentWidth() <= 0 || g.ContentHeight() <= 0 {
		return fmt.Errorf("%w: geometría de página sin área útil (%.1fx%.1f mm)", domain.ErrInvalidInput, g.Width, g.Height)
	}
	return nil
}

// Kind tipo de elemento.
type Kind int

const (
	KindText Kind = iota
	KindRule
	KindImage
)

// Align alineación horizontal de un texto dentro de su caja.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// FontStyle estilo tipográfico.
type FontStyle int

const (
	StyleNormal FontStyle = iota
	StyleBold
	StyleItalic
)

// Font tamaño en puntos y estilo.
type Font struct {
	Size  float64
	Style FontStyle
}

// Element elemento posicionado. X/Y es la esquina superior izquierda de su caja (mm).
type Element struct {
	Kind      Kind
	X, Y      float64
	Width     float64
	Height    float64
	Text      string
	Align     Align
	Font      Font
	Thickness float64 // solo KindRule
	Image     []byte  // solo KindImage
	Format    string  // solo KindImage: png, jpg
}

// Page página numerada desde 1.
type Page struct {
	Number   int
	Elements []Element
}

// Document resultado del render: geometría común y páginas en orden.
type Document struct {
	Geometry Geometry
	Title    string
	Pages    []Page
}

// Texts devuelve los textos de una página en orden de emisión (útil para inspección y tests).
func (p Page) Texts() []string {
	out := make([]string, 0, len(p.Elements))
	for _, e := range p.Elements {
		if e.Kind == KindText {
			out = append(out, e.Text)
		}
	}
	return out
}
