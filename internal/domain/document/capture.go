package document

import (
	"fmt"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
)

// Capture imagen capturada de la vista en pantalla de una cotización.
type Capture struct {
	Data   []byte
	Format string // png, jpg
	Width  int    // píxeles
	Height int
}

// Placement caja (mm) donde se dibuja la imagen.
type Placement struct {
	X, Y, Width, Height float64
	Scale               float64 // mm por píxel
}

// PlaceCapture escala la imagen para que quepa en el área útil conservando la
// relación de aspecto y la centra en ambos ejes.
func PlaceCapture(imgW, imgH int, g Geometry) (Placement, error) {
	if imgW <= 0 || imgH <= 0 {
		return Placement{}, fmt.Errorf("%w: dimensiones de imagen inválidas (%dx%d)", domain.ErrInvalidInput, imgW, imgH)
	}
	if err := g.Validate(); err != nil {
		return Placement{}, err
	}
	areaW, areaH := g.ContentWidth(), g.ContentHeight()
	scale := min(areaW/float64(imgW), areaH/float64(imgH))
	w, h := float64(imgW)*scale, float64(imgH)*scale
	return Placement{
		X:      g.MarginLeft + (areaW-w)/2,
		Y:      g.MarginTop + (areaH-h)/2,
		Width:  w,
		Height: h,
		Scale:  scale,
	}, nil
}

// RenderCapture modo de exportación alternativo: una sola página con la captura centrada.
func RenderCapture(c Capture, g Geometry, title string) (*Document, error) {
	if len(c.Data) == 0 {
		return nil, fmt.Errorf("%w: captura vacía", domain.ErrInvalidInput)
	}
	p, err := PlaceCapture(c.Width, c.Height, g)
	if err != nil {
		return nil, err
	}
	return &Document{
		Geometry: g,
		Title:    title,
		Pages: []Page{{Number: 1, Elements: []Element{{
			Kind: KindImage, X: p.X, Y: p.Y, Width: p.Width, Height: p.Height,
			Image: c.Data, Format: c.Format,
		}}}},
	}, nil
}
