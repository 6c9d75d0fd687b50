// Package capture valida las imágenes enviadas por el cliente para la
// exportación por captura de pantalla.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/webp"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
	"github.com/jhoicas/Tapiceria-api/internal/domain/document"
)

// DefaultMaxPixels límite de píxeles por captura (≈ 40 MP).
const DefaultMaxPixels = 40_000_000

// Decoder identifica el formato y dimensiones de la captura. WebP se
// recodifica a PNG porque el PDF solo admite PNG y JPEG.
type Decoder struct {
	maxPixels int
}

// NewDecoder construye el decoder; maxPixels <= 0 usa DefaultMaxPixels.
func NewDecoder(maxPixels int) *Decoder {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Decoder{maxPixels: maxPixels}
}

// Decode devuelve la captura lista para paginar. Errores de formato son ErrInvalidInput.
func (d *Decoder) Decode(data []byte) (document.Capture, error) {
	if len(data) == 0 {
		return document.Capture{}, fmt.Errorf("%w: captura vacía", domain.ErrInvalidInput)
	}

	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return document.Capture{}, fmt.Errorf("%w: png inválido: %v", domain.ErrInvalidInput, err)
		}
		return d.capture(data, "png", cfg)

	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return document.Capture{}, fmt.Errorf("%w: jpeg inválido: %v", domain.ErrInvalidInput, err)
		}
		return d.capture(data, "jpg", cfg)

	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		cfg, err := webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return document.Capture{}, fmt.Errorf("%w: webp inválido: %v", domain.ErrInvalidInput, err)
		}
		if err := d.checkSize(cfg); err != nil {
			return document.Capture{}, err
		}
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return document.Capture{}, fmt.Errorf("%w: webp inválido: %v", domain.ErrInvalidInput, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return document.Capture{}, fmt.Errorf("capture: recodificar webp: %w", err)
		}
		return d.capture(buf.Bytes(), "png", cfg)

	default:
		return document.Capture{}, fmt.Errorf("%w: formato de captura no soportado (se acepta PNG, JPEG o WebP)", domain.ErrInvalidInput)
	}
}

func (d *Decoder) capture(data []byte, format string, cfg image.Config) (document.Capture, error) {
	if err := d.checkSize(cfg); err != nil {
		return document.Capture{}, err
	}
	return document.Capture{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func (d *Decoder) checkSize(cfg image.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: captura sin dimensiones", domain.ErrInvalidInput)
	}
	if cfg.Width*cfg.Height > d.maxPixels {
		return fmt.Errorf("%w: captura demasiado grande (%dx%d)", domain.ErrInvalidInput, cfg.Width, cfg.Height)
	}
	return nil
}
