// Package filestore guarda los documentos exportados en disco.
package filestore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/Tapiceria-api/internal/domain"
)

// Store escribe archivos dentro de un directorio base. Cada escritura va a un
// temporal del mismo directorio y se renombra al final: un lector nunca ve un
// archivo a medio escribir.
type Store struct {
	fs  afero.Fs
	dir string
}

// New construye un Store sobre fs (afero.NewOsFs en producción).
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// NewOS atajo para el sistema de archivos real.
func NewOS(dir string) *Store { return New(afero.NewOsFs(), dir) }

// Dir directorio base.
func (s *Store) Dir() string { return s.dir }

// Write guarda data con el nombre dado y devuelve la ruta final.
func (s *Store) Write(ctx context.Context, name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: nombre de archivo inválido %q", domain.ErrInvalidInput, name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("filestore: crear directorio: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("filestore: crear temporal: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = s.fs.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("filestore: escribir: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("filestore: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("filestore: cerrar: %w", err)
	}

	final := filepath.Join(s.dir, name)
	if err := s.fs.Rename(tmpName, final); err != nil {
		cleanup()
		return "", fmt.Errorf("filestore: renombrar: %w", err)
	}
	return final, nil
}

// Read devuelve el contenido de un archivo exportado.
func (s *Store) Read(name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: nombre de archivo inválido %q", domain.ErrInvalidInput, name)
	}
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: archivo %s", domain.ErrNotFound, name)
	}
	return data, nil
}
