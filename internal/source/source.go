package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ImportSource abre el contenido de un roster a partir de su ruta.
type ImportSource interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
}

var ErrNoS3Source = errors.New("s3 source not configured")

// LocalSource resuelve rutas relativas contra un directorio base.
type LocalSource struct {
	BaseDir string
}

func NewLocalSource(baseDir string) *LocalSource {
	if baseDir == "" {
		baseDir = "."
	}
	return &LocalSource{BaseDir: baseDir}
}

func (s *LocalSource) Open(_ context.Context, sourcePath string) (io.ReadCloser, error) {
	path := sourcePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.BaseDir, sourcePath)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	return file, nil
}

// Router despacha por esquema: rutas s3:// van al source de S3, el resto al
// filesystem local.
type Router struct {
	Local ImportSource
	S3    ImportSource
}

func (r *Router) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	if strings.HasPrefix(sourcePath, "s3://") {
		if r.S3 == nil {
			return nil, ErrNoS3Source
		}
		return r.S3.Open(ctx, sourcePath)
	}
	if r.Local == nil {
		return nil, errors.New("local source not configured")
	}
	return r.Local.Open(ctx, sourcePath)
}
