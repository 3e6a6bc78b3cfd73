// Package bootstrap provides local catalog sources read at startup.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
)

// FileSource implements repository.CatalogSource over a local JSON file.
type FileSource struct {
	Path string
}

var _ repository.CatalogSource = FileSource{}

// NewFileSource returns a source reading path.
func NewFileSource(path string) FileSource {
	return FileSource{Path: path}
}

// Open opens the catalog file. A missing file maps to repository.ErrCatalogNotFound.
func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", repository.ErrCatalogNotFound, s.Path)
		}
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	return f, nil
}

func (s FileSource) Describe() string {
	return "file://" + s.Path
}
