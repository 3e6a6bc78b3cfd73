package repository

import (
	"context"
	"io"
)

// CatalogSource provides the raw JSON catalog loaded at startup.
// Implementations read from the local filesystem or object storage (e.g., MinIO).
type CatalogSource interface {
	// Open returns a reader over the catalog document.
	// Returns ErrCatalogNotFound if the source does not exist.
	// Caller is responsible for closing the returned ReadCloser.
	Open(ctx context.Context) (io.ReadCloser, error)

	// Describe returns a human readable location used in logs.
	Describe() string
}
