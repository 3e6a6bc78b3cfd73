package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/metrics"
	"github.com/hszk-dev/vidcatalog/internal/wire"
)

// Bootstrap entry outcomes.
const (
	bootstrapLoaded  = "loaded"
	bootstrapSkipped = "skipped"
)

// ImportFailure describes one catalog entry that was not loaded.
type ImportFailure struct {
	Index int
	Err   error
}

// ImportReport summarizes a catalog import.
type ImportReport struct {
	Source  string
	Loaded  int
	Skipped []ImportFailure
}

// ImportCatalog loads a JSON array of videos from source through the normal
// create path. Entries that are malformed, invalid or conflicting are skipped
// and reported; they do not stop the import.
// Returns an error wrapping repository.ErrCatalogNotFound if the source is missing.
func ImportCatalog(ctx context.Context, svc VideoService, source repository.CatalogSource) (*ImportReport, error) {
	report := &ImportReport{Source: source.Describe()}

	r, err := source.Open(ctx)
	if err != nil {
		return report, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return report, fmt.Errorf("read catalog: %w", err)
	}

	entries, err := wire.DecodeCatalog(data)
	if err != nil {
		return report, fmt.Errorf("decode catalog: %w", err)
	}

	for i, raw := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		payload, err := wire.DecodeVideo(raw)
		if err == nil {
			_, err = svc.CreateVideo(ctx, payload.Candidate())
		}

		if err != nil {
			report.Skipped = append(report.Skipped, ImportFailure{Index: i, Err: err})
			metrics.BootstrapEntriesTotal.WithLabelValues(bootstrapSkipped).Inc()
			slog.Warn("skipped catalog entry",
				"source", report.Source,
				"index", i,
				"error", err,
			)
			continue
		}

		report.Loaded++
		metrics.BootstrapEntriesTotal.WithLabelValues(bootstrapLoaded).Inc()
	}

	return report, nil
}
