package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/vidcatalog/internal/domain/model"
)

// VideoRepository defines the interface for the catalog's system of record.
// Implementations are provided by the infrastructure layer (in-memory, PostgreSQL).
type VideoRepository interface {
	// Find retrieves a video by ID, including soft-deleted ones.
	// Returns nil and ErrVideoNotFound if the ID was never stored.
	Find(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// Save inserts or overwrites the video keyed by its ID. It never rejects.
	Save(ctx context.Context, video *model.Video) error

	// Insert stores the video only if its ID is unused.
	// Returns ErrDuplicateVideo if any video, live or deleted, already has the ID.
	Insert(ctx context.Context, video *model.Video) error

	// All returns a snapshot of every stored video, deleted and live, in no
	// guaranteed order.
	All(ctx context.Context) ([]*model.Video, error)

	// SoftDelete marks the video deleted and appends its ID to the ledger.
	// Returns false if the ID is unknown or already deleted.
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)

	// DeletedIDs returns the deleted-ID ledger in insertion order.
	DeletedIDs(ctx context.Context) ([]uuid.UUID, error)
}
