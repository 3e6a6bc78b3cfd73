package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
)

// VideoCache defines the interface for caching catalog entries by ID.
// Implementations should handle serialization/deserialization transparently.
type VideoCache interface {
	// Get retrieves a video from cache by ID.
	// Returns nil, nil if the video is not found in cache (cache miss).
	Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error)

	// Set stores a video in cache with the specified TTL, overwriting any
	// existing entry. A video with Deleted set is a tombstone.
	Set(ctx context.Context, video *model.Video, ttl time.Duration) error

	// Add stores a video only if the ID has no entry yet.
	// Returns false when an entry already exists.
	Add(ctx context.Context, video *model.Video, ttl time.Duration) (bool, error)
}
