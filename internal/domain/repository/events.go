package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies a catalog change.
type EventKind string

const (
	EventVideoCreated EventKind = "video.created"
	EventVideoDeleted EventKind = "video.deleted"
)

// VideoEvent is published after a catalog change has been committed.
type VideoEvent struct {
	Kind       EventKind `json:"kind"`
	VideoID    uuid.UUID `json:"video_id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for announcing catalog changes.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type EventPublisher interface {
	// PublishVideoEvent sends an event to downstream consumers.
	PublishVideoEvent(ctx context.Context, event VideoEvent) error

	// Close gracefully closes the connection to the broker.
	Close() error
}
