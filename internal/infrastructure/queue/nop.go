package queue

import (
	"context"

	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
)

// NopPublisher discards events. It is used when no broker is configured.
type NopPublisher struct{}

var _ repository.EventPublisher = NopPublisher{}

func (NopPublisher) PublishVideoEvent(context.Context, repository.VideoEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
