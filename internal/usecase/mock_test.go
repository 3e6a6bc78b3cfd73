package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
)

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	findFn       func(ctx context.Context, id uuid.UUID) (*model.Video, error)
	saveFn       func(ctx context.Context, video *model.Video) error
	insertFn     func(ctx context.Context, video *model.Video) error
	allFn        func(ctx context.Context) ([]*model.Video, error)
	softDeleteFn func(ctx context.Context, id uuid.UUID) (bool, error)
	deletedIDsFn func(ctx context.Context) ([]uuid.UUID, error)
}

func (m *mockVideoRepository) Find(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	if m.findFn != nil {
		return m.findFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoRepository) Save(ctx context.Context, video *model.Video) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) Insert(ctx context.Context, video *model.Video) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) All(ctx context.Context) ([]*model.Video, error) {
	if m.allFn != nil {
		return m.allFn(ctx)
	}
	return []*model.Video{}, nil
}

func (m *mockVideoRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, id)
	}
	return false, nil
}

func (m *mockVideoRepository) DeletedIDs(ctx context.Context) ([]uuid.UUID, error) {
	if m.deletedIDsFn != nil {
		return m.deletedIDsFn(ctx)
	}
	return []uuid.UUID{}, nil
}

// mockEventPublisher records published events.
type mockEventPublisher struct {
	mu        sync.Mutex
	events    []repository.VideoEvent
	publishFn func(ctx context.Context, event repository.VideoEvent) error
}

func (m *mockEventPublisher) PublishVideoEvent(ctx context.Context, event repository.VideoEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}

func (m *mockEventPublisher) Close() error {
	return nil
}

func (m *mockEventPublisher) published() []repository.VideoEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.VideoEvent, len(m.events))
	copy(out, m.events)
	return out
}
