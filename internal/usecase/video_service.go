package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
	"github.com/hszk-dev/vidcatalog/internal/domain/query"
	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/metrics"
)

// VideoService defines the interface for catalog operations.
type VideoService interface {
	// CreateVideo classifies, validates and stores a candidate.
	// Returns *model.ValidationError or repository.ErrDuplicateVideo.
	CreateVideo(ctx context.Context, candidate model.Candidate) (*model.Video, error)

	// GetVideo retrieves a live video by ID.
	// Deleted videos are reported as repository.ErrVideoNotFound.
	GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error)

	// SearchByTitle returns live videos with a title word containing token.
	SearchByTitle(ctx context.Context, token string) ([]*model.Video, error)

	// DeleteVideo soft-deletes a video. It returns false when the ID is
	// unknown or already deleted.
	DeleteVideo(ctx context.Context, videoID uuid.UUID) (bool, error)

	// ListDeletedIDs returns deleted IDs in deletion order.
	ListDeletedIDs(ctx context.Context) ([]uuid.UUID, error)

	// ListByType returns live videos of the given variant.
	ListByType(ctx context.Context, t model.Type) ([]*model.Video, error)

	// FindSimilar returns live videos sharing at least minCommon labels with
	// the origin. Returns repository.ErrVideoNotFound if the origin was never stored.
	FindSimilar(ctx context.Context, videoID uuid.UUID, minCommon int) ([]*model.Video, error)
}

type videoService struct {
	repo      repository.VideoRepository
	publisher repository.EventPublisher
	now       func() time.Time
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(
	repo repository.VideoRepository,
	publisher repository.EventPublisher,
) VideoService {
	return &videoService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateVideo validates the candidate and inserts it. The existence check and
// the write are a single atomic Insert, so concurrent creations of one ID
// yield exactly one success.
func (s *videoService) CreateVideo(ctx context.Context, candidate model.Candidate) (*model.Video, error) {
	video, err := model.NewVideo(candidate)
	if err != nil {
		observe(metrics.OpCreate, err)
		return nil, err
	}

	if err := s.repo.Insert(ctx, video); err != nil {
		observe(metrics.OpCreate, err)
		if errors.Is(err, repository.ErrDuplicateVideo) {
			return nil, err
		}
		return nil, fmt.Errorf("insert video: %w", err)
	}

	observe(metrics.OpCreate, nil)
	s.publish(ctx, repository.EventVideoCreated, video)

	return video, nil
}

// GetVideo retrieves a live video by ID.
func (s *videoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	video, err := s.repo.Find(ctx, videoID)
	if err != nil {
		observe(metrics.OpGet, err)
		return nil, err
	}

	if !video.IsLive() {
		observe(metrics.OpGet, repository.ErrVideoNotFound)
		return nil, repository.ErrVideoNotFound
	}

	observe(metrics.OpGet, nil)
	return video, nil
}

// SearchByTitle returns live videos matching token.
func (s *videoService) SearchByTitle(ctx context.Context, token string) ([]*model.Video, error) {
	videos, err := s.repo.All(ctx)
	if err != nil {
		observe(metrics.OpSearch, err)
		return nil, fmt.Errorf("list videos: %w", err)
	}

	observe(metrics.OpSearch, nil)
	return query.SearchTitle(videos, token), nil
}

// DeleteVideo soft-deletes a video and announces it.
func (s *videoService) DeleteVideo(ctx context.Context, videoID uuid.UUID) (bool, error) {
	applied, err := s.repo.SoftDelete(ctx, videoID)
	if err != nil {
		observe(metrics.OpDelete, err)
		return false, fmt.Errorf("soft delete video: %w", err)
	}

	if !applied {
		metrics.CatalogOperationsTotal.WithLabelValues(metrics.OpDelete, metrics.ResultNotApplied).Inc()
		return false, nil
	}

	observe(metrics.OpDelete, nil)

	// The event carries the variant, so read the record back. A failure
	// here only degrades the event.
	event := &model.Video{ID: videoID}
	if video, err := s.repo.Find(ctx, videoID); err == nil {
		event = video
	}
	s.publish(ctx, repository.EventVideoDeleted, event)

	return true, nil
}

// ListDeletedIDs returns the deleted-ID ledger.
func (s *videoService) ListDeletedIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.repo.DeletedIDs(ctx)
	if err != nil {
		observe(metrics.OpListDeleted, err)
		return nil, fmt.Errorf("list deleted ids: %w", err)
	}

	observe(metrics.OpListDeleted, nil)
	return ids, nil
}

// ListByType returns live videos of the given variant.
func (s *videoService) ListByType(ctx context.Context, t model.Type) ([]*model.Video, error) {
	videos, err := s.repo.All(ctx)
	if err != nil {
		observe(metrics.OpListByType, err)
		return nil, fmt.Errorf("list videos: %w", err)
	}

	observe(metrics.OpListByType, nil)
	return query.ByType(videos, t), nil
}

// FindSimilar returns live videos sharing labels with the origin.
// A deleted origin yields an empty result, not an error.
func (s *videoService) FindSimilar(ctx context.Context, videoID uuid.UUID, minCommon int) ([]*model.Video, error) {
	origin, err := s.repo.Find(ctx, videoID)
	if err != nil {
		observe(metrics.OpSimilar, err)
		return nil, err
	}

	videos, err := s.repo.All(ctx)
	if err != nil {
		observe(metrics.OpSimilar, err)
		return nil, fmt.Errorf("list videos: %w", err)
	}

	observe(metrics.OpSimilar, nil)
	return query.Similar(origin, videos, minCommon), nil
}

// publish sends a catalog event. Failures are logged, never returned: the
// catalog change is already committed.
func (s *videoService) publish(ctx context.Context, kind repository.EventKind, video *model.Video) {
	event := repository.VideoEvent{
		Kind:       kind,
		VideoID:    video.ID,
		Type:       video.Type().String(),
		OccurredAt: s.now().UTC(),
	}

	if err := s.publisher.PublishVideoEvent(ctx, event); err != nil {
		slog.Warn("failed to publish catalog event",
			"kind", kind,
			"video_id", video.ID,
			"error", err,
		)
	}
}

// observe records the outcome of a catalog operation.
func observe(operation string, err error) {
	metrics.CatalogOperationsTotal.WithLabelValues(operation, resultOf(err)).Inc()
}

func resultOf(err error) string {
	var validationErr *model.ValidationError
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.As(err, &validationErr):
		return metrics.ResultInvalid
	case errors.Is(err, repository.ErrDuplicateVideo):
		return metrics.ResultConflict
	case errors.Is(err, repository.ErrVideoNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}
