package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/cache"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/metrics"
)

// CachedVideoServiceConfig holds configuration for CachedVideoService.
type CachedVideoServiceConfig struct {
	// CacheTTL is the TTL for cached videos and delete tombstones.
	CacheTTL time.Duration
}

// DefaultCachedVideoServiceConfig returns the default configuration.
func DefaultCachedVideoServiceConfig() CachedVideoServiceConfig {
	return CachedVideoServiceConfig{
		CacheTTL: 5 * time.Minute,
	}
}

// cachedVideoService wraps VideoService with caching capabilities.
// Only lookups by ID are cached; list queries always see the repository.
type cachedVideoService struct {
	delegate VideoService
	cache    cache.VideoCache
	sfGroup  singleflight.Group

	cacheTTL time.Duration
}

// NewCachedVideoService creates a new CachedVideoService wrapping the provided VideoService.
func NewCachedVideoService(
	delegate VideoService,
	videoCache cache.VideoCache,
	cfg CachedVideoServiceConfig,
) VideoService {
	return &cachedVideoService{
		delegate: delegate,
		cache:    videoCache,
		cacheTTL: cfg.CacheTTL,
	}
}

// CreateVideo delegates to the underlying service.
// Nothing is cached on create; the first GetVideo fills the cache.
func (s *cachedVideoService) CreateVideo(ctx context.Context, candidate model.Candidate) (*model.Video, error) {
	return s.delegate.CreateVideo(ctx, candidate)
}

// GetVideo retrieves a live video with caching.
// Uses singleflight to prevent cache stampede on concurrent requests for the same video.
func (s *cachedVideoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	key := videoID.String()
	result, err, shared := s.sfGroup.Do(key, func() (any, error) {
		return s.getVideoWithCache(ctx, videoID)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	// Shared results must not alias between callers.
	return result.(*model.Video).Clone(), nil
}

// getVideoWithCache implements the cache-aside pattern.
// Deletion is permanent, so a tombstone answers not found without a
// repository read. Fills use Add so a lookup that read the record before a
// concurrent delete cannot overwrite the delete's tombstone.
func (s *cachedVideoService) getVideoWithCache(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	video, err := s.cache.Get(ctx, videoID)
	if err != nil {
		slog.Warn("cache get failed, falling back to repository",
			"video_id", videoID,
			"error", err,
		)
	}

	if video != nil {
		if !video.IsLive() {
			return nil, repository.ErrVideoNotFound
		}
		return video, nil
	}

	video, err = s.delegate.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if _, err := s.cache.Add(ctx, video, s.cacheTTL); err != nil {
		slog.Warn("failed to cache video",
			"video_id", videoID,
			"error", err,
		)
	}

	return video, nil
}

// SearchByTitle delegates to the underlying service.
func (s *cachedVideoService) SearchByTitle(ctx context.Context, token string) ([]*model.Video, error) {
	return s.delegate.SearchByTitle(ctx, token)
}

// DeleteVideo delegates, then replaces the cached entry with a tombstone so
// the deleted video stops being served. Only applied deletes write one: an
// unknown ID may still be created later.
func (s *cachedVideoService) DeleteVideo(ctx context.Context, videoID uuid.UUID) (bool, error) {
	applied, err := s.delegate.DeleteVideo(ctx, videoID)
	if err != nil || !applied {
		return applied, err
	}

	tombstone := &model.Video{ID: videoID, Deleted: true}
	if err := s.cache.Set(ctx, tombstone, s.cacheTTL); err != nil {
		// Log but don't fail - a stale entry expires after CacheTTL
		slog.Warn("failed to write cache tombstone on delete",
			"video_id", videoID,
			"error", err,
		)
	}

	return true, nil
}

// ListDeletedIDs delegates to the underlying service.
func (s *cachedVideoService) ListDeletedIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.delegate.ListDeletedIDs(ctx)
}

// ListByType delegates to the underlying service.
func (s *cachedVideoService) ListByType(ctx context.Context, t model.Type) ([]*model.Video, error) {
	return s.delegate.ListByType(ctx, t)
}

// FindSimilar delegates to the underlying service.
func (s *cachedVideoService) FindSimilar(ctx context.Context, videoID uuid.UUID, minCommon int) ([]*model.Video, error) {
	return s.delegate.FindSimilar(ctx, videoID, minCommon)
}
