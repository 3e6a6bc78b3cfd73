package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/metrics"
)

const (
	// videoCacheKeyPrefix is the prefix for video cache keys in Redis.
	videoCacheKeyPrefix = "catalog:video:"
)

// videoJSON is the cached form of a Video.
// Using explicit struct avoids coupling to the API wire format.
type videoJSON struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Type             string   `json:"type"`
	Labels           []string `json:"labels"`
	Director         string   `json:"director,omitempty"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	NumberOfEpisodes int      `json:"number_of_episodes,omitempty"`
	Deleted          bool     `json:"deleted"`
}

// RedisVideoCache implements VideoCache using Redis as the backing store.
type RedisVideoCache struct {
	client *redis.Client
}

// NewRedisVideoCache creates a new Redis-backed video cache.
func NewRedisVideoCache(client *redis.Client) *RedisVideoCache {
	return &RedisVideoCache{
		client: client,
	}
}

// Get retrieves a video from Redis cache.
// Returns nil, nil on cache miss.
func (c *RedisVideoCache) Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	key := c.buildKey(videoID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeRedis).Inc()
			return nil, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	video, err := c.deserialize(data)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return nil, fmt.Errorf("deserialize video: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeRedis).Inc()
	return video, nil
}

// Set stores a video in Redis cache with the specified TTL.
func (c *RedisVideoCache) Set(ctx context.Context, video *model.Video, ttl time.Duration) error {
	key := c.buildKey(video.ID)

	data, err := c.serialize(video)
	if err != nil {
		return fmt.Errorf("serialize video: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeRedis).Inc()
	return nil
}

// Add stores a video only if no entry exists for its ID and reports whether
// it was stored. An existing entry, including a tombstone, is left untouched.
func (c *RedisVideoCache) Add(ctx context.Context, video *model.Video, ttl time.Duration) (bool, error) {
	key := c.buildKey(video.ID)

	data, err := c.serialize(video)
	if err != nil {
		return false, fmt.Errorf("serialize video: %w", err)
	}

	stored, err := c.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpAdd, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return false, fmt.Errorf("redis setnx: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpAdd, metrics.CacheStatusSuccess, metrics.CacheTypeRedis).Inc()
	return stored, nil
}

// buildKey constructs the Redis key for a video.
func (c *RedisVideoCache) buildKey(videoID uuid.UUID) string {
	return videoCacheKeyPrefix + videoID.String()
}

// serialize converts a Video to JSON bytes.
func (c *RedisVideoCache) serialize(video *model.Video) ([]byte, error) {
	v := videoJSON{
		ID:      video.ID.String(),
		Title:   video.Title,
		Type:    video.Type().String(),
		Labels:  video.Labels,
		Deleted: video.Deleted,
	}

	switch d := video.Details.(type) {
	case model.Movie:
		v.Director = d.Director
		v.ReleaseDate = d.ReleaseDate.Format(time.RFC3339Nano)
	case model.Series:
		v.NumberOfEpisodes = d.NumberOfEpisodes
	}

	return json.Marshal(v)
}

// deserialize converts JSON bytes to a Video.
func (c *RedisVideoCache) deserialize(data []byte) (*model.Video, error) {
	var v videoJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(v.ID)
	if err != nil {
		return nil, fmt.Errorf("parse video ID: %w", err)
	}

	var details model.Details
	switch model.Type(v.Type) {
	case model.TypeMovie:
		releaseDate, err := time.Parse(time.RFC3339Nano, v.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("parse release_date: %w", err)
		}
		details = model.Movie{Director: v.Director, ReleaseDate: releaseDate}
	case model.TypeSeries:
		details = model.Series{NumberOfEpisodes: v.NumberOfEpisodes}
	case model.TypeBase:
		details = model.Base{}
	default:
		return nil, fmt.Errorf("unknown video type %q", v.Type)
	}

	labels := v.Labels
	if labels == nil {
		labels = []string{}
	}

	return &model.Video{
		ID:      id,
		Title:   v.Title,
		Labels:  labels,
		Details: details,
		Deleted: v.Deleted,
	}, nil
}
