// Package memory provides the in-memory system of record for the catalog.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
)

// DefaultShardCount is the number of lock stripes used by NewVideoRepository.
const DefaultShardCount = 32

type shard struct {
	mu     sync.RWMutex
	videos map[uuid.UUID]*model.Video
}

// ledger is an insertion-ordered set of deleted IDs.
type ledger struct {
	mu    sync.RWMutex
	order []uuid.UUID
	seen  map[uuid.UUID]struct{}
}

func (l *ledger) append(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[id]; ok {
		return
	}
	l.seen[id] = struct{}{}
	l.order = append(l.order, id)
}

func (l *ledger) snapshot() []uuid.UUID {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]uuid.UUID, len(l.order))
	copy(ids, l.order)
	return ids
}

// VideoRepository implements repository.VideoRepository with lock-striped maps.
// Per-ID operations lock a single shard; stored videos are copied on the way
// in and out so callers never share state with the store.
type VideoRepository struct {
	shards  []*shard
	deleted ledger
}

// NewVideoRepository creates an empty repository with DefaultShardCount shards.
func NewVideoRepository() *VideoRepository {
	return NewVideoRepositoryWithShards(DefaultShardCount)
}

// NewVideoRepositoryWithShards creates an empty repository with n shards (minimum 1).
func NewVideoRepositoryWithShards(n int) *VideoRepository {
	if n < 1 {
		n = 1
	}
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{videos: make(map[uuid.UUID]*model.Video)}
	}
	return &VideoRepository{
		shards:  shards,
		deleted: ledger{seen: make(map[uuid.UUID]struct{})},
	}
}

func (r *VideoRepository) shardFor(id uuid.UUID) *shard {
	// Random (v4) UUIDs are uniformly distributed in their last bytes.
	h := uint32(id[12])<<24 | uint32(id[13])<<16 | uint32(id[14])<<8 | uint32(id[15])
	return r.shards[h%uint32(len(r.shards))]
}

// Find retrieves a video by ID, deleted or not.
func (r *VideoRepository) Find(_ context.Context, id uuid.UUID) (*model.Video, error) {
	s := r.shardFor(id)
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.videos[id]
	if !ok {
		return nil, repository.ErrVideoNotFound
	}
	return v.Clone(), nil
}

// Save inserts or overwrites the video.
func (r *VideoRepository) Save(_ context.Context, video *model.Video) error {
	s := r.shardFor(video.ID)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.videos[video.ID] = video.Clone()
	return nil
}

// Insert stores the video unless the ID is already present.
func (r *VideoRepository) Insert(_ context.Context, video *model.Video) error {
	s := r.shardFor(video.ID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.videos[video.ID]; exists {
		return repository.ErrDuplicateVideo
	}
	s.videos[video.ID] = video.Clone()
	return nil
}

// All returns a snapshot of every stored video.
// Shards are read one at a time, so the snapshot is per-shard consistent only.
func (r *VideoRepository) All(_ context.Context) ([]*model.Video, error) {
	var videos []*model.Video
	for _, s := range r.shards {
		s.mu.RLock()
		for _, v := range s.videos {
			videos = append(videos, v.Clone())
		}
		s.mu.RUnlock()
	}
	return videos, nil
}

// SoftDelete flips the deleted flag and records the ID in the ledger.
// The shard lock is held across both steps so only the first caller applies.
func (r *VideoRepository) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	s := r.shardFor(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok || v.Deleted {
		return false, nil
	}
	v.Deleted = true
	r.deleted.append(id)
	return true, nil
}

// DeletedIDs returns the ledger in insertion order.
func (r *VideoRepository) DeletedIDs(_ context.Context) ([]uuid.UUID, error) {
	return r.deleted.snapshot(), nil
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
