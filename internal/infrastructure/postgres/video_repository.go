package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/metrics"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const videoColumns = `id, title, type, labels, director, release_date, number_of_episodes, deleted`

// VideoRepository implements repository.VideoRepository using PostgreSQL.
// Soft-deleted rows stay in videos; the ledger lives in video_deletions.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// Find retrieves a video by ID, including soft-deleted rows.
func (r *VideoRepository) Find(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	const query = `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()

	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to find video: %w", err)
	}

	return video, nil
}

// Save inserts the video or overwrites the row with the same ID.
func (r *VideoRepository) Save(ctx context.Context, video *model.Video) error {
	const query = `
		INSERT INTO videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			type = EXCLUDED.type,
			labels = EXCLUDED.labels,
			director = EXCLUDED.director,
			release_date = EXCLUDED.release_date,
			number_of_episodes = EXCLUDED.number_of_episodes,
			deleted = EXCLUDED.deleted
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpsert, metrics.TableVideos).Inc()

	if _, err := r.db.Exec(ctx, query, videoArgs(video)...); err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}

	return nil
}

// Insert stores the video only if no row has its ID.
func (r *VideoRepository) Insert(ctx context.Context, video *model.Video) error {
	const query = `
		INSERT INTO videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableVideos).Inc()

	tag, err := r.db.Exec(ctx, query, videoArgs(video)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateVideo
		}
		return fmt.Errorf("failed to insert video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrDuplicateVideo
	}

	return nil
}

// All returns every stored video, deleted and live.
func (r *VideoRepository) All(ctx context.Context) ([]*model.Video, error) {
	const query = `SELECT ` + videoColumns + ` FROM videos`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := []*model.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// SoftDelete flips the deleted flag and appends to the ledger in one statement,
// so concurrent callers on the same ID see exactly one applied delete.
func (r *VideoRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `
		WITH flipped AS (
			UPDATE videos SET deleted = TRUE
			WHERE id = $1 AND deleted = FALSE
			RETURNING id
		)
		INSERT INTO video_deletions (video_id)
		SELECT id FROM flipped
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableVideos).Inc()

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to soft delete video: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// DeletedIDs returns the ledger ordered by deletion sequence.
func (r *VideoRepository) DeletedIDs(ctx context.Context) ([]uuid.UUID, error) {
	const query = `SELECT video_id FROM video_deletions ORDER BY seq`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableDeletions).Inc()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query deleted ids: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deleted ids: %w", err)
	}

	return ids, nil
}

// videoArgs flattens a video into the column order of videoColumns.
// Variant columns that do not apply are NULL. Episode counts bind as BIGINT
// so any positive int survives unchanged.
func videoArgs(video *model.Video) []any {
	var (
		director    *string
		releaseDate *time.Time
		episodes    *int64
	)

	switch d := video.Details.(type) {
	case model.Movie:
		director = &d.Director
		releaseDate = &d.ReleaseDate
	case model.Series:
		n := int64(d.NumberOfEpisodes)
		episodes = &n
	}

	labels := video.Labels
	if labels == nil {
		labels = []string{}
	}

	return []any{
		video.ID,
		video.Title,
		video.Type().String(),
		labels,
		director,
		releaseDate,
		episodes,
		video.Deleted,
	}
}

// scanVideo scans a single row into a Video model.
// pgx.Rows satisfies pgx.Row, so the same function serves QueryRow and Query.
func scanVideo(row pgx.Row) (*model.Video, error) {
	var (
		video       model.Video
		typ         string
		director    *string
		releaseDate *time.Time
		episodes    *int64
	)

	err := row.Scan(
		&video.ID,
		&video.Title,
		&typ,
		&video.Labels,
		&director,
		&releaseDate,
		&episodes,
		&video.Deleted,
	)
	if err != nil {
		return nil, err
	}

	if video.Labels == nil {
		video.Labels = []string{}
	}

	switch model.Type(typ) {
	case model.TypeMovie:
		if director == nil || releaseDate == nil {
			return nil, fmt.Errorf("movie %s is missing director or release_date", video.ID)
		}
		video.Details = model.Movie{Director: *director, ReleaseDate: *releaseDate}
	case model.TypeSeries:
		if episodes == nil {
			return nil, fmt.Errorf("series %s is missing number_of_episodes", video.ID)
		}
		video.Details = model.Series{NumberOfEpisodes: int(*episodes)}
	case model.TypeBase:
		video.Details = model.Base{}
	default:
		return nil, fmt.Errorf("video %s has unknown type %q", video.ID, typ)
	}

	return &video, nil
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
