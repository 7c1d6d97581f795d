// ===============================
// internal/repositories/video_repository.go - Video persistence
// ===============================

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"luemtv/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

const videoColumns = `id, title, description, video_url, thumbnail, category, tmdb_id, duration, created_at`

type VideoRepository struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewVideoRepository(db *sqlx.DB, logger zerolog.Logger) *VideoRepository {
	return &VideoRepository{
		db:     db,
		logger: logger.With().Str("component", "video_repository").Logger(),
	}
}

// ListVideos returns videos of one category newest first. q filters by a
// case-insensitive title substring when non-empty.
func (r *VideoRepository) ListVideos(ctx context.Context, category, q string) ([]models.Video, error) {
	var videos []models.Video
	var err error

	if q == "" {
		err = r.db.SelectContext(ctx, &videos, `
			SELECT `+videoColumns+` FROM videos
			WHERE category = $1
			ORDER BY created_at DESC`, category)
	} else {
		err = r.db.SelectContext(ctx, &videos, `
			SELECT `+videoColumns+` FROM videos
			WHERE category = $1 AND title ILIKE $2
			ORDER BY created_at DESC`, category, likePattern(q))
	}
	if err != nil {
		return nil, fmt.Errorf("list %s videos: %w", category, err)
	}

	return keepValid(videos, r.logger, "videos"), nil
}

func (r *VideoRepository) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}

	var v models.Video
	err := r.db.GetContext(ctx, &v, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", id, err)
	}

	v.Normalize()
	if err := v.Valid(); err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("Malformed video row")
		return nil, ErrNotFound
	}
	return &v, nil
}

// CreateVideo inserts v and fills its ID and CreatedAt.
func (r *VideoRepository) CreateVideo(ctx context.Context, v *models.Video) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO videos (title, description, video_url, thumbnail, category, tmdb_id, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		v.Title, v.Description, v.VideoURL, v.Thumbnail, v.Category, v.TMDBID, v.Duration,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (r *VideoRepository) UpdateVideo(ctx context.Context, v *models.Video) error {
	if !isUUID(v.ID) {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE videos SET title = $2, description = $3, video_url = $4, thumbnail = $5,
			category = $6, tmdb_id = $7, duration = $8
		WHERE id = $1`,
		v.ID, v.Title, v.Description, v.VideoURL, v.Thumbnail, v.Category, v.TMDBID, v.Duration)
	if err != nil {
		return fmt.Errorf("update video %s: %w", v.ID, err)
	}
	return expectOne(res)
}

func (r *VideoRepository) DeleteVideo(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video %s: %w", id, err)
	}
	return expectOne(res)
}
