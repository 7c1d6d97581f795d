// ===============================
// internal/repositories/series_repository.go - Series + Episodes Repository
// ===============================

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"luemtv/internal/database"
	"luemtv/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

const seriesColumns = `id, title, description, thumbnail, category, tmdb_id, created_at`

const episodeColumns = `id, series_id, season, episode, title, description, thumbnail,
	video_url, duration, created_at`

type SeriesRepository struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewSeriesRepository(db *sqlx.DB, logger zerolog.Logger) *SeriesRepository {
	return &SeriesRepository{
		db:     db,
		logger: logger.With().Str("component", "series_repository").Logger(),
	}
}

// ListSeries returns series newest first, optionally filtered by a
// case-insensitive title substring.
func (r *SeriesRepository) ListSeries(ctx context.Context, q string) ([]models.Series, error) {
	var series []models.Series
	var err error

	if q == "" {
		err = r.db.SelectContext(ctx, &series,
			`SELECT `+seriesColumns+` FROM series ORDER BY created_at DESC`)
	} else {
		err = r.db.SelectContext(ctx, &series,
			`SELECT `+seriesColumns+` FROM series WHERE title ILIKE $1 ORDER BY created_at DESC`,
			likePattern(q))
	}
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}

	return keepValid(series, r.logger, "series"), nil
}

func (r *SeriesRepository) GetSeries(ctx context.Context, id string) (*models.Series, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}

	var s models.Series
	err := r.db.GetContext(ctx, &s, `SELECT `+seriesColumns+` FROM series WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get series %s: %w", id, err)
	}

	s.Normalize()
	if err := s.Valid(); err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("Malformed series row")
		return nil, ErrNotFound
	}
	return &s, nil
}

// CreateSeriesWithEpisodes inserts the series and its episodes in one
// transaction. s.ID and s.CreatedAt are filled from the database.
func (r *SeriesRepository) CreateSeriesWithEpisodes(ctx context.Context, s *models.Series, episodes []models.Episode) error {
	return database.Transaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO series (title, description, thumbnail, category, tmdb_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			s.Title, s.Description, s.Thumbnail, s.Category, s.TMDBID,
		).Scan(&s.ID, &s.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert series: %w", err)
		}

		return insertEpisodes(ctx, tx, s.ID, episodes)
	})
}

// UpdateSeries writes the editable fields of an existing series.
func (r *SeriesRepository) UpdateSeries(ctx context.Context, s *models.Series) error {
	if !isUUID(s.ID) {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE series SET title = $2, description = $3, thumbnail = $4, category = $5, tmdb_id = $6
		WHERE id = $1`,
		s.ID, s.Title, s.Description, s.Thumbnail, s.Category, s.TMDBID)
	if err != nil {
		return fmt.Errorf("update series %s: %w", s.ID, err)
	}
	return expectOne(res)
}

// ReplaceSeriesEpisodes updates the series row and swaps its whole episode
// list in one transaction.
func (r *SeriesRepository) ReplaceSeriesEpisodes(ctx context.Context, s *models.Series, episodes []models.Episode) error {
	if !isUUID(s.ID) {
		return ErrNotFound
	}

	return database.Transaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE series SET title = $2, description = $3, thumbnail = $4, category = $5, tmdb_id = $6
			WHERE id = $1`,
			s.ID, s.Title, s.Description, s.Thumbnail, s.Category, s.TMDBID)
		if err != nil {
			return fmt.Errorf("update series %s: %w", s.ID, err)
		}
		if err := expectOne(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM episodes WHERE series_id = $1`, s.ID); err != nil {
			return fmt.Errorf("clear episodes of %s: %w", s.ID, err)
		}

		return insertEpisodes(ctx, tx, s.ID, episodes)
	})
}

// DeleteSeries removes the series; its episodes go with it (ON DELETE CASCADE).
func (r *SeriesRepository) DeleteSeries(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM series WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete series %s: %w", id, err)
	}
	return expectOne(res)
}

// ===============================
// EPISODES
// ===============================

func (r *SeriesRepository) GetEpisode(ctx context.Context, id string) (*models.Episode, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}

	var ep models.Episode
	err := r.db.GetContext(ctx, &ep, `SELECT `+episodeColumns+` FROM episodes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get episode %s: %w", id, err)
	}

	ep.Normalize()
	if err := ep.Valid(); err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("Malformed episode row")
		return nil, ErrNotFound
	}
	return &ep, nil
}

// ListEpisodes returns a series' episodes ordered by (season, episode).
func (r *SeriesRepository) ListEpisodes(ctx context.Context, seriesID string) ([]models.Episode, error) {
	if !isUUID(seriesID) {
		return []models.Episode{}, nil
	}

	var episodes []models.Episode
	err := r.db.SelectContext(ctx, &episodes, `
		SELECT `+episodeColumns+` FROM episodes
		WHERE series_id = $1
		ORDER BY season ASC, episode ASC`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list episodes of %s: %w", seriesID, err)
	}

	return keepValid(episodes, r.logger, "episodes"), nil
}

// SetEpisodeVideoURL is the inline episode edit from the admin list.
func (r *SeriesRepository) SetEpisodeVideoURL(ctx context.Context, id, videoURL string) error {
	if !isUUID(id) {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `UPDATE episodes SET video_url = $2 WHERE id = $1`, id, videoURL)
	if err != nil {
		return fmt.Errorf("update episode %s: %w", id, err)
	}
	return expectOne(res)
}

func (r *SeriesRepository) DeleteEpisode(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM episodes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete episode %s: %w", id, err)
	}
	return expectOne(res)
}

// insertEpisodes bulk-inserts episodes for seriesID. A repeated
// (season, episode) overwrites the earlier row.
func insertEpisodes(ctx context.Context, tx *sqlx.Tx, seriesID string, episodes []models.Episode) error {
	if len(episodes) == 0 {
		return nil
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO episodes (series_id, season, episode, title, description, thumbnail, video_url, duration)
		VALUES (:series_id, :season, :episode, :title, :description, :thumbnail, :video_url, :duration)
		ON CONFLICT (series_id, season, episode) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			thumbnail = EXCLUDED.thumbnail,
			video_url = EXCLUDED.video_url,
			duration = EXCLUDED.duration`)
	if err != nil {
		return fmt.Errorf("prepare episode insert: %w", err)
	}
	defer stmt.Close()

	for _, ep := range episodes {
		ep.SeriesID = seriesID
		if _, err := stmt.ExecContext(ctx, ep); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23503" {
				return fmt.Errorf("insert episode S%dE%d: %w", ep.Season, ep.Number, ErrNotFound)
			}
			return fmt.Errorf("insert episode S%dE%d: %w", ep.Season, ep.Number, err)
		}
	}
	return nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
