// ===============================
// internal/repositories/stats_repository.go - Admin stats queries
// ===============================

package repositories

import (
	"context"
	"fmt"

	"luemtv/internal/models"

	"github.com/jmoiron/sqlx"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CatalogStats counts rows in a single round trip.
func (r *StatsRepository) CatalogStats(ctx context.Context) (*models.CatalogStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM series) AS total_series,
			(SELECT COUNT(*) FROM episodes) AS total_episodes,
			(SELECT COUNT(*) FROM videos WHERE category = $1) AS total_movies,
			(SELECT COUNT(*) FROM videos WHERE category = $2) AS total_tv,
			(SELECT COUNT(*) FROM profiles) AS total_users,
			(SELECT COUNT(*) FROM profiles WHERE role = $3) AS total_admins,
			(SELECT COUNT(*) FROM episodes WHERE video_url = '') AS episodes_without_url,
			(SELECT COUNT(*) FROM videos WHERE video_url = '') AS movies_without_url`

	var stats models.CatalogStats
	if err := r.db.GetContext(ctx, &stats, query,
		models.CategoryMovies, models.CategoryTV, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	return &stats, nil
}
