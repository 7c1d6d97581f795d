// ===============================
// internal/models/stats.go - Admin dashboard counts
// ===============================

package models

// CatalogStats is the admin dashboard summary.
type CatalogStats struct {
	TotalSeries      int `json:"total_series" db:"total_series"`
	TotalEpisodes    int `json:"total_episodes" db:"total_episodes"`
	TotalMovies      int `json:"total_movies" db:"total_movies"`
	TotalTV          int `json:"total_tv" db:"total_tv"`
	TotalUsers       int `json:"total_users" db:"total_users"`
	TotalAdmins      int `json:"total_admins" db:"total_admins"`
	EpisodesNoSource int `json:"episodes_without_url" db:"episodes_without_url"`
	MoviesNoSource   int `json:"movies_without_url" db:"movies_without_url"`
}
