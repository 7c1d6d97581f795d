// ===============================
// internal/tmdb/models.go - TMDB response types
// ===============================

package tmdb

// Page is one page of a TMDB list or search response.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// MovieResult is a movie from search or list endpoints.
type MovieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

// TVResult is a TV series from search or list endpoints.
type TVResult struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	VoteAverage  float64 `json:"vote_average"`
}

// MovieDetails is /movie/{id}.
type MovieDetails struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
	Runtime     int    `json:"runtime"`
}

// TVDetails is /tv/{id}.
type TVDetails struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Overview     string   `json:"overview"`
	FirstAirDate string   `json:"first_air_date"`
	PosterPath   string   `json:"poster_path"`
	Seasons      []Season `json:"seasons"`
}

// Season is a season summary inside TVDetails. Season 0 holds specials.
type Season struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
	SeasonNumber int    `json:"season_number"`
}

// SeasonDetails is /tv/{id}/season/{n}.
type SeasonDetails struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	SeasonNumber int              `json:"season_number"`
	Episodes     []EpisodeDetails `json:"episodes"`
}

// EpisodeDetails is an episode inside SeasonDetails.
type EpisodeDetails struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	EpisodeNumber int    `json:"episode_number"`
	SeasonNumber  int    `json:"season_number"`
	StillPath     string `json:"still_path"`
	Runtime       int    `json:"runtime"`
}

// ErrorResponse is an error body from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
