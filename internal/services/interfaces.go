// ===============================
// internal/services/interfaces.go - Storage and metadata contracts
// ===============================

package services

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"luemtv/internal/models"
	"luemtv/internal/tmdb"
)

// SeriesStore is the persistence surface for series and their episodes.
type SeriesStore interface {
	ListSeries(ctx context.Context, q string) ([]models.Series, error)
	GetSeries(ctx context.Context, id string) (*models.Series, error)
	CreateSeriesWithEpisodes(ctx context.Context, s *models.Series, episodes []models.Episode) error
	UpdateSeries(ctx context.Context, s *models.Series) error
	ReplaceSeriesEpisodes(ctx context.Context, s *models.Series, episodes []models.Episode) error
	DeleteSeries(ctx context.Context, id string) error

	GetEpisode(ctx context.Context, id string) (*models.Episode, error)
	ListEpisodes(ctx context.Context, seriesID string) ([]models.Episode, error)
	SetEpisodeVideoURL(ctx context.Context, id, videoURL string) error
	DeleteEpisode(ctx context.Context, id string) error
}

// VideoStore is the persistence surface for standalone videos.
type VideoStore interface {
	ListVideos(ctx context.Context, category, q string) ([]models.Video, error)
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	CreateVideo(ctx context.Context, v *models.Video) error
	UpdateVideo(ctx context.Context, v *models.Video) error
	DeleteVideo(ctx context.Context, id string) error
}

// ProfileStore is the persistence surface for user profiles.
type ProfileStore interface {
	ListProfiles(ctx context.Context, q string) ([]models.Profile, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	CreateProfile(ctx context.Context, p *models.Profile) error
	UpdateProfile(ctx context.Context, p *models.Profile) error
	DeleteProfile(ctx context.Context, id string) error
}

// Metadata is the TMDB surface used by the import flow and upcoming lists.
type Metadata interface {
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.Page[tmdb.MovieResult], error)
	SearchTV(ctx context.Context, query string, page int) (*tmdb.Page[tmdb.TVResult], error)
	GetMovie(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	GetTV(ctx context.Context, id int) (*tmdb.TVDetails, error)
	GetSeason(ctx context.Context, tvID, seasonNumber int) (*tmdb.SeasonDetails, error)
	UpcomingMovies(ctx context.Context) ([]tmdb.MovieResult, error)
	OnTheAirTV(ctx context.Context) ([]tmdb.TVResult, error)
	ImageURL(path, size string) string
}

// AuthProvider is the Firebase Auth surface.
type AuthProvider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	SignUp(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context, uid string) error
	DeleteUser(ctx context.Context, uid string) error
}
