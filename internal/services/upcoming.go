// ===============================
// internal/services/upcoming.go - Upcoming movies and series
// ===============================

package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"luemtv/internal/metrics"
	"luemtv/internal/models"
	"luemtv/internal/tmdb"
)

// UpcomingService lists titles about to be released (movies) or currently
// airing (TV).
type UpcomingService struct {
	metadata Metadata
	logger   zerolog.Logger
}

func NewUpcomingService(metadata Metadata, logger zerolog.Logger) *UpcomingService {
	return &UpcomingService{
		metadata: metadata,
		logger:   logger.With().Str("component", "upcoming").Logger(),
	}
}

// Fetch queries both lists concurrently; each side degrades to empty.
func (s *UpcomingService) Fetch(ctx context.Context) models.Upcoming {
	upcoming := models.Upcoming{
		Movies: []models.UpcomingItem{},
		TV:     []models.UpcomingItem{},
	}

	p := pool.New().WithMaxGoroutines(2)
	p.Go(func() {
		movies, err := s.metadata.UpcomingMovies(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("Upcoming movies unavailable")
			metrics.UpstreamFailures.WithLabelValues("tmdb_upcoming").Inc()
			return
		}
		upcoming.Movies = s.fromMovies(movies)
	})
	p.Go(func() {
		shows, err := s.metadata.OnTheAirTV(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("On-the-air TV unavailable")
			metrics.UpstreamFailures.WithLabelValues("tmdb_on_the_air").Inc()
			return
		}
		upcoming.TV = s.fromTV(shows)
	})
	p.Wait()

	return upcoming
}

func (s *UpcomingService) fromMovies(movies []tmdb.MovieResult) []models.UpcomingItem {
	items := make([]models.UpcomingItem, 0, len(movies))
	for _, m := range movies {
		items = append(items, models.UpcomingItem{
			TMDBID:      m.ID,
			Kind:        models.KindMovie,
			Title:       m.Title,
			Overview:    m.Overview,
			Poster:      s.metadata.ImageURL(m.PosterPath, tmdb.ListSize),
			ReleaseDate: m.ReleaseDate,
			Rating:      m.VoteAverage,
		})
	}
	return items
}

func (s *UpcomingService) fromTV(shows []tmdb.TVResult) []models.UpcomingItem {
	items := make([]models.UpcomingItem, 0, len(shows))
	for _, tv := range shows {
		items = append(items, models.UpcomingItem{
			TMDBID:      tv.ID,
			Kind:        models.KindSeries,
			Title:       tv.Name,
			Overview:    tv.Overview,
			Poster:      s.metadata.ImageURL(tv.PosterPath, tmdb.ListSize),
			ReleaseDate: tv.FirstAirDate,
			Rating:      tv.VoteAverage,
		})
	}
	return items
}
