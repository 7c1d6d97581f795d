// ===============================
// internal/services/series.go - Series detail and admin management
// ===============================

package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"luemtv/internal/models"
)

type SeriesService struct {
	store  SeriesStore
	logger zerolog.Logger
}

func NewSeriesService(store SeriesStore, logger zerolog.Logger) *SeriesService {
	return &SeriesService{
		store:  store,
		logger: logger.With().Str("component", "series").Logger(),
	}
}

// Detail loads a series with its episodes grouped for the season selector.
// season <= 0 selects the first season present.
func (s *SeriesService) Detail(ctx context.Context, id string, season int) (*models.SeriesDetail, error) {
	series, err := s.store.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}

	// An episode read failure still renders the series, with no episodes.
	episodes, err := s.store.ListEpisodes(ctx, id)
	episodes = degradeList(s.logger, "series_episodes", err, episodes)
	models.SortEpisodes(episodes)

	groups := models.GroupBySeason(episodes)
	detail := &models.SeriesDetail{
		Series:         *series,
		Episodes:       episodes,
		Seasons:        make([]int, 0, len(groups)),
		SeasonEpisodes: []models.Episode{},
	}

	for _, g := range groups {
		detail.Seasons = append(detail.Seasons, g.Season)
	}
	if len(groups) == 0 {
		return detail, nil
	}

	detail.SelectedSeason = groups[0].Season
	detail.SeasonEpisodes = groups[0].Episodes
	for _, g := range groups {
		if g.Season == season {
			detail.SelectedSeason = g.Season
			detail.SeasonEpisodes = g.Episodes
			break
		}
	}

	return detail, nil
}

// List is the admin series list, filtered by title substring.
func (s *SeriesService) List(ctx context.Context, q string) ([]models.Series, error) {
	return s.store.ListSeries(ctx, strings.TrimSpace(q))
}

// Update edits the series fields directly and returns the refreshed list.
func (s *SeriesService) Update(ctx context.Context, id string, update models.SeriesUpdate) ([]models.Series, error) {
	series, err := s.store.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(series)
	if series.Title == "" {
		return nil, invalid("title is required")
	}

	if err := s.store.UpdateSeries(ctx, series); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", id).Msg("Series updated")
	return s.List(ctx, "")
}

// Delete removes a series and, through the foreign key, its episodes.
func (s *SeriesService) Delete(ctx context.Context, id string) ([]models.Series, error) {
	if err := s.store.DeleteSeries(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", id).Msg("Series deleted")
	return s.List(ctx, "")
}

// Episodes lists one series' episodes for the admin editor.
func (s *SeriesService) Episodes(ctx context.Context, seriesID string) ([]models.Episode, error) {
	if _, err := s.store.GetSeries(ctx, seriesID); err != nil {
		return nil, err
	}
	return s.store.ListEpisodes(ctx, seriesID)
}

// SetEpisodeURL is the inline video_url edit; returns the series' episodes.
func (s *SeriesService) SetEpisodeURL(ctx context.Context, episodeID, videoURL string) ([]models.Episode, error) {
	ep, err := s.store.GetEpisode(ctx, episodeID)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetEpisodeVideoURL(ctx, episodeID, strings.TrimSpace(videoURL)); err != nil {
		return nil, err
	}
	return s.store.ListEpisodes(ctx, ep.SeriesID)
}

func (s *SeriesService) DeleteEpisode(ctx context.Context, episodeID string) ([]models.Episode, error) {
	ep, err := s.store.GetEpisode(ctx, episodeID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteEpisode(ctx, episodeID); err != nil {
		return nil, err
	}
	return s.store.ListEpisodes(ctx, ep.SeriesID)
}
