// ===============================
// internal/models/series.go - Series and episodes
// ===============================

package models

import (
	"errors"
	"strings"
	"time"
)

// Series is a multi-episode title. Its episodes live in their own table.
type Series struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Thumbnail   string    `json:"thumbnail" db:"thumbnail"`
	Category    string    `json:"category" db:"category"`
	TMDBID      *int      `json:"tmdb_id,omitempty" db:"tmdb_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (s *Series) Normalize() {
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Thumbnail = strings.TrimSpace(s.Thumbnail)
	s.Category = strings.TrimSpace(s.Category)
	if s.Category == "" {
		s.Category = CategorySeries
	}
}

func (s *Series) Valid() error {
	if s.ID == "" {
		return errors.New("series without id")
	}
	if s.Title == "" {
		return errors.New("series without title")
	}
	return nil
}

// SeriesUpdate carries the directly editable series fields.
type SeriesUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
}

func (u SeriesUpdate) Apply(s *Series) {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.Thumbnail != nil {
		s.Thumbnail = *u.Thumbnail
	}
	s.Normalize()
}

// SeriesDetail is the series page: the series, every episode in
// (season, episode) order, the distinct seasons, and the selected season.
type SeriesDetail struct {
	Series         Series    `json:"series"`
	Episodes       []Episode `json:"episodes"`
	Seasons        []int     `json:"seasons"`
	SelectedSeason int       `json:"selected_season"`
	SeasonEpisodes []Episode `json:"season_episodes"`
}
