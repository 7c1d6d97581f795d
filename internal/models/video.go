// ===============================
// internal/models/video.go - Standalone playable videos (movies and TV)
// ===============================

package models

import (
	"errors"
	"strings"
	"time"
)

// Catalog categories. Series rows default to CategorySeries; videos are
// either movies or TV entries.
const (
	CategoryMovies = "Películas"
	CategorySeries = "Series"
	CategoryTV     = "TV"
)

var validVideoCategories = map[string]bool{
	CategoryMovies: true,
	CategorySeries: true,
	CategoryTV:     true,
}

// Video is a single playable file: a movie or a TV entry.
type Video struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	VideoURL    string    `json:"video_url" db:"video_url"`
	Thumbnail   string    `json:"thumbnail" db:"thumbnail"`
	Category    string    `json:"category" db:"category"`
	TMDBID      *int      `json:"tmdb_id,omitempty" db:"tmdb_id"`
	Duration    int       `json:"duration" db:"duration"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Normalize trims text fields and defaults an empty category to movies.
func (v *Video) Normalize() {
	v.Title = strings.TrimSpace(v.Title)
	v.Description = strings.TrimSpace(v.Description)
	v.VideoURL = strings.TrimSpace(v.VideoURL)
	v.Thumbnail = strings.TrimSpace(v.Thumbnail)
	v.Category = strings.TrimSpace(v.Category)
	if v.Category == "" {
		v.Category = CategoryMovies
	}
	if v.Duration < 0 {
		v.Duration = 0
	}
}

func (v *Video) Valid() error {
	if v.ID == "" {
		return errors.New("video without id")
	}
	if v.Title == "" {
		return errors.New("video without title")
	}
	if !validVideoCategories[v.Category] {
		return errors.New("video with unknown category " + v.Category)
	}
	return nil
}

func (v *Video) IsMovie() bool {
	return v.Category == CategoryMovies
}

func (v *Video) IsWatchable() bool {
	return v.VideoURL != ""
}

// VideoUpdate carries the admin-editable movie fields. Nil means unchanged.
type VideoUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url"`
	Thumbnail   *string `json:"thumbnail"`
	Category    *string `json:"category"`
	Duration    *int    `json:"duration"`
}

// Apply copies the non-nil fields onto v and re-normalizes it.
func (u VideoUpdate) Apply(v *Video) {
	if u.Title != nil {
		v.Title = *u.Title
	}
	if u.Description != nil {
		v.Description = *u.Description
	}
	if u.VideoURL != nil {
		v.VideoURL = *u.VideoURL
	}
	if u.Thumbnail != nil {
		v.Thumbnail = *u.Thumbnail
	}
	if u.Category != nil {
		v.Category = *u.Category
	}
	if u.Duration != nil {
		v.Duration = *u.Duration
	}
	v.Normalize()
}
