// ===============================
// internal/models/episode.go
// ===============================

package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

type Episode struct {
	ID          string    `json:"id" db:"id"`
	SeriesID    string    `json:"series_id" db:"series_id"`
	Season      int       `json:"season" db:"season"`
	Number      int       `json:"episode" db:"episode"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Thumbnail   string    `json:"thumbnail" db:"thumbnail"`
	VideoURL    string    `json:"video_url" db:"video_url"`
	Duration    int       `json:"duration" db:"duration"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (e *Episode) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Thumbnail = strings.TrimSpace(e.Thumbnail)
	e.VideoURL = strings.TrimSpace(e.VideoURL)
	if e.Duration < 0 {
		e.Duration = 0
	}
}

func (e *Episode) Valid() error {
	if e.ID == "" || e.SeriesID == "" {
		return errors.New("episode without id or series")
	}
	if e.Season < 1 || e.Number < 1 {
		return fmt.Errorf("episode with invalid position S%dE%d", e.Season, e.Number)
	}
	return nil
}

// Helper methods
func (e *Episode) GetDisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return fmt.Sprintf("Episodio %d", e.Number)
}

func (e *Episode) IsWatchable() bool {
	return e.VideoURL != ""
}

// EpisodeKey identifies an episode inside a series.
type EpisodeKey struct {
	Season  int
	Episode int
}

func (e *Episode) Key() EpisodeKey {
	return EpisodeKey{Season: e.Season, Episode: e.Number}
}

// SortEpisodes orders episodes by (season, episode) ascending, in place.
func SortEpisodes(episodes []Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].Season != episodes[j].Season {
			return episodes[i].Season < episodes[j].Season
		}
		return episodes[i].Number < episodes[j].Number
	})
}

// SeasonGroup is one season's episodes.
type SeasonGroup struct {
	Season   int       `json:"season"`
	Episodes []Episode `json:"episodes"`
}

// GroupBySeason splits an ordered episode list into seasons, keeping the
// input order inside each group and ordering the groups by season.
func GroupBySeason(episodes []Episode) []SeasonGroup {
	index := make(map[int]int)
	var groups []SeasonGroup
	for _, ep := range episodes {
		i, ok := index[ep.Season]
		if !ok {
			i = len(groups)
			index[ep.Season] = i
			groups = append(groups, SeasonGroup{Season: ep.Season})
		}
		groups[i].Episodes = append(groups[i].Episodes, ep)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Season < groups[j].Season
	})
	return groups
}

// FlattenSeasons concatenates season groups back into one list.
func FlattenSeasons(groups []SeasonGroup) []Episode {
	var out []Episode
	for _, g := range groups {
		out = append(out, g.Episodes...)
	}
	return out
}

// Seasons returns the distinct season numbers, ascending.
func Seasons(episodes []Episode) []int {
	groups := GroupBySeason(episodes)
	seasons := make([]int, 0, len(groups))
	for _, g := range groups {
		seasons = append(seasons, g.Season)
	}
	return seasons
}
