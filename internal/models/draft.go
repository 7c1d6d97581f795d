// ===============================
// internal/models/draft.go - Import draft state
// ===============================

package models

import (
	"sort"
	"strings"
	"time"
)

// DraftKind selects which TMDB catalog a draft imports from.
type DraftKind string

const (
	DraftMovie DraftKind = "movie"
	DraftTV    DraftKind = "tv"
)

func (k DraftKind) Valid() bool {
	return k == DraftMovie || k == DraftTV
}

// DraftState is a step of the admin import flow.
type DraftState string

const (
	StateIdle            DraftState = "idle"
	StateSearching       DraftState = "searching"
	StateResultsShown    DraftState = "results_shown"
	StateDetailLoading   DraftState = "detail_loading"
	StateFormStaged      DraftState = "form_staged"
	StateEpisodesLoading DraftState = "episodes_loading"
	StateEpisodesStaged  DraftState = "episodes_staged"
	StateSaving          DraftState = "saving"
	StateDone            DraftState = "done"
	StateError           DraftState = "error"
)

// SearchResult is one TMDB search hit as shown to the admin.
type SearchResult struct {
	TMDBID      int    `json:"tmdb_id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	Poster      string `json:"poster"`
	ReleaseDate string `json:"release_date"`
}

// DraftForm is the staged metadata for the row that will be written.
type DraftForm struct {
	TMDBID      *int   `json:"tmdb_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration"`
}

// DraftFormPatch edits the staged form. Nil means unchanged.
type DraftFormPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
	VideoURL    *string `json:"video_url"`
	Duration    *int    `json:"duration"`
}

func (p DraftFormPatch) Apply(f *DraftForm) {
	if p.Title != nil {
		f.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		f.Description = strings.TrimSpace(*p.Description)
	}
	if p.Thumbnail != nil {
		f.Thumbnail = strings.TrimSpace(*p.Thumbnail)
	}
	if p.VideoURL != nil {
		f.VideoURL = strings.TrimSpace(*p.VideoURL)
	}
	if p.Duration != nil && *p.Duration >= 0 {
		f.Duration = *p.Duration
	}
}

// StagedEpisode is an episode row that exists only in a draft.
type StagedEpisode struct {
	Season      int    `json:"season_number"`
	Episode     int    `json:"episode_number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration"`
}

func (s StagedEpisode) Key() EpisodeKey {
	return EpisodeKey{Season: s.Season, Episode: s.Episode}
}

// MergeKeepingURLs returns fresh with each video_url replaced by the one
// staged in previous under the same (season, episode), when there is one.
func MergeKeepingURLs(previous, fresh []StagedEpisode) []StagedEpisode {
	urls := make(map[EpisodeKey]string, len(previous))
	for _, ep := range previous {
		if ep.VideoURL != "" {
			urls[ep.Key()] = ep.VideoURL
		}
	}

	merged := make([]StagedEpisode, len(fresh))
	for i, ep := range fresh {
		if url, ok := urls[ep.Key()]; ok {
			ep.VideoURL = url
		}
		merged[i] = ep
	}
	return merged
}

// HasPlayableURL reports whether at least one staged episode has a
// non-blank video_url.
func HasPlayableURL(episodes []StagedEpisode) bool {
	for _, ep := range episodes {
		if strings.TrimSpace(ep.VideoURL) != "" {
			return true
		}
	}
	return false
}

// DedupeStaged keeps the last entry for each (season, episode) and returns
// the result ordered by that key.
func DedupeStaged(episodes []StagedEpisode) []StagedEpisode {
	byKey := make(map[EpisodeKey]StagedEpisode, len(episodes))
	for _, ep := range episodes {
		byKey[ep.Key()] = ep
	}

	out := make([]StagedEpisode, 0, len(byKey))
	for _, ep := range byKey {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Episode < out[j].Episode
	})
	return out
}

// StagedFromEpisodes converts stored episodes back into staged rows.
func StagedFromEpisodes(episodes []Episode) []StagedEpisode {
	staged := make([]StagedEpisode, len(episodes))
	for i, ep := range episodes {
		staged[i] = StagedEpisode{
			Season:      ep.Season,
			Episode:     ep.Number,
			Title:       ep.Title,
			Description: ep.Description,
			Thumbnail:   ep.Thumbnail,
			VideoURL:    ep.VideoURL,
			Duration:    ep.Duration,
		}
	}
	return staged
}

// ToEpisode builds the row to insert for seriesID.
func (s StagedEpisode) ToEpisode(seriesID string) Episode {
	ep := Episode{
		SeriesID:    seriesID,
		Season:      s.Season,
		Number:      s.Episode,
		Title:       s.Title,
		Description: s.Description,
		Thumbnail:   s.Thumbnail,
		VideoURL:    s.VideoURL,
		Duration:    s.Duration,
	}
	ep.Normalize()
	return ep
}

// Draft is the serialisable view of an import in progress.
type Draft struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"owner_id"`
	Kind       DraftKind       `json:"kind"`
	State      DraftState      `json:"state"`
	Query      string          `json:"query"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Results    []SearchResult  `json:"results"`
	Form       DraftForm       `json:"form"`
	Episodes   []StagedEpisode `json:"episodes"`
	Message    string          `json:"message,omitempty"`
	EditingID  string          `json:"editing_id,omitempty"`
	SavedID    string          `json:"saved_id,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
