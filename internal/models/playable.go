// ===============================
// internal/models/playable.go - Watch page playable item
// ===============================

package models

const (
	KindEpisode = "episode"
	KindVideo   = "video"
	KindSeries  = "series"
	KindMovie   = "movie"
)

// Playable is what the watch page renders: either an episode or a video,
// flattened into one shape.
type Playable struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Category    string `json:"category"`
	PlayableURL string `json:"playable_url"`

	// Episode only
	SeriesID string `json:"series_id,omitempty"`
	Season   int    `json:"season,omitempty"`
	Episode  int    `json:"episode,omitempty"`
}

func PlayableFromEpisode(e Episode) Playable {
	return Playable{
		ID:          e.ID,
		Kind:        KindEpisode,
		Title:       e.GetDisplayTitle(),
		Description: e.Description,
		Thumbnail:   e.Thumbnail,
		Category:    CategorySeries,
		PlayableURL: e.VideoURL,
		SeriesID:    e.SeriesID,
		Season:      e.Season,
		Episode:     e.Number,
	}
}

func PlayableFromVideo(v Video) Playable {
	return Playable{
		ID:          v.ID,
		Kind:        KindVideo,
		Title:       v.Title,
		Description: v.Description,
		Thumbnail:   v.Thumbnail,
		Category:    v.Category,
		PlayableURL: v.VideoURL,
	}
}
