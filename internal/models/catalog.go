// ===============================
// internal/models/catalog.go - Home page and banner payloads
// ===============================

package models

// Home is the landing page payload.
type Home struct {
	Series []Series     `json:"series"`
	Movies []Video      `json:"movies"`
	TV     []Video      `json:"tv"`
	Banner []BannerItem `json:"banner"`
}

// BannerItem is one slide of the rotating home banner.
type BannerItem struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Category    string `json:"category"`
	Link        string `json:"link"`
}

func BannerFromSeries(s Series) BannerItem {
	return BannerItem{
		ID:          s.ID,
		Kind:        KindSeries,
		Title:       s.Title,
		Description: s.Description,
		Thumbnail:   s.Thumbnail,
		Category:    s.Category,
		Link:        "/series/" + s.ID,
	}
}

func BannerFromVideo(v Video) BannerItem {
	return BannerItem{
		ID:          v.ID,
		Kind:        KindMovie,
		Title:       v.Title,
		Description: v.Description,
		Thumbnail:   v.Thumbnail,
		Category:    v.Category,
		Link:        "/watch/" + v.ID,
	}
}

// BannerState is what banner subscribers receive on every change.
type BannerState struct {
	Index   int          `json:"index"`
	Total   int          `json:"total"`
	Current *BannerItem  `json:"current"`
	Items   []BannerItem `json:"items,omitempty"`
}

// UpcomingItem is a TMDB title that is about to be released or on the air.
type UpcomingItem struct {
	TMDBID      int     `json:"tmdb_id"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Poster      string  `json:"poster"`
	ReleaseDate string  `json:"release_date"`
	Rating      float64 `json:"rating"`
}

// Upcoming groups both upcoming lists.
type Upcoming struct {
	Movies []UpcomingItem `json:"movies"`
	TV     []UpcomingItem `json:"tv"`
}
