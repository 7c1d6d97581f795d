// ===============================
// internal/services/importer.go - Admin TMDB import flow
// ===============================

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"luemtv/internal/metrics"
	"luemtv/internal/models"
	"luemtv/internal/tmdb"
)

// ImportService drives import drafts:
//
//	idle → searching → results_shown → detail_loading → form_staged →
//	(episodes_loading → episodes_staged)? → saving → done | error
//
// A failed step returns the draft to the state it was in, with Message set.
type ImportService struct {
	drafts            *DraftStore
	metadata          Metadata
	series            SeriesStore
	videos            VideoStore
	maxPages          int
	seasonConcurrency int
	logger            zerolog.Logger
}

const saveFailedMessage = "Save failed, try again"

type ImportOptions struct {
	MaxSearchPages    int
	SeasonConcurrency int
}

func NewImportService(drafts *DraftStore, metadata Metadata, series SeriesStore, videos VideoStore, opts ImportOptions, logger zerolog.Logger) *ImportService {
	if opts.MaxSearchPages < 1 {
		opts.MaxSearchPages = 5
	}
	if opts.SeasonConcurrency < 1 {
		opts.SeasonConcurrency = 1
	}
	return &ImportService{
		drafts:            drafts,
		metadata:          metadata,
		series:            series,
		videos:            videos,
		maxPages:          opts.MaxSearchPages,
		seasonConcurrency: opts.SeasonConcurrency,
		logger:            logger.With().Str("component", "importer").Logger(),
	}
}

// Start opens an empty draft.
func (s *ImportService) Start(ownerID string, kind models.DraftKind) (models.Draft, error) {
	if !kind.Valid() {
		return models.Draft{}, invalid("kind must be movie or tv")
	}
	entry := s.drafts.create(ownerID, kind)
	return snapshot(&entry.draft), nil
}

// StartFromSeries opens a draft pre-filled from an existing series so it
// can be re-synced with TMDB or have its episodes edited.
func (s *ImportService) StartFromSeries(ctx context.Context, ownerID, seriesID string) (models.Draft, error) {
	series, err := s.series.GetSeries(ctx, seriesID)
	if err != nil {
		return models.Draft{}, err
	}
	episodes, err := s.series.ListEpisodes(ctx, seriesID)
	if err != nil {
		return models.Draft{}, err
	}
	models.SortEpisodes(episodes)

	entry := s.drafts.create(ownerID, models.DraftTV)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	d := &entry.draft
	d.EditingID = series.ID
	d.Form = models.DraftForm{
		TMDBID:      series.TMDBID,
		Title:       series.Title,
		Description: series.Description,
		Thumbnail:   series.Thumbnail,
	}
	d.Episodes = models.StagedFromEpisodes(episodes)
	d.State = models.StateFormStaged
	if len(d.Episodes) > 0 {
		d.State = models.StateEpisodesStaged
	}
	return snapshot(d), nil
}

// StartFromMovie opens a draft pre-filled from an existing video.
func (s *ImportService) StartFromMovie(ctx context.Context, ownerID, videoID string) (models.Draft, error) {
	video, err := s.videos.GetVideo(ctx, videoID)
	if err != nil {
		return models.Draft{}, err
	}

	entry := s.drafts.create(ownerID, models.DraftMovie)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	d := &entry.draft
	d.EditingID = video.ID
	d.Form = models.DraftForm{
		TMDBID:      video.TMDBID,
		Title:       video.Title,
		Description: video.Description,
		Thumbnail:   video.Thumbnail,
		VideoURL:    video.VideoURL,
		Duration:    video.Duration,
	}
	d.State = models.StateFormStaged
	return snapshot(d), nil
}

// Get returns the current draft.
func (s *ImportService) Get(ownerID, draftID string) (models.Draft, error) {
	entry, release, err := s.drafts.acquire(draftID, ownerID)
	if err != nil {
		return models.Draft{}, err
	}
	defer release()
	return snapshot(&entry.draft), nil
}

// Discard drops the draft.
func (s *ImportService) Discard(ownerID, draftID string) error {
	return s.drafts.Delete(draftID, ownerID)
}

// Search queries TMDB for the draft's kind. total_pages is capped, and
// pages outside [1, cap] are rejected.
func (s *ImportService) Search(ctx context.Context, ownerID, draftID, query string, page int) (models.Draft, error) {
	entry, release, err := s.drafts.acquire(draftID, ownerID)
	if err != nil {
		return models.Draft{}, err
	}
	defer release()
	d := &entry.draft

	if err := editable(d); err != nil {
		return snapshot(d), err
	}
	if strings.TrimSpace(query) == "" {
		return s.reject(d, invalid("search query is required"))
	}
	if page < 1 || page > s.maxPages {
		return s.reject(d, invalid("page must be between 1 and %d", s.maxPages))
	}
	if query == d.Query && d.TotalPages > 0 && page > d.TotalPages {
		return s.reject(d, invalid("page must be between 1 and %d", d.TotalPages))
	}

	previous := d.State
	d.State = models.StateSearching

	results, totalPages, err := s.search(ctx, d.Kind, query, page)
	if err != nil {
		s.logger.Error().Err(err).Str("draft", d.ID).Str("query", query).Msg("TMDB search failed")
		d.State = previous
		d.Message = "TMDB search failed"
		return snapshot(d), upstream("tmdb", err)
	}

	d.Query = query
	d.Page = page
	d.TotalPages = min(totalPages, s.maxPages)
	d.Results = results
	d.Message = ""
	d.State = models.StateResultsShown
	return snapshot(d), nil
}

func (s *ImportService) search(ctx context.Context, kind models.DraftKind, query string, page int) ([]models.SearchResult, int, error) {
	if kind == models.DraftMovie {
		res, err := s.metadata.SearchMovies(ctx, query, page)
		if err != nil {
			return nil, 0, err
		}
		results := make([]models.SearchResult, 0, len(res.Results))
		for _, m := range res.Results {
			results = append(results, models.SearchResult{
				TMDBID:      m.ID,
				Title:       m.Title,
				Overview:    m.Overview,
				Poster:      s.metadata.ImageURL(m.PosterPath, tmdb.ListSize),
				ReleaseDate: m.ReleaseDate,
			})
		}
		return results, res.TotalPages, nil
	}

	res, err := s.metadata.SearchTV(ctx, query, page)
	if err != nil {
		return nil, 0, err
	}
	results := make([]models.SearchResult, 0, len(res.Results))
	for _, tv := range res.Results {
		results = append(results, models.SearchResult{
			TMDBID:      tv.ID,
			Title:       tv.Name,
			Overview:    tv.Overview,
			Poster:      s.metadata.ImageURL(tv.PosterPath, tmdb.ListSize),
			ReleaseDate: tv.FirstAirDate,
		})
	}
	return results, res.TotalPages, nil
}

// Select fetches the chosen title's details and stages them in the form.
func (s *ImportService) Select(ctx context.Context, ownerID, draftID string, tmdbID int) (models.Draft, error) {
	entry, release, err := s.drafts.acquire(draftID, ownerID)
	if err != nil {
		return models.Draft{}, err
	}
	defer release()
	d := &entry.draft

	if err := editable(d); err != nil {
		return snapshot(d), err
	}
	if tmdbID <= 0 {
		return s.reject(d, invalid("tmdb_id is required"))
	}

	previous := d.State
	d.State = models.StateDetailLoading

	form, err := s.detail(ctx, d.Kind, tmdbID)
	if err != nil {
		s.logger.Error().Err(err).Str("draft", d.ID).Int("tmdb_id", tmdbID).Msg("TMDB detail failed")
		d.State = previous
		d.Message = "Could not load details from TMDB"
		return snapshot(d), upstream("tmdb", err)
	}

	// A fresh pick replaces the staged metadata; typed URLs survive. Staged
	// episodes survive only on an edit draft re-selecting its own show.
	sameShow := d.Form.TMDBID != nil && *d.Form.TMDBID == tmdbID
	form.VideoURL = d.Form.VideoURL
	d.Form = form
	d.Results = []models.SearchResult{}
	d.Message = ""
	if d.EditingID == "" || d.Kind == models.DraftMovie || !sameShow {
		d.Episodes = []models.StagedEpisode{}
	}
	d.State = models.StateFormStaged
	if len(d.Episodes) > 0 {
		d.State = models.StateEpisodesStaged
	}
	return snapshot(d), nil
}

func (s *ImportService) detail(ctx context.Context, kind models.DraftKind, tmdbID int) (models.DraftForm, error) {
	id := tmdbID
	if kind == models.DraftMovie {
		movie, err := s.metadata.GetMovie(ctx, tmdbID)
		if err != nil {
			return models.DraftForm{}, err
		}
		return models.DraftForm{
			TMDBID:      &id,
			Title:       movie.Title,
			Description: movie.Overview,
			Thumbnail:   s.metadata.ImageURL(movie.PosterPath, tmdb.PosterSize),
			Duration:    movie.Runtime,
		}, nil
	}

	tv, err := s.metadata.GetTV(ctx, tmdbID)
	if err != nil {
		return models.DraftForm{}, err
	}
	return models.DraftForm{
		TMDBID:      &id,
		Title:       tv.Name,
		Description: tv.Overview,
		Thumbnail:   s.metadata.ImageURL(tv.PosterPath, tmdb.PosterSize),
	}, nil
}

// LoadEpisodes stages every episode of every regular season (season 0,
// the specials, is skipped). With keepURLs, URLs already staged for the
// same (season, episode) are carried over.
func (s *ImportService) LoadEpisodes(ctx context.Context, ownerID, draftID string, keepURLs bool) (models.Draft, error) {
	entry, release, err := s.drafts.acquire(draftID, ownerID)
	if err != nil {
		return models.Draft{}, err
	}
	defer release()
	d := &entry.draft

	if err := editable(d); err != nil {
		return snapshot(d), err
	}
	if d.Kind != models.DraftTV {
		return s.reject(d, invalid("episodes can only be loaded for tv drafts"))
	}
	if d.Form.TMDBID == nil {
		return s.reject(d, invalid("select a series from TMDB first"))
	}

	previous := d.State
	d.State = models.StateEpisodesLoading

	fresh, err := s.fetchEpisodes(ctx, *d.Form.TMDBID)
	if err != nil {
		s.logger.Error().Err(err).Str("draft", d.ID).Int("tmdb_id", *d.Form.TMDBID).Msg("Episode preload failed")
		d.State = previous
		d.Message = "Could not preload episodes from TMDB"
		return snapshot(d), upstream("tmdb", err)
	}

	if keepURLs {
		fresh = models.MergeKeepingURLs(d.Episodes, fresh)
	}

	d.Episodes = fresh
	d.Message = fmt.Sprintf("%d episodes loaded", len(fresh))
	d.State = models.StateEpisodesStaged
	return snapshot(d), nil
}

// fetchEpisodes loads seasons on a bounded pool. Results land in a slot per
// season so the flattened order is (season, episode) whatever the timing.
func (s *ImportService) fetchEpisodes(ctx context.Context, tvID int) ([]models.StagedEpisode, error) {
	details, err := s.metadata.GetTV(ctx, tvID)
	if err != nil {
		return nil, err
	}

	var seasons []int
	for _, season := range details.Seasons {
		if season.SeasonNumber > 0 {
			seasons = append(seasons, season.SeasonNumber)
		}
	}
	sort.Ints(seasons)

	slots := make([][]models.StagedEpisode, len(seasons))
	p := pool.New().
		WithMaxGoroutines(s.seasonConcurrency).
		WithContext(ctx).
		WithCancelOnError()

	for i, number := range seasons {
		p.Go(func(ctx context.Context) error {
			season, err := s.metadata.GetSeason(ctx, tvID, number)
			if err != nil {
				return fmt.Errorf("season %d: %w", number, err)
			}

			staged := make([]models.StagedEpisode, 0, len(season.Episodes))
			for _, ep := range season.Episodes {
				staged = append(staged, models.StagedEpisode{
					Season:      number,
					Episode:     ep.EpisodeNumber,
					Title:       ep.Name,
					Description: ep.Overview,
					Thumbnail:   s.metadata.ImageURL(ep.StillPath, tmdb.PosterSize),
					VideoURL:    "",
					Duration:    ep.Runtime,
				})
			}
			sort.SliceStable(staged, func(a, b int) bool { return staged[a].Episode < staged[b].Episode })
			slots[i] = staged
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	episodes := []models.StagedEpisode{}
	for _, slot := range slots {
		episodes = append(episodes, slot...)
	}
	return episodes, nil
}

// UpdateForm applies local edits to the staged form.
func (s *ImportService) UpdateForm(ownerID, draftID string, patch models.DraftFormPatch) (models.Draft, error) {
	entry, release, err := s.drafts.acquire(draftID, ownerID)
	if err != nil {
		return models.Draft{}, err
	}
	defer release()
	d := &entry.draft

	if err := editable(d); err != nil {
		return snapshot(d), err
	}

	patch.Apply(&d.Form)
	d.Message = ""
	if d.State == models.StateIdle || d.State == models.StateResultsShown {
		d.State = models.StateFormStaged
	}
	return snapshot(d), nil
}

// SetEpisodeURL sets the video_url of one staged episode.
func (s *ImportService) SetEpisodeURL(ownerID, draftID string, season, episode int, videoURL string) (models.Draft, error) {
	entry, release, err := s.drafts.acquire(draftID, ownerID)
	if err != nil {
		return models.Draft{}, err
	}
	defer release()
	d := &entry.draft

	if err := editable(d); err != nil {
		return snapshot(d), err
	}

	for i := range d.Episodes {
		if d.Episodes[i].Season == season && d.Episodes[i].Episode == episode {
			d.Episodes[i].VideoURL = strings.TrimSpace(videoURL)
			d.Message = ""
			return snapshot(d), nil
		}
	}
	return s.reject(d, invalid("no staged episode S%dE%d", season, episode))
}

// Save writes the draft. Movies need a title and a video_url; series need
// staged episodes with at least one video_url. Nothing is written when
// validation fails.
func (s *ImportService) Save(ctx context.Context, ownerID, draftID string) (models.Draft, error) {
	entry, release, err := s.drafts.acquire(draftID, ownerID)
	if err != nil {
		return models.Draft{}, err
	}
	defer release()
	d := &entry.draft

	if err := editable(d); err != nil {
		return snapshot(d), err
	}

	if d.Kind == models.DraftMovie {
		if d.Form.Title == "" || d.Form.VideoURL == "" {
			return s.reject(d, invalid("title and video_url are required"))
		}
	} else {
		if d.Form.Title == "" {
			return s.reject(d, invalid("title is required"))
		}
		if len(d.Episodes) == 0 {
			return s.reject(d, invalid("load the episodes before saving"))
		}
		if !models.HasPlayableURL(d.Episodes) {
			return s.reject(d, invalid("add at least one episode video_url before saving"))
		}
	}

	d.State = models.StateSaving

	var savedID string
	if d.Kind == models.DraftMovie {
		savedID, err = s.saveMovie(ctx, d)
	} else {
		savedID, err = s.saveSeries(ctx, d)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("draft", d.ID).Str("kind", string(d.Kind)).Msg("Import save failed")
		metrics.ImportSaves.WithLabelValues(string(d.Kind), "error").Inc()
		d.State = models.StateError
		d.Message = saveFailedMessage
		return snapshot(d), err
	}

	metrics.ImportSaves.WithLabelValues(string(d.Kind), "ok").Inc()
	s.logger.Info().Str("draft", d.ID).Str("id", savedID).Str("kind", string(d.Kind)).Msg("Import saved")

	d.SavedID = savedID
	d.State = models.StateDone
	d.Message = "Saved"
	return snapshot(d), nil
}

func (s *ImportService) saveMovie(ctx context.Context, d *models.Draft) (string, error) {
	if d.EditingID != "" {
		video, err := s.videos.GetVideo(ctx, d.EditingID)
		if err != nil {
			return "", err
		}
		video.TMDBID = d.Form.TMDBID
		video.Title = d.Form.Title
		video.Description = d.Form.Description
		video.Thumbnail = d.Form.Thumbnail
		video.VideoURL = d.Form.VideoURL
		video.Duration = d.Form.Duration
		video.Normalize()
		return video.ID, s.videos.UpdateVideo(ctx, video)
	}

	video := &models.Video{
		Title:       d.Form.Title,
		Description: d.Form.Description,
		VideoURL:    d.Form.VideoURL,
		Thumbnail:   d.Form.Thumbnail,
		Category:    models.CategoryMovies,
		TMDBID:      d.Form.TMDBID,
		Duration:    d.Form.Duration,
	}
	video.Normalize()
	if err := s.videos.CreateVideo(ctx, video); err != nil {
		return "", err
	}
	return video.ID, nil
}

func (s *ImportService) saveSeries(ctx context.Context, d *models.Draft) (string, error) {
	staged := models.DedupeStaged(d.Episodes)

	series := &models.Series{
		ID:          d.EditingID,
		Title:       d.Form.Title,
		Description: d.Form.Description,
		Thumbnail:   d.Form.Thumbnail,
		Category:    models.CategorySeries,
		TMDBID:      d.Form.TMDBID,
	}
	series.Normalize()

	episodes := make([]models.Episode, 0, len(staged))
	for _, ep := range staged {
		episodes = append(episodes, ep.ToEpisode(series.ID))
	}

	if d.EditingID != "" {
		return series.ID, s.series.ReplaceSeriesEpisodes(ctx, series, episodes)
	}
	if err := s.series.CreateSeriesWithEpisodes(ctx, series, episodes); err != nil {
		return "", err
	}
	return series.ID, nil
}

// reject records a validation failure on the draft without changing state.
func (s *ImportService) reject(d *models.Draft, err error) (models.Draft, error) {
	d.Message = err.Error()
	return snapshot(d), err
}

// editable rejects operations on drafts that are already saved.
func editable(d *models.Draft) error {
	switch d.State {
	case models.StateDone:
		return invalid("draft already saved, start a new one")
	case models.StateSearching, models.StateDetailLoading, models.StateEpisodesLoading, models.StateSaving:
		return invalid("draft is busy")
	}
	return nil
}

// snapshot copies the draft so callers never share slices with the store.
func snapshot(d *models.Draft) models.Draft {
	out := *d
	out.Results = append([]models.SearchResult{}, d.Results...)
	out.Episodes = append([]models.StagedEpisode{}, d.Episodes...)
	if d.Form.TMDBID != nil {
		id := *d.Form.TMDBID
		out.Form.TMDBID = &id
	}
	return out
}
