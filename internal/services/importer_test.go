package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luemtv/internal/models"
	"luemtv/internal/tmdb"
)

type importFixture struct {
	svc      *ImportService
	metadata *fakeMetadata
	series   *memSeriesStore
	videos   *memVideoStore
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()
	f := &importFixture{
		metadata: newFakeMetadata(),
		series:   newMemSeriesStore(),
		videos:   newMemVideoStore(),
	}
	drafts := NewDraftStore(time.Hour, zerolog.Nop())
	f.svc = NewImportService(drafts, f.metadata, f.series, f.videos,
		ImportOptions{MaxSearchPages: 5, SeasonConcurrency: 2}, zerolog.Nop())
	return f
}

// gameOfThrones stages two regular seasons plus the specials season.
func (f *importFixture) gameOfThrones() {
	f.metadata.shows = []tmdb.TVResult{{ID: 1399, Name: "Juego de tronos", PosterPath: "/got.jpg"}}
	f.metadata.tv[1399] = tmdb.TVDetails{
		ID:         1399,
		Name:       "Juego de tronos",
		Overview:   "Siete familias nobles...",
		PosterPath: "/got.jpg",
		Seasons: []tmdb.Season{
			{SeasonNumber: 2},
			{SeasonNumber: 0},
			{SeasonNumber: 1},
		},
	}
	f.metadata.seasons[0] = tmdb.SeasonDetails{SeasonNumber: 0, Episodes: []tmdb.EpisodeDetails{{EpisodeNumber: 1, Name: "Especial"}}}
	f.metadata.seasons[1] = tmdb.SeasonDetails{SeasonNumber: 1, Episodes: []tmdb.EpisodeDetails{
		{EpisodeNumber: 2, Name: "El camino real", StillPath: "/s1e2.jpg", Runtime: 56},
		{EpisodeNumber: 1, Name: "Se acerca el invierno", StillPath: "/s1e1.jpg", Runtime: 62},
	}}
	f.metadata.seasons[2] = tmdb.SeasonDetails{SeasonNumber: 2, Episodes: []tmdb.EpisodeDetails{
		{EpisodeNumber: 1, Name: "El norte no olvida"},
	}}
}

func (f *importFixture) stagedTV(t *testing.T, owner string) models.Draft {
	t.Helper()
	ctx := context.Background()

	d, err := f.svc.Start(owner, models.DraftTV)
	require.NoError(t, err)
	_, err = f.svc.Search(ctx, owner, d.ID, "tronos", 1)
	require.NoError(t, err)
	_, err = f.svc.Select(ctx, owner, d.ID, 1399)
	require.NoError(t, err)
	d, err = f.svc.LoadEpisodes(ctx, owner, d.ID, false)
	require.NoError(t, err)
	return d
}

func TestImport_StartRejectsUnknownKind(t *testing.T) {
	f := newImportFixture(t)
	_, err := f.svc.Start("admin", models.DraftKind("anime"))
	assert.True(t, IsValidation(err))
}

func TestImport_SearchSelectLoad(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	ctx := context.Background()

	d, err := f.svc.Start("admin", models.DraftTV)
	require.NoError(t, err)
	assert.Equal(t, models.StateIdle, d.State)

	d, err = f.svc.Search(ctx, "admin", d.ID, "tronos", 1)
	require.NoError(t, err)
	assert.Equal(t, models.StateResultsShown, d.State)
	require.Len(t, d.Results, 1)
	assert.Equal(t, "https://img.test/"+tmdb.ListSize+"/got.jpg", d.Results[0].Poster)

	d, err = f.svc.Select(ctx, "admin", d.ID, 1399)
	require.NoError(t, err)
	assert.Equal(t, models.StateFormStaged, d.State)
	assert.Equal(t, "Juego de tronos", d.Form.Title)
	require.NotNil(t, d.Form.TMDBID)
	assert.Equal(t, 1399, *d.Form.TMDBID)
	assert.Equal(t, "https://img.test/"+tmdb.PosterSize+"/got.jpg", d.Form.Thumbnail)
	assert.Empty(t, d.Results)

	d, err = f.svc.LoadEpisodes(ctx, "admin", d.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StateEpisodesStaged, d.State)

	require.Len(t, d.Episodes, 3)
	assert.Equal(t, models.EpisodeKey{Season: 1, Episode: 1}, d.Episodes[0].Key())
	assert.Equal(t, models.EpisodeKey{Season: 1, Episode: 2}, d.Episodes[1].Key())
	assert.Equal(t, models.EpisodeKey{Season: 2, Episode: 1}, d.Episodes[2].Key())
	assert.Equal(t, 62, d.Episodes[0].Duration)
	assert.Equal(t, "https://img.test/"+tmdb.PosterSize+"/s1e1.jpg", d.Episodes[0].Thumbnail)
	for _, ep := range d.Episodes {
		assert.Empty(t, ep.VideoURL)
		assert.NotZero(t, ep.Season, "specials must be skipped")
	}
	assert.NotContains(t, f.metadata.seasonHits, 0)
}

func TestImport_SearchPageBounds(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	f.metadata.totalPages = 40
	ctx := context.Background()

	d, _ := f.svc.Start("admin", models.DraftTV)

	d, err := f.svc.Search(ctx, "admin", d.ID, "tronos", 1)
	require.NoError(t, err)
	assert.Equal(t, 5, d.TotalPages)

	_, err = f.svc.Search(ctx, "admin", d.ID, "tronos", 6)
	assert.True(t, IsValidation(err))

	_, err = f.svc.Search(ctx, "admin", d.ID, "tronos", 0)
	assert.True(t, IsValidation(err))

	d, err = f.svc.Search(ctx, "admin", d.ID, "tronos", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Page)
}

func TestImport_SearchPageBeyondResultPages(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	f.metadata.totalPages = 2
	ctx := context.Background()

	d, _ := f.svc.Start("admin", models.DraftTV)
	_, err := f.svc.Search(ctx, "admin", d.ID, "tronos", 1)
	require.NoError(t, err)

	_, err = f.svc.Search(ctx, "admin", d.ID, "tronos", 3)
	assert.True(t, IsValidation(err))

	// A new query starts its own paging.
	_, err = f.svc.Search(ctx, "admin", d.ID, "dragones", 3)
	assert.NoError(t, err)
}

func TestImport_EmptyQuery(t *testing.T) {
	f := newImportFixture(t)
	d, _ := f.svc.Start("admin", models.DraftMovie)

	_, err := f.svc.Search(context.Background(), "admin", d.ID, "   ", 1)
	assert.True(t, IsValidation(err))
}

func TestImport_SearchFailureKeepsState(t *testing.T) {
	f := newImportFixture(t)
	f.metadata.searchErr = errors.New("connection reset")
	d, _ := f.svc.Start("admin", models.DraftMovie)

	d, err := f.svc.Search(context.Background(), "admin", d.ID, "matrix", 1)
	var up *UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, "tmdb", up.Service)
	assert.Equal(t, models.StateIdle, d.State)
	assert.NotEmpty(t, d.Message)
}

func TestImport_SelectFailureReturnsToResults(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	ctx := context.Background()

	d, _ := f.svc.Start("admin", models.DraftTV)
	_, err := f.svc.Search(ctx, "admin", d.ID, "tronos", 1)
	require.NoError(t, err)

	f.metadata.detailErr = errors.New("timeout")
	d, err = f.svc.Select(ctx, "admin", d.ID, 1399)
	require.Error(t, err)
	assert.Equal(t, models.StateResultsShown, d.State)
	assert.Len(t, d.Results, 1)
	assert.NotEmpty(t, d.Message)
}

func TestImport_LoadEpisodesFailureKeepsStaged(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	d := f.stagedTV(t, "admin")

	_, err := f.svc.SetEpisodeURL("admin", d.ID, 1, 1, "https://cdn/s1e1.m3u8")
	require.NoError(t, err)

	f.metadata.seasonErr = errors.New("boom")
	d, err = f.svc.LoadEpisodes(context.Background(), "admin", d.ID, true)
	require.Error(t, err)
	assert.Equal(t, models.StateEpisodesStaged, d.State)
	require.Len(t, d.Episodes, 3)
	assert.Equal(t, "https://cdn/s1e1.m3u8", d.Episodes[0].VideoURL)
}

func TestImport_LoadEpisodesRequiresSelection(t *testing.T) {
	f := newImportFixture(t)
	d, _ := f.svc.Start("admin", models.DraftTV)
	_, err := f.svc.LoadEpisodes(context.Background(), "admin", d.ID, false)
	assert.True(t, IsValidation(err))

	m, _ := f.svc.Start("admin", models.DraftMovie)
	_, err = f.svc.LoadEpisodes(context.Background(), "admin", m.ID, false)
	assert.True(t, IsValidation(err))
}

func TestImport_ReloadKeepingURLs(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	d := f.stagedTV(t, "admin")

	_, err := f.svc.SetEpisodeURL("admin", d.ID, 1, 2, "X")
	require.NoError(t, err)

	d, err = f.svc.LoadEpisodes(context.Background(), "admin", d.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "X", d.Episodes[1].VideoURL)
	assert.Equal(t, models.EpisodeKey{Season: 1, Episode: 2}, d.Episodes[1].Key())

	d, err = f.svc.LoadEpisodes(context.Background(), "admin", d.ID, false)
	require.NoError(t, err)
	assert.Empty(t, d.Episodes[1].VideoURL)
}

func TestImport_SetEpisodeURLUnknownEpisode(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	d := f.stagedTV(t, "admin")

	_, err := f.svc.SetEpisodeURL("admin", d.ID, 9, 9, "X")
	assert.True(t, IsValidation(err))
}

func TestImport_SaveSeriesWithoutURLWritesNothing(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	d := f.stagedTV(t, "admin")

	d, err := f.svc.Save(context.Background(), "admin", d.ID)
	assert.True(t, IsValidation(err))
	assert.Equal(t, models.StateEpisodesStaged, d.State)
	assert.Zero(t, f.series.writes)
	assert.Empty(t, f.series.series)
}

func TestImport_SaveSeries(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	d := f.stagedTV(t, "admin")
	ctx := context.Background()

	_, err := f.svc.SetEpisodeURL("admin", d.ID, 1, 1, "https://cdn/s1e1.m3u8")
	require.NoError(t, err)

	d, err = f.svc.Save(ctx, "admin", d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateDone, d.State)
	require.NotEmpty(t, d.SavedID)

	saved, err := f.series.GetSeries(ctx, d.SavedID)
	require.NoError(t, err)
	assert.Equal(t, "Juego de tronos", saved.Title)
	assert.Equal(t, models.CategorySeries, saved.Category)

	episodes, err := f.series.ListEpisodes(ctx, d.SavedID)
	require.NoError(t, err)
	assert.Len(t, episodes, 3)
	assert.Equal(t, "https://cdn/s1e1.m3u8", episodes[0].VideoURL)

	// Saved drafts are frozen.
	_, err = f.svc.Search(ctx, "admin", d.ID, "otra", 1)
	assert.True(t, IsValidation(err))
}

func TestImport_SaveMovie(t *testing.T) {
	f := newImportFixture(t)
	f.metadata.movies = []tmdb.MovieResult{{ID: 603, Title: "Matrix"}}
	f.metadata.movie[603] = tmdb.MovieDetails{ID: 603, Title: "Matrix", Runtime: 136, PosterPath: "/m.jpg"}
	ctx := context.Background()

	d, _ := f.svc.Start("admin", models.DraftMovie)
	_, err := f.svc.Search(ctx, "admin", d.ID, "matrix", 1)
	require.NoError(t, err)
	d, err = f.svc.Select(ctx, "admin", d.ID, 603)
	require.NoError(t, err)
	assert.Equal(t, 136, d.Form.Duration)

	_, err = f.svc.Save(ctx, "admin", d.ID)
	assert.True(t, IsValidation(err), "movie needs a video_url")
	assert.Zero(t, f.videos.writes)

	url := "https://cdn/matrix.mp4"
	_, err = f.svc.UpdateForm("admin", d.ID, models.DraftFormPatch{VideoURL: &url})
	require.NoError(t, err)

	d, err = f.svc.Save(ctx, "admin", d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateDone, d.State)

	saved, err := f.videos.GetVideo(ctx, d.SavedID)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryMovies, saved.Category)
	assert.Equal(t, url, saved.VideoURL)
	require.NotNil(t, saved.TMDBID)
	assert.Equal(t, 603, *saved.TMDBID)
}

func TestImport_SaveFailureKeepsDraftRetryable(t *testing.T) {
	f := newImportFixture(t)
	f.metadata.movies = []tmdb.MovieResult{{ID: 603, Title: "Matrix"}}
	f.metadata.movie[603] = tmdb.MovieDetails{ID: 603, Title: "Matrix"}
	f.videos.createErr = errors.New(`pq: duplicate key value violates unique constraint "videos_pkey"`)
	ctx := context.Background()

	d, _ := f.svc.Start("admin", models.DraftMovie)
	_, err := f.svc.Search(ctx, "admin", d.ID, "matrix", 1)
	require.NoError(t, err)
	_, err = f.svc.Select(ctx, "admin", d.ID, 603)
	require.NoError(t, err)
	url := "https://cdn/matrix.mp4"
	_, err = f.svc.UpdateForm("admin", d.ID, models.DraftFormPatch{VideoURL: &url})
	require.NoError(t, err)

	d, err = f.svc.Save(ctx, "admin", d.ID)
	require.Error(t, err)
	assert.Equal(t, models.StateError, d.State)
	assert.Equal(t, "Save failed, try again", d.Message)
	assert.NotContains(t, d.Message, "pq:")
	assert.Equal(t, url, d.Form.VideoURL)

	f.videos.createErr = nil
	d, err = f.svc.Save(ctx, "admin", d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateDone, d.State)
	assert.Equal(t, 1, f.videos.writes)
}

func TestImport_EditExistingSeries(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	existing := f.series.addSeries("Dark",
		models.Episode{Season: 1, Number: 1, VideoURL: "a"},
		models.Episode{Season: 1, Number: 2},
	)

	d, err := f.svc.StartFromSeries(ctx, "admin", existing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateEpisodesStaged, d.State)
	assert.Equal(t, existing.ID, d.EditingID)
	require.Len(t, d.Episodes, 2)

	_, err = f.svc.SetEpisodeURL("admin", d.ID, 1, 2, "b")
	require.NoError(t, err)

	d, err = f.svc.Save(ctx, "admin", d.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, d.SavedID)

	episodes, _ := f.series.ListEpisodes(ctx, existing.ID)
	require.Len(t, episodes, 2)
	assert.Equal(t, "b", episodes[1].VideoURL)
	assert.Len(t, f.series.series, 1)
}

func TestImport_EditSeriesSelectOtherShowClearsEpisodes(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	f.metadata.tv[70523] = tmdb.TVDetails{ID: 70523, Name: "Dark"}
	ctx := context.Background()

	existing := f.series.addSeries("Dark",
		models.Episode{Season: 1, Number: 1, VideoURL: "a"},
		models.Episode{Season: 1, Number: 2, VideoURL: "b"},
	)
	tmdbID := 70523
	existing.TMDBID = &tmdbID
	f.series.series[existing.ID] = existing

	d, err := f.svc.StartFromSeries(ctx, "admin", existing.ID)
	require.NoError(t, err)
	require.Len(t, d.Episodes, 2)

	// Re-selecting the same show keeps the staged episodes.
	d, err = f.svc.Select(ctx, "admin", d.ID, 70523)
	require.NoError(t, err)
	assert.Equal(t, models.StateEpisodesStaged, d.State)
	assert.Len(t, d.Episodes, 2)

	d, err = f.svc.Select(ctx, "admin", d.ID, 1399)
	require.NoError(t, err)
	assert.Equal(t, models.StateFormStaged, d.State)
	assert.Equal(t, "Juego de tronos", d.Form.Title)
	assert.Empty(t, d.Episodes)

	_, err = f.svc.Save(ctx, "admin", d.ID)
	assert.True(t, IsValidation(err), "episodes of the previous show must not be saved")
}

func TestImport_EditExistingMovie(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()
	existing := f.videos.add("Matrix", models.CategoryMovies, "old.mp4")

	d, err := f.svc.StartFromMovie(ctx, "admin", existing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateFormStaged, d.State)

	title := "Matrix (1999)"
	_, err = f.svc.UpdateForm("admin", d.ID, models.DraftFormPatch{Title: &title})
	require.NoError(t, err)

	d, err = f.svc.Save(ctx, "admin", d.ID)
	require.NoError(t, err)

	saved, _ := f.videos.GetVideo(ctx, existing.ID)
	assert.Equal(t, "Matrix (1999)", saved.Title)
	assert.Equal(t, "old.mp4", saved.VideoURL)
	assert.Len(t, f.videos.videos, 1)
}

func TestImport_OwnerOnly(t *testing.T) {
	f := newImportFixture(t)
	d, _ := f.svc.Start("admin-a", models.DraftMovie)

	_, err := f.svc.Get("admin-b", d.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, f.svc.Discard("admin-b", d.ID), ErrForbidden)
	require.NoError(t, f.svc.Discard("admin-a", d.ID))

	_, err = f.svc.Get("admin-a", d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImport_SnapshotIsDetached(t *testing.T) {
	f := newImportFixture(t)
	f.gameOfThrones()
	d := f.stagedTV(t, "admin")

	d.Episodes[0].VideoURL = "tampered"

	fresh, err := f.svc.Get("admin", d.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Episodes[0].VideoURL)
}
