package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luemtv/internal/models"
)

// ===============================
// Resolver
// ===============================

type brokenEpisodes struct{}

func (brokenEpisodes) GetEpisode(context.Context, string) (*models.Episode, error) {
	return nil, errors.New("connection reset")
}

func TestResolver(t *testing.T) {
	series := newMemSeriesStore()
	videos := newMemVideoStore()
	s := series.addSeries("Dark", models.Episode{Season: 1, Number: 3, VideoURL: "ep.m3u8"})
	episodes, _ := series.ListEpisodes(context.Background(), s.ID)
	episode := episodes[0]
	movie := videos.add("Matrix", models.CategoryMovies, "m.mp4")

	resolver := NewResolverService(series, videos, zerolog.Nop())
	ctx := context.Background()

	t.Run("episode", func(t *testing.T) {
		p, err := resolver.Resolve(ctx, episode.ID)
		require.NoError(t, err)
		assert.Equal(t, models.KindEpisode, p.Kind)
		assert.Equal(t, "ep.m3u8", p.PlayableURL)
		assert.Equal(t, "Episodio 3", p.Title)
		assert.Equal(t, s.ID, p.SeriesID)
	})

	t.Run("video", func(t *testing.T) {
		p, err := resolver.Resolve(ctx, movie.ID)
		require.NoError(t, err)
		assert.Equal(t, models.KindVideo, p.Kind)
		assert.Equal(t, "m.mp4", p.PlayableURL)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("not a uuid", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "../etc/passwd")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("episode lookup error falls through to videos", func(t *testing.T) {
		r := NewResolverService(brokenEpisodes{}, videos, zerolog.Nop())
		p, err := r.Resolve(ctx, movie.ID)
		require.NoError(t, err)
		assert.Equal(t, movie.ID, p.ID)
	})
}

// ===============================
// Series detail and admin
// ===============================

func TestSeriesDetail_SeasonSelection(t *testing.T) {
	store := newMemSeriesStore()
	s := store.addSeries("Dark",
		models.Episode{Season: 2, Number: 1},
		models.Episode{Season: 1, Number: 2},
		models.Episode{Season: 1, Number: 1},
		models.Episode{Season: 3, Number: 1},
	)
	svc := NewSeriesService(store, zerolog.Nop())
	ctx := context.Background()

	detail, err := svc.Detail(ctx, s.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, detail.Seasons)
	assert.Equal(t, 1, detail.SelectedSeason)
	require.Len(t, detail.SeasonEpisodes, 2)
	assert.Equal(t, 1, detail.SeasonEpisodes[0].Number)
	assert.Len(t, detail.Episodes, 4)

	detail, err = svc.Detail(ctx, s.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.SelectedSeason)
	assert.Len(t, detail.SeasonEpisodes, 1)

	// Unknown season falls back to the first one.
	detail, err = svc.Detail(ctx, s.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.SelectedSeason)
}

func TestSeriesDetail_NoEpisodes(t *testing.T) {
	store := newMemSeriesStore()
	s := store.addSeries("Vacía")

	detail, err := NewSeriesService(store, zerolog.Nop()).Detail(context.Background(), s.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, detail.Seasons)
	assert.Empty(t, detail.SeasonEpisodes)
	assert.Zero(t, detail.SelectedSeason)
}

func TestSeriesDetail_EpisodeReadFailureDegrades(t *testing.T) {
	store := newMemSeriesStore()
	s := store.addSeries("Dark", models.Episode{Season: 1, Number: 1, VideoURL: "e1.m3u8"})
	store.epErr = errors.New("episodes table down")

	detail, err := NewSeriesService(store, zerolog.Nop()).Detail(context.Background(), s.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Dark", detail.Series.Title)
	assert.NotNil(t, detail.Episodes)
	assert.Empty(t, detail.Episodes)
	assert.Empty(t, detail.Seasons)
	assert.Empty(t, detail.SeasonEpisodes)
}

func TestSeriesDetail_NotFound(t *testing.T) {
	_, err := NewSeriesService(newMemSeriesStore(), zerolog.Nop()).Detail(context.Background(), uuid.NewString(), 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeriesAdmin_UpdateAndDelete(t *testing.T) {
	store := newMemSeriesStore()
	s := store.addSeries("Dark", models.Episode{Season: 1, Number: 1})
	store.addSeries("Ozark")
	svc := NewSeriesService(store, zerolog.Nop())
	ctx := context.Background()

	blank := "  "
	_, err := svc.Update(ctx, s.ID, models.SeriesUpdate{Title: &blank})
	assert.True(t, IsValidation(err))

	title := "Dark (2017)"
	list, err := svc.Update(ctx, s.ID, models.SeriesUpdate{Title: &title})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	filtered, err := svc.List(ctx, "2017")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Dark (2017)", filtered[0].Title)

	list, err = svc.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Empty(t, store.episodes, "episodes go with their series")
}

func TestSeriesAdmin_EpisodeEdits(t *testing.T) {
	store := newMemSeriesStore()
	s := store.addSeries("Dark",
		models.Episode{Season: 1, Number: 1},
		models.Episode{Season: 1, Number: 2},
	)
	svc := NewSeriesService(store, zerolog.Nop())
	ctx := context.Background()

	episodes, err := svc.Episodes(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, episodes, 2)

	episodes, err = svc.SetEpisodeURL(ctx, episodes[0].ID, " https://cdn/e1.m3u8 ")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/e1.m3u8", episodes[0].VideoURL)

	episodes, err = svc.DeleteEpisode(ctx, episodes[1].ID)
	require.NoError(t, err)
	assert.Len(t, episodes, 1)

	_, err = svc.DeleteEpisode(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

// ===============================
// Movies
// ===============================

func TestMovies_CreateValidates(t *testing.T) {
	store := newMemVideoStore()
	svc := NewMovieService(store, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Video{Title: "Matrix"})
	assert.True(t, IsValidation(err))

	_, err = svc.Create(ctx, models.Video{Title: "Serie", VideoURL: "x", Category: models.CategorySeries})
	assert.True(t, IsValidation(err))

	list, err := svc.Create(ctx, models.Video{Title: " Matrix ", VideoURL: "m.mp4"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Matrix", list[0].Title)
	assert.Equal(t, models.CategoryMovies, list[0].Category)
}

func TestMovies_ListCategory(t *testing.T) {
	store := newMemVideoStore()
	store.add("Matrix", models.CategoryMovies, "m.mp4")
	store.add("Noticias", models.CategoryTV, "n.m3u8")
	svc := NewMovieService(store, zerolog.Nop())
	ctx := context.Background()

	movies, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, movies, 1)

	tv, err := svc.List(ctx, models.CategoryTV, "not")
	require.NoError(t, err)
	assert.Len(t, tv, 1)

	_, err = svc.List(ctx, "Anime", "")
	assert.True(t, IsValidation(err))
}

func TestMovies_UpdateAndDelete(t *testing.T) {
	store := newMemVideoStore()
	m := store.add("Matrix", models.CategoryMovies, "m.mp4")
	svc := NewMovieService(store, zerolog.Nop())
	ctx := context.Background()

	empty := ""
	_, err := svc.Update(ctx, m.ID, models.VideoUpdate{VideoURL: &empty})
	assert.True(t, IsValidation(err))

	duration := 136
	list, err := svc.Update(ctx, m.ID, models.VideoUpdate{Duration: &duration})
	require.NoError(t, err)
	assert.Equal(t, 136, list[0].Duration)

	list, err = svc.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Delete(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
