package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeKeepingURLs(t *testing.T) {
	previous := []StagedEpisode{
		{Season: 1, Episode: 1, VideoURL: ""},
		{Season: 1, Episode: 2, VideoURL: "X"},
		{Season: 3, Episode: 9, VideoURL: "gone"},
	}
	fresh := []StagedEpisode{
		{Season: 1, Episode: 1, Title: "Uno"},
		{Season: 1, Episode: 2, Title: "Dos"},
		{Season: 2, Episode: 1, Title: "Tres"},
	}

	merged := MergeKeepingURLs(previous, fresh)

	require.Len(t, merged, 3)
	assert.Equal(t, "", merged[0].VideoURL)
	assert.Equal(t, "X", merged[1].VideoURL)
	assert.Equal(t, "Dos", merged[1].Title)
	assert.Equal(t, "", merged[2].VideoURL)
	// fresh is not mutated
	assert.Equal(t, "", fresh[1].VideoURL)
}

func TestHasPlayableURL(t *testing.T) {
	assert.False(t, HasPlayableURL(nil))
	assert.False(t, HasPlayableURL([]StagedEpisode{{VideoURL: ""}, {VideoURL: "   "}}))
	assert.True(t, HasPlayableURL([]StagedEpisode{{VideoURL: ""}, {VideoURL: "https://cdn/x.m3u8"}}))
}

func TestDedupeStaged_LastWins(t *testing.T) {
	staged := []StagedEpisode{
		{Season: 2, Episode: 1, Title: "b"},
		{Season: 1, Episode: 1, Title: "first"},
		{Season: 1, Episode: 1, Title: "second"},
	}

	out := DedupeStaged(staged)

	require.Len(t, out, 2)
	assert.Equal(t, "second", out[0].Title)
	assert.Equal(t, 2, out[1].Season)
}

func TestDraftFormPatch_Apply(t *testing.T) {
	form := DraftForm{Title: "Old", Duration: 90}
	title := "  New  "
	negative := -5

	DraftFormPatch{Title: &title, Duration: &negative}.Apply(&form)

	assert.Equal(t, "New", form.Title)
	assert.Equal(t, 90, form.Duration)
}

func TestStagedRoundTrip(t *testing.T) {
	episodes := []Episode{{ID: "e1", SeriesID: "s1", Season: 1, Number: 2, Title: "T", VideoURL: "u", Duration: 40}}

	staged := StagedFromEpisodes(episodes)
	require.Len(t, staged, 1)

	back := staged[0].ToEpisode("s2")
	assert.Equal(t, "s2", back.SeriesID)
	assert.Equal(t, 1, back.Season)
	assert.Equal(t, 2, back.Number)
	assert.Equal(t, "u", back.VideoURL)
}

func TestBannerLinks(t *testing.T) {
	assert.Equal(t, "/series/abc", BannerFromSeries(Series{ID: "abc"}).Link)
	assert.Equal(t, "/watch/xyz", BannerFromVideo(Video{ID: "xyz"}).Link)
}

func TestVideo_NormalizeAndValid(t *testing.T) {
	v := Video{ID: "1", Title: "  Film  "}
	v.Normalize()
	assert.Equal(t, "Film", v.Title)
	assert.Equal(t, CategoryMovies, v.Category)
	assert.NoError(t, v.Valid())

	v.Category = "Anime"
	assert.Error(t, v.Valid())
}

func TestProfile_NormalizeAndValid(t *testing.T) {
	p := Profile{ID: "uid", Email: " Admin@Luem.TV "}
	p.Normalize()
	assert.Equal(t, "admin@luem.tv", p.Email)
	assert.Equal(t, RoleUser, p.Role)
	assert.NoError(t, p.Valid())
	assert.False(t, p.IsAdmin())

	p.Role = "moderator"
	assert.Error(t, p.Valid())
}
