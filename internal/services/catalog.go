// ===============================
// internal/services/catalog.go - Home page aggregation
// ===============================

package services

import (
	"context"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"luemtv/internal/metrics"
	"luemtv/internal/models"
)

// SeriesLister and VideoLister are the read slices of the stores the home
// page needs.
type SeriesLister interface {
	ListSeries(ctx context.Context, q string) ([]models.Series, error)
}

type VideoLister interface {
	ListVideos(ctx context.Context, category, q string) ([]models.Video, error)
}

type CatalogService struct {
	series  SeriesLister
	videos  VideoLister
	logger  zerolog.Logger
	shuffle func([]models.BannerItem)
}

func NewCatalogService(series SeriesLister, videos VideoLister, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		series:  series,
		videos:  videos,
		logger:  logger.With().Str("component", "catalog").Logger(),
		shuffle: ShuffleBanner,
	}
}

// Home loads series, movies and TV concurrently. A failing read degrades to
// an empty list; the other lists are still returned.
func (s *CatalogService) Home(ctx context.Context) models.Home {
	var home models.Home

	p := pool.New().WithMaxGoroutines(3)
	p.Go(func() {
		series, err := s.series.ListSeries(ctx, "")
		home.Series = degradeList(s.logger, "catalog_series", err, series)
	})
	p.Go(func() {
		movies, err := s.videos.ListVideos(ctx, models.CategoryMovies, "")
		home.Movies = degradeList(s.logger, "catalog_movies", err, movies)
	})
	p.Go(func() {
		tv, err := s.videos.ListVideos(ctx, models.CategoryTV, "")
		home.TV = degradeList(s.logger, "catalog_tv", err, tv)
	})
	p.Wait()

	home.Banner = s.bannerPool(home.Series, home.Movies)
	return home
}

// BannerPool is the shuffled series + movies pool used by the rotator.
func (s *CatalogService) BannerPool(ctx context.Context) []models.BannerItem {
	return s.Home(ctx).Banner
}

func (s *CatalogService) bannerPool(series []models.Series, movies []models.Video) []models.BannerItem {
	items := make([]models.BannerItem, 0, len(series)+len(movies))
	for _, sr := range series {
		items = append(items, models.BannerFromSeries(sr))
	}
	for _, mv := range movies {
		items = append(items, models.BannerFromVideo(mv))
	}
	s.shuffle(items)
	return items
}

func degradeList[T any](logger zerolog.Logger, source string, err error, rows []T) []T {
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("Catalog read failed, serving empty list")
		metrics.UpstreamFailures.WithLabelValues(source).Inc()
		return []T{}
	}
	if rows == nil {
		return []T{}
	}
	return rows
}

// ShuffleBanner is an unbiased in-place Fisher–Yates shuffle.
func ShuffleBanner(items []models.BannerItem) {
	rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
