// ===============================
// internal/services/movie.go - Admin movie CRUD
// ===============================

package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"luemtv/internal/models"
)

// MovieService manages standalone videos (movies and TV entries) for the
// admin panel.
type MovieService struct {
	store  VideoStore
	logger zerolog.Logger
}

func NewMovieService(store VideoStore, logger zerolog.Logger) *MovieService {
	return &MovieService{
		store:  store,
		logger: logger.With().Str("component", "movies").Logger(),
	}
}

// List returns videos of category (movies when empty), filtered by title.
func (s *MovieService) List(ctx context.Context, category, q string) ([]models.Video, error) {
	if category == "" {
		category = models.CategoryMovies
	}
	if category != models.CategoryMovies && category != models.CategoryTV {
		return nil, invalid("unknown category %q", category)
	}
	return s.store.ListVideos(ctx, category, strings.TrimSpace(q))
}

// Create inserts a hand-entered video and returns the refreshed list of its
// category.
func (s *MovieService) Create(ctx context.Context, input models.Video) ([]models.Video, error) {
	input.ID = ""
	input.Normalize()
	if err := validateVideo(&input); err != nil {
		return nil, err
	}

	if err := s.store.CreateVideo(ctx, &input); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", input.ID).Str("category", input.Category).Msg("Video created")
	return s.store.ListVideos(ctx, input.Category, "")
}

// Update edits a video and returns the refreshed list of its category.
func (s *MovieService) Update(ctx context.Context, id string, update models.VideoUpdate) ([]models.Video, error) {
	video, err := s.store.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(video)
	if err := validateVideo(video); err != nil {
		return nil, err
	}

	if err := s.store.UpdateVideo(ctx, video); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", id).Msg("Video updated")
	return s.store.ListVideos(ctx, video.Category, "")
}

// Delete removes a video and returns the refreshed list of its category.
func (s *MovieService) Delete(ctx context.Context, id string) ([]models.Video, error) {
	video, err := s.store.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteVideo(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", id).Msg("Video deleted")
	return s.store.ListVideos(ctx, video.Category, "")
}

func validateVideo(v *models.Video) error {
	if v.Title == "" {
		return invalid("title is required")
	}
	if v.VideoURL == "" {
		return invalid("video_url is required")
	}
	if v.Category != models.CategoryMovies && v.Category != models.CategoryTV {
		return invalid("category must be %s or %s", models.CategoryMovies, models.CategoryTV)
	}
	return nil
}
