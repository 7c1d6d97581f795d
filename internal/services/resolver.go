// ===============================
// internal/services/resolver.go - Watch page detail resolver
// ===============================

package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"luemtv/internal/models"
)

type EpisodeGetter interface {
	GetEpisode(ctx context.Context, id string) (*models.Episode, error)
}

type VideoGetter interface {
	GetVideo(ctx context.Context, id string) (*models.Video, error)
}

// ResolverService turns a watch-page id into something playable. Episodes
// are checked first, then videos.
type ResolverService struct {
	episodes EpisodeGetter
	videos   VideoGetter
	logger   zerolog.Logger
}

func NewResolverService(episodes EpisodeGetter, videos VideoGetter, logger zerolog.Logger) *ResolverService {
	return &ResolverService{
		episodes: episodes,
		videos:   videos,
		logger:   logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve returns ErrNotFound only after both lookups came back empty or
// failed. Ids that are not UUIDs cannot exist and are rejected up front.
func (s *ResolverService) Resolve(ctx context.Context, id string) (*models.Playable, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	ep, err := s.episodes.GetEpisode(ctx, id)
	if err == nil {
		p := models.PlayableFromEpisode(*ep)
		return &p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn().Err(err).Str("id", id).Msg("Episode lookup failed, trying videos")
	}

	v, err := s.videos.GetVideo(ctx, id)
	if err == nil {
		p := models.PlayableFromVideo(*v)
		return &p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Warn().Err(err).Str("id", id).Msg("Video lookup failed")
	}

	return nil, ErrNotFound
}
