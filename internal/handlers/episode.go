// ===============================
// internal/handlers/episode.go - Admin series and episode management
// ===============================

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"luemtv/internal/models"
)

type SeriesAdmin interface {
	List(ctx context.Context, q string) ([]models.Series, error)
	Update(ctx context.Context, id string, update models.SeriesUpdate) ([]models.Series, error)
	Delete(ctx context.Context, id string) ([]models.Series, error)
	Episodes(ctx context.Context, seriesID string) ([]models.Episode, error)
	SetEpisodeURL(ctx context.Context, episodeID, videoURL string) ([]models.Episode, error)
	DeleteEpisode(ctx context.Context, episodeID string) ([]models.Episode, error)
}

type SeriesHandler struct {
	series SeriesAdmin
}

func NewSeriesHandler(series SeriesAdmin) *SeriesHandler {
	return &SeriesHandler{series: series}
}

func (h *SeriesHandler) ListSeries(c *gin.Context) {
	series, err := h.series.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

func (h *SeriesHandler) UpdateSeries(c *gin.Context) {
	var update models.SeriesUpdate
	if !bindJSON(c, &update) {
		return
	}

	series, err := h.series.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

func (h *SeriesHandler) DeleteSeries(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}

	series, err := h.series.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

func (h *SeriesHandler) ListEpisodes(c *gin.Context) {
	episodes, err := h.series.Episodes(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"episodes": episodes})
}

type episodeURLRequest struct {
	VideoURL string `json:"video_url"`
}

// UpdateEpisodeURL is the inline video_url edit in the episode list.
func (h *SeriesHandler) UpdateEpisodeURL(c *gin.Context) {
	var req episodeURLRequest
	if !bindJSON(c, &req) {
		return
	}

	episodes, err := h.series.SetEpisodeURL(c.Request.Context(), c.Param("id"), req.VideoURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"episodes": episodes})
}

func (h *SeriesHandler) DeleteEpisode(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}

	episodes, err := h.series.DeleteEpisode(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"episodes": episodes})
}
