// ===============================
// internal/handlers/video.go - Admin movie and TV management
// ===============================

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"luemtv/internal/models"
)

type MovieAdmin interface {
	List(ctx context.Context, category, q string) ([]models.Video, error)
	Create(ctx context.Context, input models.Video) ([]models.Video, error)
	Update(ctx context.Context, id string, update models.VideoUpdate) ([]models.Video, error)
	Delete(ctx context.Context, id string) ([]models.Video, error)
}

type VideoHandler struct {
	movies MovieAdmin
}

func NewVideoHandler(movies MovieAdmin) *VideoHandler {
	return &VideoHandler{movies: movies}
}

// ListVideos accepts ?category= (Películas by default) and ?q=.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	videos, err := h.movies.List(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var input models.Video
	if !bindJSON(c, &input) {
		return
	}

	videos, err := h.movies.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"videos": videos})
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	var update models.VideoUpdate
	if !bindJSON(c, &update) {
		return
	}

	videos, err := h.movies.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}

	videos, err := h.movies.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}
