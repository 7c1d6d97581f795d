// ===============================
// internal/handlers/imports.go - Admin TMDB import drafts
// ===============================

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"luemtv/internal/models"
	"luemtv/internal/services"
)

type Importer interface {
	Start(ownerID string, kind models.DraftKind) (models.Draft, error)
	StartFromSeries(ctx context.Context, ownerID, seriesID string) (models.Draft, error)
	StartFromMovie(ctx context.Context, ownerID, videoID string) (models.Draft, error)
	Get(ownerID, draftID string) (models.Draft, error)
	Discard(ownerID, draftID string) error
	Search(ctx context.Context, ownerID, draftID, query string, page int) (models.Draft, error)
	Select(ctx context.Context, ownerID, draftID string, tmdbID int) (models.Draft, error)
	LoadEpisodes(ctx context.Context, ownerID, draftID string, keepURLs bool) (models.Draft, error)
	UpdateForm(ownerID, draftID string, patch models.DraftFormPatch) (models.Draft, error)
	SetEpisodeURL(ownerID, draftID string, season, episode int, videoURL string) (models.Draft, error)
	Save(ctx context.Context, ownerID, draftID string) (models.Draft, error)
}

type ImportHandler struct {
	importer Importer
}

func NewImportHandler(importer Importer) *ImportHandler {
	return &ImportHandler{importer: importer}
}

type startImportRequest struct {
	Kind models.DraftKind `json:"kind" binding:"required"`
}

type searchRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
}

type selectRequest struct {
	TMDBID int `json:"tmdb_id" binding:"required"`
}

type loadEpisodesRequest struct {
	KeepURLs bool `json:"keep_urls"`
}

// reply writes the draft. A failed step still returns the draft so the
// panel can show the message next to the state it fell back to.
func (h *ImportHandler) reply(c *gin.Context, status int, draft models.Draft, err error) {
	if err == nil {
		c.JSON(status, gin.H{"draft": draft})
		return
	}

	if draft.ID == "" {
		respondError(c, err)
		return
	}

	var validation *services.ValidationError
	var up *services.UpstreamError
	code, message := http.StatusInternalServerError, "Internal server error"
	switch {
	case errors.As(err, &validation):
		code, message = http.StatusBadRequest, validation.Message
	case errors.Is(err, services.ErrNotFound):
		code, message = http.StatusNotFound, "Not found"
	case errors.As(err, &up):
		code, message = http.StatusBadGateway, up.Service+" request failed"
		c.Error(err)
	default:
		c.Error(err)
	}
	c.JSON(code, gin.H{"error": message, "draft": draft})
}

func (h *ImportHandler) StartImport(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req startImportRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.importer.Start(sess.UserID, req.Kind)
	h.reply(c, http.StatusCreated, draft, err)
}

// ImportFromSeries opens a draft over an existing series.
func (h *ImportHandler) ImportFromSeries(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	draft, err := h.importer.StartFromSeries(c.Request.Context(), sess.UserID, c.Param("id"))
	h.reply(c, http.StatusCreated, draft, err)
}

// ImportFromMovie opens a draft over an existing movie.
func (h *ImportHandler) ImportFromMovie(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	draft, err := h.importer.StartFromMovie(c.Request.Context(), sess.UserID, c.Param("id"))
	h.reply(c, http.StatusCreated, draft, err)
}

func (h *ImportHandler) GetImport(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	draft, err := h.importer.Get(sess.UserID, c.Param("id"))
	h.reply(c, http.StatusOK, draft, err)
}

func (h *ImportHandler) DiscardImport(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.importer.Discard(sess.UserID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ImportHandler) Search(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req searchRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}

	draft, err := h.importer.Search(c.Request.Context(), sess.UserID, c.Param("id"), req.Query, req.Page)
	h.reply(c, http.StatusOK, draft, err)
}

func (h *ImportHandler) Select(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req selectRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.importer.Select(c.Request.Context(), sess.UserID, c.Param("id"), req.TMDBID)
	h.reply(c, http.StatusOK, draft, err)
}

func (h *ImportHandler) LoadEpisodes(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req loadEpisodesRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	draft, err := h.importer.LoadEpisodes(c.Request.Context(), sess.UserID, c.Param("id"), req.KeepURLs)
	h.reply(c, http.StatusOK, draft, err)
}

func (h *ImportHandler) UpdateForm(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var patch models.DraftFormPatch
	if !bindJSON(c, &patch) {
		return
	}

	draft, err := h.importer.UpdateForm(sess.UserID, c.Param("id"), patch)
	h.reply(c, http.StatusOK, draft, err)
}

func (h *ImportHandler) SetEpisodeURL(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	season, ok := intParam(c, "season")
	if !ok {
		return
	}
	episode, ok := intParam(c, "episode")
	if !ok {
		return
	}
	var req episodeURLRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.importer.SetEpisodeURL(sess.UserID, c.Param("id"), season, episode, req.VideoURL)
	h.reply(c, http.StatusOK, draft, err)
}

func (h *ImportHandler) Save(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	draft, err := h.importer.Save(c.Request.Context(), sess.UserID, c.Param("id"))
	h.reply(c, http.StatusOK, draft, err)
}
