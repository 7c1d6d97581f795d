// ===============================
// internal/handlers/catalog.go - Public catalog endpoints
// ===============================

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"luemtv/internal/models"
)

type HomeLoader interface {
	Home(ctx context.Context) models.Home
}

type BannerStater interface {
	State() models.BannerState
}

type UpcomingFetcher interface {
	Fetch(ctx context.Context) models.Upcoming
}

type PlayableResolver interface {
	Resolve(ctx context.Context, id string) (*models.Playable, error)
}

type SeriesDetailer interface {
	Detail(ctx context.Context, id string, season int) (*models.SeriesDetail, error)
}

type CatalogHandler struct {
	catalog  HomeLoader
	banner   BannerStater
	upcoming UpcomingFetcher
	resolver PlayableResolver
	series   SeriesDetailer
}

func NewCatalogHandler(catalog HomeLoader, banner BannerStater, upcoming UpcomingFetcher,
	resolver PlayableResolver, series SeriesDetailer) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		banner:   banner,
		upcoming: upcoming,
		resolver: resolver,
		series:   series,
	}
}

// Home never fails; unavailable lists come back empty.
func (h *CatalogHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Home(c.Request.Context()))
}

func (h *CatalogHandler) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, h.banner.State())
}

func (h *CatalogHandler) Upcoming(c *gin.Context) {
	c.JSON(http.StatusOK, h.upcoming.Fetch(c.Request.Context()))
}

// Watch resolves an id to an episode or a video.
func (h *CatalogHandler) Watch(c *gin.Context) {
	playable, err := h.resolver.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, playable)
}

// SeriesDetail accepts ?season=N; otherwise the first season is selected.
func (h *CatalogHandler) SeriesDetail(c *gin.Context) {
	season := 0
	if raw := c.Query("season"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid season"})
			return
		}
		season = n
	}

	detail, err := h.series.Detail(c.Request.Context(), c.Param("id"), season)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
