// ===============================
// internal/handlers/stats.go - Admin dashboard counters
// ===============================

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"luemtv/internal/models"
)

type StatsSource interface {
	CatalogStats(ctx context.Context) (*models.CatalogStats, error)
}

type DraftCounter interface {
	Len() int
}

type StatsHandler struct {
	stats  StatsSource
	drafts DraftCounter
}

func NewStatsHandler(stats StatsSource, drafts DraftCounter) *StatsHandler {
	return &StatsHandler{stats: stats, drafts: drafts}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.CatalogStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":       stats,
		"open_drafts": h.drafts.Len(),
	})
}
