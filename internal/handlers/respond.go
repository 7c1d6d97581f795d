// ===============================
// internal/handlers/respond.go - Shared response and request helpers
// ===============================

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"luemtv/internal/services"
	"luemtv/internal/session"
)

// respondError maps service errors onto status codes. Only unexpected
// failures are attached to the gin context for the request logger.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var up *services.UpstreamError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	case errors.As(err, &up):
		c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": up.Service + " request failed"})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// requireConfirm guards destructive admin routes behind ?confirm=true.
func requireConfirm(c *gin.Context) bool {
	if c.Query("confirm") == "true" {
		return true
	}
	c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Add ?confirm=true to delete"})
	return false
}

// currentSession returns the caller or writes 401.
func currentSession(c *gin.Context) (session.Session, bool) {
	sess, ok := session.From(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return sess, ok
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return n, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}
