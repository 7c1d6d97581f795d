// ===============================
// internal/middleware/request.go - Request ids, logging and headers
// ===============================

package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestID propagates X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Header("X-Request-ID", requestID)
		c.Set("requestID", requestID)
		c.Next()
	}
}

// RequestLogger writes one line per request. 5xx log at error, 4xx at warn.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	logger = logger.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("ip", c.ClientIP()).
			Str("request_id", c.GetString("requestID")).
			Str("user_id", c.GetString("userID"))
		if len(c.Errors) > 0 {
			event.Str("errors", c.Errors.String())
		}
		event.Msg("Request")
	}
}

// SecurityHeaders sets the baseline browser hardening headers and keeps
// admin responses out of shared caches.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "SAMEORIGIN")

		if strings.Contains(c.Request.URL.Path, "/admin/") || strings.Contains(c.Request.URL.Path, "/auth/") {
			c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		} else if c.Request.Method == "GET" {
			c.Header("Cache-Control", "public, max-age=30")
		}

		c.Next()
	}
}
