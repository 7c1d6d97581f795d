// ===============================
// internal/handlers/banner_ws.go - Live banner rotation over WebSocket
// ===============================

package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"luemtv/internal/models"
)

type BannerServer interface {
	Serve(conn *websocket.Conn, initial models.BannerState)
}

type BannerSocketHandler struct {
	hub      BannerServer
	banner   BannerStater
	upgrader websocket.Upgrader
}

// NewBannerSocketHandler accepts upgrades from allowedOrigins, or from any
// origin when the list contains "*".
func NewBannerSocketHandler(hub BannerServer, banner BannerStater, allowedOrigins []string) *BannerSocketHandler {
	return &BannerSocketHandler{
		hub:    hub,
		banner: banner,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Subscribe upgrades the connection and streams banner_state messages
// until the client goes away.
func (h *BannerSocketHandler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		c.Error(err)
		return
	}

	h.hub.Serve(conn, h.banner.State())
}
