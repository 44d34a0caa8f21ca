// Package websocket upgrades authenticated connections and hands them to
// the broadcast hub.
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"rpg-sheets/internal/hub"
	"rpg-sheets/internal/middleware"
)

// Handler upgrades HTTP requests to WebSocket sessions on the hub.
type Handler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
}

// NewHandler creates a Handler.
func NewHandler(h *hub.Hub) *Handler {
	if h == nil {
		panic("Hub cannot be nil for websocket Handler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// TODO: restrict to the configured CORS origin in production.
			return true
		},
	}

	return &Handler{upgrader: upgrader, hub: h}
}

// HandleConnection handles GET /ws. Auth middleware has already validated
// the token (header or query parameter) and set the user id.
func (h *Handler) HandleConnection(c *gin.Context) {
	userIDAny, exists := c.Get(middleware.ContextUserID)
	if !exists {
		logrus.Warn("WS Handler: user id not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logrus.Error("WS Handler: user id in context is not uint")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade writes its own HTTP error response.
		logCtx.WithError(err).Error("WS Handler: failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: connection upgraded to WebSocket")

	client := hub.NewClient(h.hub, conn, userID)
	if !h.hub.Register(client) {
		logCtx.Error("WS Handler: hub message channel full, failed to register client")
		client.CloseConn()
		return
	}

	client.Run()
	logCtx.Info("WS Handler: client read/write pumps started")
}
