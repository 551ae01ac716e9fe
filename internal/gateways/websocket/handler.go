package websocket

import (
	"net/http"
	"strings"

	"flowboard/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS authenticates the request and upgrades it. Unauthenticated
// connections are rejected before the upgrade, never after.
func (h *Hub) ServeWS(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenStr = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if tokenStr == "" {
		h.logger.Warnw("WebSocket connection rejected: token missing",
			"client_ip", c.ClientIP(),
		)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "token is required"})
		return
	}

	ident, err := auth.ParseToken(tokenStr, h.jwtSecret)
	if err != nil {
		h.logger.Warnw("WebSocket connection rejected: invalid token",
			"client_ip", c.ClientIP(),
			"error", err,
		)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorw("Failed to upgrade connection", "error", err)
		return
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, 64),
		ID:    generateClientID(),
		ident: *ident,
	}

	h.logger.Infow("WebSocket connection established",
		"client_id", client.ID,
		"user_id", client.ident.UserID,
		"client_ip", c.ClientIP(),
	)

	h.register <- client

	go client.writePump()
	go client.readPump()
}
