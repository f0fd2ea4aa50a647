package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kavinesh/fleetbook-backend/internal/services"
)

// WebSocketHandler upgrades an authenticated connection for live updates.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("role")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}
