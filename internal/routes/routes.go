package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parishlink/internal/handlers"
	"parishlink/internal/ws"
)

// SetupRoutes attaches the whole API surface under /api plus the
// health check and the websocket endpoint.
func SetupRoutes(r *gin.Engine, h *handlers.AppHandlers, hub *ws.Hub) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		h.Auth.RegisterRoutes(api)
		h.Users.RegisterRoutes(api)
		h.Profiles.RegisterRoutes(api)
		h.Messages.RegisterRoutes(api)
		h.Notifications.RegisterRoutes(api)
		h.Jobs.RegisterRoutes(api)
		h.Search.RegisterRoutes(api)
		h.Analytics.RegisterRoutes(api)
	}

	if hub != nil {
		r.GET("/ws", ws.Handler(hub))
	}
}
