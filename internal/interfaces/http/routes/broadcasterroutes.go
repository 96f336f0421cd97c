package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/rollcall/internal/interfaces/http/handlers/broadcaster"
)

// BroadcasterRouteConfig holds dependencies for broadcaster routes.
type BroadcasterRouteConfig struct {
	Handler *broadcaster.Handler
}

// SetupBroadcasterRoutes configures the teacher-side session routes.
func SetupBroadcasterRoutes(engine *gin.Engine, cfg *BroadcasterRouteConfig) {
	group := engine.Group("/api/broadcaster")
	{
		group.POST("/sessions", cfg.Handler.StartSession)
		group.GET("/payload", cfg.Handler.GetPayload)
		group.GET("/status", cfg.Handler.GetStatus)
		group.POST("/close", cfg.Handler.CloseSession)
	}
}
