package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/rollcall/internal/interfaces/http/handlers/verifier"
)

// VerifierRouteConfig holds dependencies for verifier routes.
type VerifierRouteConfig struct {
	Handler       *verifier.Handler
	ScanRateLimit gin.HandlerFunc
}

// SetupVerifierRoutes configures the student-side scan and queue routes.
func SetupVerifierRoutes(engine *gin.Engine, cfg *VerifierRouteConfig) {
	group := engine.Group("/api/verifier")
	{
		group.POST("/assess", cfg.ScanRateLimit, cfg.Handler.Assess)
		group.POST("/attendance", cfg.ScanRateLimit, cfg.Handler.RecordAttendance)

		group.GET("/pending", cfg.Handler.ListPending)
		group.DELETE("/pending", cfg.Handler.ClearPending)
		group.DELETE("/pending/:id", cfg.Handler.RemovePending)

		group.POST("/sync", cfg.Handler.Sync)
	}
}
