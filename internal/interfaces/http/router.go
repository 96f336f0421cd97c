package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/rollcall/internal/infrastructure/ratelimit"
	"github.com/orris-inc/rollcall/internal/interfaces/http/handlers"
	"github.com/orris-inc/rollcall/internal/interfaces/http/handlers/broadcaster"
	"github.com/orris-inc/rollcall/internal/interfaces/http/handlers/verifier"
	"github.com/orris-inc/rollcall/internal/interfaces/http/middleware"
	"github.com/orris-inc/rollcall/internal/interfaces/http/routes"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

// RouterDeps are the handlers the local agent API is assembled from.
type RouterDeps struct {
	SystemHandler      *handlers.SystemHandler
	BroadcasterHandler *broadcaster.Handler
	VerifierHandler    *verifier.Handler
	MetricsHandler     http.Handler      // may be nil
	ScanLimiter        ratelimit.Limiter // may be nil
	AllowedOrigins     []string
}

// Router represents the HTTP router configuration
type Router struct {
	engine *gin.Engine
	deps   RouterDeps
	logger logger.Interface
}

func NewRouter(deps RouterDeps, log logger.Interface) *Router {
	return &Router{
		engine: gin.New(),
		deps:   deps,
		logger: log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.CORS(r.deps.AllowedOrigins))

	r.engine.GET("/health", r.deps.SystemHandler.Health)
	r.engine.GET("/api/device", r.deps.SystemHandler.GetDevice)
	if r.deps.MetricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.deps.MetricsHandler))
	}

	routes.SetupBroadcasterRoutes(r.engine, &routes.BroadcasterRouteConfig{Handler: r.deps.BroadcasterHandler})
	routes.SetupVerifierRoutes(r.engine, &routes.VerifierRouteConfig{
		Handler:       r.deps.VerifierHandler,
		ScanRateLimit: middleware.RateLimit(r.deps.ScanLimiter, r.logger),
	})
}

// GetEngine returns the gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
