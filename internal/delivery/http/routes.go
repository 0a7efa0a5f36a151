package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopsense/backend/config"
)

// SetupRouter creates and configures the Gin router.
// /metrics is only mounted when registry is non-nil.
func SetupRouter(cfg *config.Config, handler *Handler, registry *prometheus.Registry) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.POST("/compare", handler.Compare)
		v1.GET("/suggestions", handler.Suggestions)

		wishlist := v1.Group("/wishlist")
		{
			wishlist.GET("", handler.ListWishlist)
			wishlist.POST("", handler.AddWishlist)
			wishlist.DELETE("", handler.RemoveWishlist)
		}
	}

	return router
}
