package http

import (
	"github.com/gin-gonic/gin"

	"github.com/labelscan/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestLogger())
	router.Use(RecoveryMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowOrigin, cfg.Server.AllowHeaders))

	router.GET("/health", handler.HealthCheck)

	// Label uploads
	router.POST("/", handler.Analyze)

	// Everything else gets the upload page
	router.NoRoute(handler.Page)

	return router
}
