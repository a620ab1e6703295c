package api

import (
	"github.com/gin-gonic/gin"

	"wastebot/internal/api/middleware"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
}

// SetupRouter sets up the Gin router.
func SetupRouter(handler *ChatHandler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.CORS(cfg.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/api/chat", handler.Chat)

	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.Auth(cfg.APIKey))
	adminGroup.POST("/reindex", handler.Reindex)

	return r
}
