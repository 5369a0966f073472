package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(gin.Logger())

	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		members := v1.Group("/members/:lastName")
		{
			members.GET("/votes", handler.GetMemberVotes)
		}
	}

	return router
}
