package routes

import (
	"net/http"

	"favorx_backend/internal/handlers"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes mounts the HTTP API under /api/v1 plus the health and
// swagger endpoints.
func RegisterRoutes(router *gin.Engine, appHandlers *handlers.AppHandlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.ProfileHandler.RegisterRoutes(api)
		appHandlers.SkillHandler.RegisterRoutes(api)
		appHandlers.RatingHandler.RegisterRoutes(api)
		appHandlers.ReviewHandler.RegisterRoutes(api)
		appHandlers.KarmaHandler.RegisterRoutes(api)
		appHandlers.MatchingHandler.RegisterRoutes(api)
		appHandlers.ReportHandler.RegisterRoutes(api)
		appHandlers.VerificationHandler.RegisterRoutes(api)
	}
}
