package routes

import (
	"github.com/gin-gonic/gin"

	"speech-insight/internal/api/v1/handlers"
	"speech-insight/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	AudioService    services.AudioService
	AnalysisService services.AnalysisService
	Health          *handlers.HealthHandler
	// MaxUploadBytes limits upload request bodies; 0 disables the limit
	MaxUploadBytes int64
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	if container.Health != nil {
		router.GET("/health", container.Health.Check)
	}

	audioHandler := handlers.NewAudioHandler(container.AudioService, container.MaxUploadBytes)
	audio := router.Group("/audio")
	{
		audio.POST("/upload", audioHandler.Upload)
		audio.GET("", audioHandler.List)
		audio.GET("/:id", audioHandler.Get)
		audio.DELETE("/:id", audioHandler.Delete)
		audio.POST("/:id/process", audioHandler.Process)
	}

	analysisHandler := handlers.NewAnalysisHandler(container.AnalysisService)
	analysis := router.Group("/analysis")
	{
		analysis.GET("/:id/transcript", analysisHandler.Transcript)
		analysis.GET("/:id/sentiment", analysisHandler.Sentiment)
		analysis.GET("/:id/entities", analysisHandler.Entities)
		analysis.GET("/:id/summary", analysisHandler.Summary)
		analysis.GET("/:id/full", analysisHandler.Full)
	}
}
