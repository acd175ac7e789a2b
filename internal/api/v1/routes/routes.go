package routes

import (
	"github.com/gin-gonic/gin"

	"meetscribe/internal/api/middleware"
	"meetscribe/internal/api/v1/handlers"
	"meetscribe/internal/app/importer"
	"meetscribe/internal/app/metrics"
	"meetscribe/internal/app/retention"
	"meetscribe/internal/app/transcription"
	"meetscribe/internal/app/upload"
)

// ServiceContainer holds the application services the handlers need
type ServiceContainer struct {
	TranscriptionManager *transcription.Manager
	RetentionManager     *retention.Manager
	Importer             *importer.Importer
	Storage              upload.StorageService
	Metrics              *metrics.Pipeline
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	router.Use(middleware.Identity())

	transcriptionHandler := handlers.NewTranscriptionHandler(
		container.TranscriptionManager,
		container.RetentionManager,
	)
	transcriptions := router.Group("/transcriptions")
	{
		transcriptions.POST("", transcriptionHandler.Start)
		transcriptions.GET("/:id", transcriptionHandler.Get)
		transcriptions.DELETE("/:id", transcriptionHandler.Delete)
	}

	meetings := router.Group("/meetings")
	{
		meetings.GET("/:id/transcriptions", transcriptionHandler.ListByMeeting)
	}

	uploadHandler := handlers.NewUploadHandler(container.Storage, container.Metrics)
	router.POST("/uploads", uploadHandler.IssueCredential)

	extractionHandler := handlers.NewExtractionHandler(container.Importer, container.Metrics)
	router.POST("/extractions", extractionHandler.Save)
}
