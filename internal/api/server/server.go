package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "speech-insight/docs" // Generated swagger docs
	"speech-insight/internal/api/middleware"
	"speech-insight/internal/api/v1/handlers"
	v1routes "speech-insight/internal/api/v1/routes"
	"speech-insight/internal/api/v1/services"
	"speech-insight/internal/app/logging"
	"speech-insight/internal/app/repository"
	"speech-insight/internal/app/storage"
)

// Config represents API server configuration
type Config struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// Dependencies are the components the HTTP layer is built on
type Dependencies struct {
	Store     repository.Store
	Files     storage.FileStore
	Processor services.Processor
	// Gatherer is served on /metrics; nil serves the default registry
	Gatherer prometheus.Gatherer
	Policy   services.UploadPolicy
	Health   handlers.HealthInfo
}

// Server represents the API server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	audio      services.AudioService
	logger     *zap.Logger
}

// NewServer creates a new API server
func NewServer(config Config, deps Dependencies, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)

	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	health := handlers.NewHealthHandler(deps.Store, deps.Health)
	router.GET("/health", health.Check)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	audioService := services.NewAudioService(deps.Store, deps.Files, deps.Processor, deps.Policy, logger)
	serviceContainer := &v1routes.ServiceContainer{
		AudioService:    audioService,
		AnalysisService: services.NewAnalysisService(deps.Store),
		Health:          health,
		MaxUploadBytes:  deps.Policy.MaxFileSizeBytes,
	}

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		v1routes.RegisterRoutes(v1, serviceContainer)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":       "Welcome to " + deps.Health.AppName,
			"version":       deps.Health.Version,
			"documentation": "/swagger/index.html",
			"endpoints": gin.H{
				"health":   "/api/v1/health",
				"metrics":  "/metrics",
				"audio":    "/api/v1/audio",
				"analysis": "/api/v1/analysis/{id}/full",
			},
		})
	})

	httpServer := &http.Server{
		Addr:         config.Host + ":" + config.Port,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config:     config,
		router:     router,
		httpServer: httpServer,
		audio:      audioService,
		logger:     logger,
	}
}

// Start serves in the background. The returned channel receives the error that
// stopped the listener, if any, and is closed when it stops.
func (s *Server) Start() <-chan error {
	s.logger.Info("Starting API server",
		zap.String("host", s.config.Host),
		zap.String("port", s.config.Port),
		zap.String("environment", s.config.Environment),
	)

	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server stopped", zap.Error(err))
			errs <- err
		}
	}()
	return errs
}

// Shutdown stops accepting requests, then waits for in-flight requests and
// background pipeline runs until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	done := make(chan struct{})
	go func() {
		s.audio.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Background pipeline runs still active at shutdown")
		return ctx.Err()
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
