package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"speech-insight/cmd/sia/cmd/bootstrap"
	"speech-insight/cmd/sia/cmd/version"
	"speech-insight/internal/api/server"
	"speech-insight/internal/api/v1/handlers"
	"speech-insight/internal/api/v1/services"
	"speech-insight/internal/app"
)

const appName = "Speech Insight API"

var (
	host            string
	port            string
	shutdownTimeout time.Duration
)

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen host (default from API_HOST)")
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default from API_PORT)")
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second,
		"how long to wait for requests and background runs on shutdown")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API

- Upload, list, process and delete recordings under /api/v1/audio
- Read results under /api/v1/analysis/{id}
- Prometheus metrics on /metrics, Swagger UI on /swagger/index.html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, cleanup, err := bootstrap.Application(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		srv := server.NewServer(serverConfig(application), dependencies(application), application.Logger)
		errs := srv.Start()

		select {
		case err := <-errs:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		application.Logger.Info("Shutdown signal received", zap.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func serverConfig(application *app.Application) server.Config {
	cfg := application.Config
	config := server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: cfg.Transcription.Timeout + 5*time.Minute,
		IdleTimeout:  120 * time.Second,
		Environment:  cfg.Server.Environment,
	}
	if host != "" {
		config.Host = host
	}
	if port != "" {
		config.Port = port
	}
	return config
}

func dependencies(application *app.Application) server.Dependencies {
	cfg := application.Config

	sentimentModel := "lexicon"
	if cfg.Sentiment.APIURL != "" {
		sentimentModel = cfg.Sentiment.Model
	}

	return server.Dependencies{
		Store:     application.Store,
		Files:     application.Files,
		Processor: application.Orchestrator,
		Gatherer:  application.Registry,
		Policy: services.UploadPolicy{
			AllowedExtensions: cfg.Storage.AllowedExtensions,
			MaxFileSizeBytes:  cfg.MaxFileSizeBytes(),
		},
		Health: handlers.HealthInfo{
			AppName:             appName,
			Version:             version.Version,
			TranscriptionEngine: cfg.Transcription.Engine,
			SentimentModel:      sentimentModel,
		},
	}
}
