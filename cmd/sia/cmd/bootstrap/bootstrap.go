// Package bootstrap builds the application shared by the sia subcommands.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"speech-insight/internal/app"
	"speech-insight/internal/app/logging"
	"speech-insight/internal/config"
)

var (
	// Verbose switches to the development logger
	Verbose bool
	// ConfigFile is the optional YAML configuration file
	ConfigFile string
)

// LoadConfig reads .env, then the config file and the environment
func LoadConfig() (*config.Config, error) {
	if _, err := config.LoadEnv(); err != nil {
		return nil, err
	}
	return config.Load(ConfigFile)
}

// NewLogger returns the logger for cfg, verbose output forcing development mode
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(Verbose || cfg.IsDevelopment())
}

// Application loads configuration and wires the application. The returned
// cleanup must be called once the command is done.
func Application(ctx context.Context) (*app.Application, func(), error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	application, cleanup, err := app.InitializeApplication(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return application, func() {
		cleanup()
		_ = logger.Sync()
	}, nil
}
