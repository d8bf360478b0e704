package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"speech-insight/internal/app/lease"
	"speech-insight/internal/app/nlp"
	"speech-insight/internal/app/pipeline"
	"speech-insight/internal/app/repository"
	"speech-insight/internal/app/repository/pg"
	"speech-insight/internal/app/repository/sqlite"
	"speech-insight/internal/app/sentiment"
	"speech-insight/internal/app/storage"
	"speech-insight/internal/app/transcription"
	"speech-insight/internal/config"
)

// Application bundles the long-lived components shared by the CLI commands and the API server
type Application struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        repository.Store
	Files        storage.FileStore
	Orchestrator *pipeline.Orchestrator
	Registry     *prometheus.Registry
}

// NewApplication assembles an Application
func NewApplication(
	cfg *config.Config,
	logger *zap.Logger,
	store repository.Store,
	files storage.FileStore,
	orchestrator *pipeline.Orchestrator,
	registry *prometheus.Registry,
) *Application {
	return &Application{
		Config:       cfg,
		Logger:       logger,
		Store:        store,
		Files:        files,
		Orchestrator: orchestrator,
		Registry:     registry,
	}
}

// ProvideStore opens the database selected by DATABASE_URL
func ProvideStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	driver, dsn := cfg.DatabaseBackend()

	var (
		store *repository.SQLStore
		err   error
	)
	switch driver {
	case "postgres":
		store, err = pg.Open(ctx, dsn)
	default:
		store, err = sqlite.Open(ctx, dsn)
	}
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Database ready", zap.String("driver", driver))
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

// ProvideFileStore creates the storage backend for uploaded audio
func ProvideFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, error) {
	switch cfg.Storage.Backend {
	case "minio":
		m := cfg.Storage.MinIO
		return storage.NewMinIOStore(ctx, storage.MinIOConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			UseSSL:    m.UseSSL,
		})
	case "local", "":
		return storage.NewLocalStore(cfg.Storage.UploadDir)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

// ProvideEngine creates the configured speech-to-text engine
func ProvideEngine(cfg *config.Config) (transcription.Engine, error) {
	t := cfg.Transcription
	switch t.Engine {
	case "openai":
		return transcription.NewOpenAIEngine(transcription.OpenAIConfig{
			APIKey:   t.OpenAIAPIKey,
			BaseURL:  t.OpenAIBaseURL,
			Model:    t.Model,
			Language: t.Language,
		})
	case "whisper_server", "":
		return transcription.NewWhisperServerEngine(transcription.WhisperServerConfig{
			BaseURL:  t.WhisperServerURL,
			Timeout:  t.Timeout,
			Language: t.Language,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported transcription engine %q", t.Engine)
	}
}

// ProvideClassifier uses the hosted sentiment model when SENTIMENT_API_URL is set
// and the offline lexicon otherwise
func ProvideClassifier(cfg *config.Config, logger *zap.Logger) (sentiment.Classifier, error) {
	s := cfg.Sentiment
	if s.APIURL == "" {
		logger.Info("SENTIMENT_API_URL not set, using the lexicon classifier")
		return sentiment.LexiconClassifier{}, nil
	}
	return sentiment.NewHTTPClassifier(sentiment.HTTPClassifierConfig{
		URL:            s.APIURL,
		Model:          s.Model,
		Token:          s.APIToken,
		Timeout:        s.Timeout,
		MaxElapsedTime: s.MaxElapsedTime,
	})
}

// ProvideAggregator wraps the classifier with the configured worker count
func ProvideAggregator(classifier sentiment.Classifier, cfg *config.Config, logger *zap.Logger) *sentiment.Aggregator {
	return sentiment.NewAggregator(classifier, cfg.Sentiment.Workers, logger)
}

// ProvideNLPPipeline uses the remote parse service when NLP_API_URL is set
func ProvideNLPPipeline(cfg *config.Config, logger *zap.Logger) (nlp.Pipeline, error) {
	n := cfg.NLP
	if n.APIURL == "" {
		logger.Info("NLP_API_URL not set, using the rule-based pipeline")
		return nlp.BasicPipeline{}, nil
	}
	return nlp.NewHTTPPipeline(nlp.HTTPPipelineConfig{
		BaseURL:        n.APIURL,
		Token:          n.APIToken,
		Timeout:        n.Timeout,
		MaxElapsedTime: n.MaxElapsedTime,
	})
}

// ProvideLocker shares pipeline leases through Redis when REDIS_ADDR is set
func ProvideLocker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (lease.Locker, func(), error) {
	if cfg.Redis.Addr == "" {
		return lease.NewMemoryLocker(), func() {}, nil
	}
	client, err := lease.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using Redis pipeline leases", zap.String("addr", cfg.Redis.Addr))
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	return lease.NewRedisLocker(client), cleanup, nil
}

// ProvideRegistry creates the Prometheus registry served on /metrics
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvidePipelineOptions maps the configuration onto orchestrator options
func ProvidePipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Language: cfg.Transcription.Language,
		LeaseTTL: cfg.Pipeline.LeaseTTL,
	}
}
