package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
// Load applies defaults, then the optional YAML file, then environment variables.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Storage       StorageConfig       `yaml:"storage"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Sentiment     SentimentConfig     `yaml:"sentiment"`
	NLP           NLPConfig           `yaml:"nlp"`
	Redis         RedisConfig         `yaml:"redis"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type StorageConfig struct {
	Backend           string      `yaml:"backend"`
	UploadDir         string      `yaml:"upload_dir"`
	MaxFileSizeMB     int         `yaml:"max_file_size_mb"`
	AllowedExtensions []string    `yaml:"allowed_extensions"`
	MinIO             MinIOConfig `yaml:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type TranscriptionConfig struct {
	// Engine is whisper_server or openai
	Engine           string        `yaml:"engine"`
	WhisperServerURL string        `yaml:"whisper_server_url"`
	Language         string        `yaml:"language"`
	Timeout          time.Duration `yaml:"timeout"`
	OpenAIAPIKey     string        `yaml:"openai_api_key"`
	OpenAIBaseURL    string        `yaml:"openai_base_url"`
	Model            string        `yaml:"model"`
}

type SentimentConfig struct {
	// APIURL empty selects the offline lexicon classifier
	APIURL         string        `yaml:"api_url"`
	APIToken       string        `yaml:"api_token"`
	Model          string        `yaml:"model"`
	Workers        int           `yaml:"workers"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxElapsedTime time.Duration `yaml:"max_elapsed_time"`
}

type NLPConfig struct {
	// APIURL empty selects the offline rule-based pipeline
	APIURL         string        `yaml:"api_url"`
	APIToken       string        `yaml:"api_token"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxElapsedTime time.Duration `yaml:"max_elapsed_time"`
}

type RedisConfig struct {
	// Addr empty keeps pipeline leases in process
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PipelineConfig struct {
	LeaseTTL time.Duration `yaml:"lease_ttl"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        DefaultAPIHost,
			Port:        DefaultAPIPort,
			Environment: DefaultEnvironment,
		},
		Database: DatabaseConfig{URL: DefaultDatabaseURL},
		Storage: StorageConfig{
			Backend:           DefaultStorageBackend,
			UploadDir:         DefaultUploadDir,
			MaxFileSizeMB:     DefaultMaxFileSizeMB,
			AllowedExtensions: append([]string(nil), DefaultAllowedExtensions...),
			MinIO:             MinIOConfig{Bucket: DefaultMinIOBucket},
		},
		Transcription: TranscriptionConfig{
			Engine:           DefaultTranscriptionEngine,
			WhisperServerURL: DefaultWhisperServerURL,
			Timeout:          DefaultTranscriptionTimeout,
			Model:            DefaultWhisperModel,
		},
		Sentiment: SentimentConfig{
			Model:          DefaultSentimentModel,
			Workers:        DefaultSentimentWorkers,
			Timeout:        DefaultModelTimeout,
			MaxElapsedTime: DefaultModelMaxElapsed,
		},
		NLP: NLPConfig{
			Timeout:        DefaultModelTimeout,
			MaxElapsedTime: DefaultModelMaxElapsed,
		},
		Pipeline: PipelineConfig{LeaseTTL: DefaultLeaseTTL},
	}
}

// Load builds the configuration. path may be empty; ${VAR} references in the file are expanded.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(os.ExpandEnv(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Host, "API_HOST")
	setString(&c.Server.Port, "API_PORT")
	setString(&c.Server.Environment, "ENVIRONMENT")

	setString(&c.Database.URL, "DATABASE_URL")

	setString(&c.Storage.Backend, "STORAGE_BACKEND")
	setString(&c.Storage.UploadDir, "UPLOAD_DIR")
	setList(&c.Storage.AllowedExtensions, "ALLOWED_EXTENSIONS")
	setString(&c.Storage.MinIO.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Storage.MinIO.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Storage.MinIO.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Storage.MinIO.Bucket, "MINIO_BUCKET")

	setString(&c.Transcription.Engine, "TRANSCRIPTION_ENGINE")
	setString(&c.Transcription.WhisperServerURL, "WHISPER_SERVER_URL")
	setString(&c.Transcription.Language, "TRANSCRIPTION_LANGUAGE")
	setString(&c.Transcription.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.Transcription.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&c.Transcription.Model, "WHISPER_MODEL")

	setString(&c.Sentiment.APIURL, "SENTIMENT_API_URL")
	setString(&c.Sentiment.APIToken, "SENTIMENT_API_TOKEN")
	setString(&c.Sentiment.Model, "SENTIMENT_MODEL")

	setString(&c.NLP.APIURL, "NLP_API_URL")
	c.NLP.APIToken = getEnvOrDefault("NLP_API_TOKEN", c.NLP.APIToken)

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")

	parsers := []func() error{
		func() error { return setInt(&c.Storage.MaxFileSizeMB, "MAX_FILE_SIZE_MB") },
		func() error { return setBool(&c.Storage.MinIO.UseSSL, "MINIO_USE_SSL") },
		func() error { return setDuration(&c.Transcription.Timeout, "TRANSCRIPTION_TIMEOUT") },
		func() error { return setInt(&c.Sentiment.Workers, "SENTIMENT_WORKERS") },
		func() error { return setInt(&c.Redis.DB, "REDIS_DB") },
		func() error { return setDuration(&c.Pipeline.LeaseTTL, "PIPELINE_LEASE_TTL") },
	}
	for _, parse := range parsers {
		if err := parse(); err != nil {
			return err
		}
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "" || c.Server.Environment == DefaultEnvironment
}

// Addr is the HTTP listen address
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// MaxFileSizeBytes is the upload limit in bytes
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Storage.MaxFileSizeMB) * 1024 * 1024
}

// DatabaseBackend splits DATABASE_URL into a driver name and its DSN.
// postgres:// and postgresql:// URLs select PostgreSQL; sqlite://path or a bare path select SQLite.
func (c *Config) DatabaseBackend() (driver string, dsn string) {
	url := strings.TrimSpace(c.Database.URL)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres", url
	case strings.HasPrefix(url, "sqlite://"):
		return "sqlite3", strings.TrimPrefix(url, "sqlite://")
	default:
		return "sqlite3", url
	}
}
