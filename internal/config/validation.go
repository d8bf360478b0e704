package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > time.Hour {
		return fmt.Errorf("%s timeout too large (max 1 hour)", name)
	}
	return nil
}

// ValidateConcurrency validates concurrency setting
func ValidateConcurrency(concurrency int, name string) error {
	if concurrency <= 0 {
		return fmt.Errorf("%s concurrency must be positive", name)
	}
	if concurrency > 100 {
		return fmt.Errorf("%s concurrency too high (max 100)", name)
	}
	return nil
}

// ValidateURL validates URL format
func ValidateURL(raw string, name string) error {
	if raw == "" {
		return fmt.Errorf("%s URL is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}
	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s port invalid", name)
	}
	return nil
}

// ValidateSizeMB validates a size limit in megabytes
func ValidateSizeMB(size int, name string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	if size > 2048 {
		return fmt.Errorf("%s too large (max 2048 MB)", name)
	}
	return nil
}

// Validate checks the whole configuration and returns the first problem found
func (c *Config) Validate() error {
	if err := ValidatePort(c.Server.Port, "API"); err != nil {
		return err
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if err := ValidateSizeMB(c.Storage.MaxFileSizeMB, "MAX_FILE_SIZE_MB"); err != nil {
		return err
	}
	if len(c.Storage.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must not be empty")
	}

	switch c.Storage.Backend {
	case "local":
	case "minio":
		if c.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required for the minio storage backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend %q (want %v)", c.Storage.Backend, []string{"local", "minio"})
	}

	switch c.Transcription.Engine {
	case "whisper_server":
		if err := ValidateURL(c.Transcription.WhisperServerURL, "Whisper server"); err != nil {
			return err
		}
	case "openai":
		if c.Transcription.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai transcription engine")
		}
	default:
		return fmt.Errorf("unsupported transcription engine %q", c.Transcription.Engine)
	}
	if err := ValidateTimeout(c.Transcription.Timeout, "Transcription"); err != nil {
		return err
	}

	if c.Sentiment.APIURL != "" {
		if err := ValidateURL(c.Sentiment.APIURL, "Sentiment API"); err != nil {
			return err
		}
	}
	if err := ValidateConcurrency(c.Sentiment.Workers, "Sentiment"); err != nil {
		return err
	}
	if c.NLP.APIURL != "" {
		if err := ValidateURL(c.NLP.APIURL, "NLP API"); err != nil {
			return err
		}
	}
	if err := ValidateTimeout(c.Pipeline.LeaseTTL, "Pipeline lease"); err != nil {
		return err
	}
	return nil
}

// AllowsExtension reports whether ext (with or without the dot) may be uploaded
func (c *Config) AllowsExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return lo.Contains(c.Storage.AllowedExtensions, ext)
}
