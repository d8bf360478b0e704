package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, int64(100*1024*1024), cfg.MaxFileSizeBytes())
	assert.Equal(t, []string{"mp3", "wav", "m4a", "flac", "ogg"}, cfg.Storage.AllowedExtensions)
	assert.Equal(t, "whisper_server", cfg.Transcription.Engine)

	driver, dsn := cfg.DatabaseBackend()
	assert.Equal(t, "sqlite3", driver)
	assert.Equal(t, "data/speech_insight.db", dsn)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://user:pw@db:5432/insight?sslmode=disable")
	t.Setenv("MAX_FILE_SIZE_MB", "25")
	t.Setenv("ALLOWED_EXTENSIONS", " .MP3, wav ,")
	t.Setenv("TRANSCRIPTION_ENGINE", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SENTIMENT_WORKERS", "8")
	t.Setenv("PIPELINE_LEASE_TTL", "5m")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"mp3", "wav"}, cfg.Storage.AllowedExtensions)
	assert.True(t, cfg.AllowsExtension(".MP3"))
	assert.False(t, cfg.AllowsExtension("ogg"))
	assert.Equal(t, int64(25*1024*1024), cfg.MaxFileSizeBytes())
	assert.Equal(t, 8, cfg.Sentiment.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Pipeline.LeaseTTL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)

	driver, dsn := cfg.DatabaseBackend()
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, "postgres://user:pw@db:5432/insight?sslmode=disable", dsn)
}

func TestLoad_YAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_MINIO_SECRET", "s3cr3t")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "8081"
storage:
  backend: minio
  minio:
    endpoint: minio:9000
    access_key: admin
    secret_key: ${TEST_MINIO_SECRET}
transcription:
  timeout: 90s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "minio", cfg.Storage.Backend)
	assert.Equal(t, "s3cr3t", cfg.Storage.MinIO.SecretKey)
	assert.Equal(t, DefaultMinIOBucket, cfg.Storage.MinIO.Bucket)
	assert.Equal(t, 90*time.Second, cfg.Transcription.Timeout)

	// Environment overrides the file.
	t.Setenv("API_PORT", "7000")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name          string
		env           map[string]string
		errorContains string
	}{
		{name: "bad int", env: map[string]string{"MAX_FILE_SIZE_MB": "big"}, errorContains: "MAX_FILE_SIZE_MB must be an integer"},
		{name: "bad port", env: map[string]string{"API_PORT": "99999"}, errorContains: "port invalid"},
		{name: "openai without key", env: map[string]string{"TRANSCRIPTION_ENGINE": "openai"}, errorContains: "OPENAI_API_KEY"},
		{name: "unknown engine", env: map[string]string{"TRANSCRIPTION_ENGINE": "vosk"}, errorContains: "unsupported transcription engine"},
		{name: "minio without endpoint", env: map[string]string{"STORAGE_BACKEND": "minio"}, errorContains: "MINIO_ENDPOINT"},
		{name: "bad sentiment url", env: map[string]string{"SENTIMENT_API_URL": "ftp://x"}, errorContains: "Sentiment API URL"},
		{name: "bad duration", env: map[string]string{"PIPELINE_LEASE_TTL": "soon"}, errorContains: "PIPELINE_LEASE_TTL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateTimeout(time.Second, "x"))
	assert.Error(t, ValidateTimeout(0, "x"))
	assert.Error(t, ValidateTimeout(2*time.Hour, "x"))
	assert.NoError(t, ValidateConcurrency(4, "x"))
	assert.Error(t, ValidateConcurrency(101, "x"))
	assert.NoError(t, ValidateURL("http://localhost:8080", "x"))
	assert.Error(t, ValidateURL("localhost:8080", "x"))
	assert.NoError(t, ValidatePort("8000", "x"))
	assert.Error(t, ValidatePort("http", "x"))
	assert.Error(t, ValidateSizeMB(0, "x"))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SIA_TEST_FROM_DOTENV=yes\n"), 0o644))
	t.Setenv("SIA_TEST_FROM_DOTENV", "")
	os.Unsetenv("SIA_TEST_FROM_DOTENV")

	path, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", path)
	assert.Equal(t, "yes", os.Getenv("SIA_TEST_FROM_DOTENV"))
}
