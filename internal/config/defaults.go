package config

import "time"

// Default configuration constants
const (
	// Server defaults
	DefaultAPIHost     = "0.0.0.0"
	DefaultAPIPort     = "8000"
	DefaultEnvironment = "development"

	// Database defaults
	DefaultDatabaseURL = "sqlite://data/speech_insight.db"

	// Storage defaults
	DefaultStorageBackend = "local"
	DefaultUploadDir      = "data/audio_samples"
	DefaultMaxFileSizeMB  = 100
	DefaultMinIOBucket    = "speech-insight-audio"

	// Transcription defaults
	DefaultTranscriptionEngine  = "whisper_server"
	DefaultWhisperServerURL     = "http://localhost:8080"
	DefaultWhisperModel         = "whisper-1"
	DefaultTranscriptionTimeout = 10 * time.Minute

	// Analysis defaults
	DefaultSentimentModel   = "cardiffnlp/twitter-roberta-base-sentiment-latest"
	DefaultSentimentWorkers = 4
	DefaultModelTimeout     = 30 * time.Second
	DefaultModelMaxElapsed  = 2 * time.Minute

	// Pipeline defaults
	DefaultLeaseTTL = 30 * time.Minute
)

// DefaultAllowedExtensions are the accepted upload formats
var DefaultAllowedExtensions = []string{"mp3", "wav", "m4a", "flac", "ogg"}
