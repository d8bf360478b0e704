package services

import (
	"context"
	"io"

	"speech-insight/internal/api/v1/dto"
	"speech-insight/internal/app/model"
	"speech-insight/internal/app/pipeline"
)

// Processor runs the pipeline for one audio record
type Processor interface {
	ProcessAudio(ctx context.Context, audioID string) *pipeline.Result
}

// AudioService defines the interface for audio file operations
type AudioService interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64) (*dto.UploadResponse, error)
	GetAudio(ctx context.Context, id string) (*model.AudioRecord, error)
	ListAudio(ctx context.Context, query dto.ListAudioQuery) (*dto.AudioListResponse, error)
	DeleteAudio(ctx context.Context, id string) error
	// Process starts a background run, or runs inline when sync is set
	Process(ctx context.Context, id string, sync bool) (*dto.ProcessResponse, error)
	// Wait blocks until background runs have finished
	Wait()
}

// AnalysisService defines the interface for reading pipeline results
type AnalysisService interface {
	GetTranscript(ctx context.Context, audioID string) (*model.Transcript, error)
	GetSentiment(ctx context.Context, audioID string) (*dto.SentimentResponse, error)
	GetEntities(ctx context.Context, audioID string, label string) (*dto.EntitiesResponse, error)
	GetSummary(ctx context.Context, audioID string) (*dto.SummaryResponse, error)
	GetFullAnalysis(ctx context.Context, audioID string) (*dto.FullAnalysisResponse, error)
}

// HealthChecker reports whether the database answers
type HealthChecker interface {
	Ping(ctx context.Context) error
}
