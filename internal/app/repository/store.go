package repository

import (
	"context"
	"time"

	"speech-insight/internal/app/model"
)

// DefaultListLimit and MaxListLimit bound AudioFilter.Limit
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// AudioFilter selects a page of audio records, newest first
type AudioFilter struct {
	Skip   int
	Limit  int
	Status model.Status
}

// Run is everything one successful pipeline run persists
type Run struct {
	AudioID     string
	Transcript  *model.Transcript
	Analysis    *model.Analysis
	Entities    []model.Entity
	CompletedAt time.Time
}

// Store persists audio records and their derived results.
// Getters return (nil, nil) when the row does not exist.
type Store interface {
	Close() error
	Ping(ctx context.Context) error

	CreateAudio(ctx context.Context, record *model.AudioRecord) error
	GetAudio(ctx context.Context, id string) (*model.AudioRecord, error)
	ListAudio(ctx context.Context, filter AudioFilter) ([]model.AudioRecord, int, error)
	// DeleteAudio removes the record and everything derived from it; false when absent
	DeleteAudio(ctx context.Context, id string) (bool, error)

	// MarkProcessing moves a runnable record to processing.
	// It returns false without changes when the record is processing or completed.
	MarkProcessing(ctx context.Context, id string) (bool, error)
	MarkFailed(ctx context.Context, id string, message string) error
	// CommitRun writes the run's rows and completes the record in one transaction
	CommitRun(ctx context.Context, run *Run) error

	GetTranscriptByAudio(ctx context.Context, audioID string) (*model.Transcript, error)
	GetAnalysisByTranscript(ctx context.Context, transcriptID string) (*model.Analysis, error)
	ListEntities(ctx context.Context, transcriptID string, label string) ([]model.Entity, error)
}
