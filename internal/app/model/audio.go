package model

import "time"

// Status is the processing state of an uploaded recording
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Runnable reports whether a pipeline run may start from this status
func (s Status) Runnable() bool {
	return s != StatusProcessing && s != StatusCompleted
}

// AudioRecord is an uploaded audio file and its processing state.
// ProcessedAt is only set once the record reaches StatusCompleted.
type AudioRecord struct {
	ID               string     `json:"id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	FilePath         string     `json:"file_path"`
	FileSizeBytes    int64      `json:"file_size_bytes"`
	DurationSeconds  *float64   `json:"duration_seconds,omitempty"`
	SampleRate       *int       `json:"sample_rate,omitempty"`
	Channels         *int       `json:"channels,omitempty"`
	Format           string     `json:"format,omitempty"`
	Status           Status     `json:"status"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
}
