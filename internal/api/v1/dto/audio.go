package dto

import (
	"speech-insight/internal/app/model"
)

// UploadResponse is returned after an audio file was stored
type UploadResponse struct {
	ID               string       `json:"id"`
	Filename         string       `json:"filename"`
	OriginalFilename string       `json:"original_filename"`
	FileSizeBytes    int64        `json:"file_size_bytes"`
	Format           string       `json:"format"`
	Status           model.Status `json:"status"`
	Message          string       `json:"message"`
}

// AudioPath is the :id path parameter of the audio and analysis routes
type AudioPath struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ProcessQuery selects between a background and an inline pipeline run
type ProcessQuery struct {
	Sync bool `form:"sync,default=false"`
}

// ProcessResponse reports a started or finished pipeline run.
// Only Message, AudioID and Status are set for background runs.
type ProcessResponse struct {
	Message               string       `json:"message"`
	AudioID               string       `json:"audio_id"`
	Status                model.Status `json:"status,omitempty"`
	TranscriptPreview     string       `json:"transcript_preview,omitempty"`
	Language              string       `json:"language,omitempty"`
	Sentiment             string       `json:"sentiment,omitempty"`
	EntitiesFound         int          `json:"entities_found"`
	ProcessingTimeSeconds float64      `json:"processing_time_seconds"`
}

// ListAudioQuery represents query parameters for listing audio files
type ListAudioQuery struct {
	Skip   int    `form:"skip,default=0" binding:"min=0"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=pending processing completed failed"`
}

// AudioListResponse is one page of audio files plus the total matching the filter
type AudioListResponse struct {
	Files []model.AudioRecord `json:"files"`
	Total int                 `json:"total"`
	Skip  int                 `json:"skip"`
	Limit int                 `json:"limit"`
}
