package dto

// HealthResponse is the body of the health endpoints
type HealthResponse struct {
	Status              string `json:"status"`
	AppName             string `json:"app_name"`
	Version             string `json:"version"`
	TranscriptionEngine string `json:"transcription_engine"`
	SentimentModel      string `json:"sentiment_model"`
	Database            string `json:"database"`
	Timestamp           int64  `json:"timestamp"`
}
