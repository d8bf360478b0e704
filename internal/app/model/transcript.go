package model

import "time"

// WordTimestamp is a single recognised word with its offsets in seconds
type WordTimestamp struct {
	Word       string   `json:"word"`
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Segment is a time-bounded span of transcript text
type Segment struct {
	ID    int             `json:"id"`
	Text  string          `json:"text"`
	Start float64         `json:"start"`
	End   float64         `json:"end"`
	Words []WordTimestamp `json:"words,omitempty"`
}

// Transcript is the speech-to-text output for one AudioRecord
type Transcript struct {
	ID                    string          `json:"id"`
	AudioFileID           string          `json:"audio_file_id"`
	FullText              string          `json:"full_text"`
	Language              string          `json:"language"`
	LanguageProbability   float64         `json:"language_probability"`
	Segments              []Segment       `json:"segments"`
	WordTimestamps        []WordTimestamp `json:"word_timestamps,omitempty"`
	WordCount             int             `json:"word_count"`
	ProcessingTimeSeconds float64         `json:"processing_time_seconds"`
	CreatedAt             time.Time       `json:"created_at"`
}
