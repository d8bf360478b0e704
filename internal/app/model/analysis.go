package model

import "time"

// SentimentLabel is the canonical three-way sentiment vocabulary
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// SentimentScores holds one probability per canonical label.
// The values are not required to sum to 1.
type SentimentScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// SegmentSentiment is the sentiment of a single transcript segment
type SegmentSentiment struct {
	Text       string          `json:"text"`
	Start      float64         `json:"start"`
	End        float64         `json:"end"`
	Sentiment  SentimentLabel  `json:"sentiment"`
	Confidence float64         `json:"confidence"`
	Scores     SentimentScores `json:"scores"`
}

// Analysis is the NLP result set derived from a Transcript
type Analysis struct {
	ID                    string             `json:"id"`
	TranscriptID          string             `json:"transcript_id"`
	OverallSentiment      SentimentLabel     `json:"overall_sentiment"`
	SentimentConfidence   float64            `json:"sentiment_confidence"`
	PositiveScore         float64            `json:"positive_score"`
	NegativeScore         float64            `json:"negative_score"`
	NeutralScore          float64            `json:"neutral_score"`
	SegmentSentiments     []SegmentSentiment `json:"segment_sentiments,omitempty"`
	Summary               string             `json:"summary"`
	KeyPhrases            []string           `json:"key_phrases"`
	ActionItems           []string           `json:"action_items"`
	Topics                []string           `json:"topics"`
	ProcessingTimeSeconds float64            `json:"processing_time_seconds"`
	CreatedAt             time.Time          `json:"created_at"`
}

// Entity is a named entity span in a Transcript's full text
type Entity struct {
	ID           string    `json:"id"`
	TranscriptID string    `json:"transcript_id"`
	Text         string    `json:"text"`
	Label        string    `json:"label"`
	StartChar    int       `json:"start_char"`
	EndChar      int       `json:"end_char"`
	Confidence   float64   `json:"confidence"`
	CreatedAt    time.Time `json:"created_at"`
}
