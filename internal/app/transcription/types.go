package transcription

import (
	"context"
	"fmt"
	"io"
)

// Request describes one audio file to transcribe.
// Reader, when set, supplies the audio; FilePath then only names it.
type Request struct {
	FilePath string
	Reader   io.Reader
	Language string
}

// Word is a recognised word as reported by an engine
type Word struct {
	Word        string   `json:"word"`
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Probability *float64 `json:"probability,omitempty"`
}

// Segment is a timed span as reported by an engine
type Segment struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words,omitempty"`
}

// Response is the raw output of an engine
type Response struct {
	Text                string    `json:"text"`
	Language            string    `json:"language"`
	LanguageProbability float64   `json:"language_probability,omitempty"`
	Duration            float64   `json:"duration,omitempty"`
	Segments            []Segment `json:"segments"`
}

// Engine converts speech to timed text
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, req *Request) (*Response, error)
}

// Error represents an engine failure
type Error struct {
	Code      string
	Message   string
	Engine    string
	Retryable bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Engine, e.Message, e.Code)
}
