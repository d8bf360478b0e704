package transcription

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the hosted Whisper API
type OpenAIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

// OpenAIEngine transcribes with the OpenAI audio API
type OpenAIEngine struct {
	client   *openai.Client
	model    string
	language string
}

var _ Engine = (*OpenAIEngine)(nil)

// NewOpenAIEngine creates an engine for config; the API key is required
func NewOpenAIEngine(config OpenAIConfig) (*OpenAIEngine, error) {
	if config.APIKey == "" {
		return nil, &Error{Code: "missing_api_key", Message: "OPENAI_API_KEY is required", Engine: "openai"}
	}
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	model := config.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIEngine{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		language: config.Language,
	}, nil
}

// Name implements Engine
func (e *OpenAIEngine) Name() string {
	return "openai"
}

// Transcribe implements Engine
func (e *OpenAIEngine) Transcribe(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || (req.FilePath == "" && req.Reader == nil) {
		return nil, &Error{Code: "invalid_input", Message: "audio input is required", Engine: e.Name()}
	}

	language := req.Language
	if language == "" {
		language = e.language
	}
	audioReq := openai.AudioRequest{
		Model:    e.model,
		FilePath: req.FilePath,
		Reader:   req.Reader,
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
			openai.TranscriptionTimestampGranularitySegment,
		},
	}

	resp, err := e.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return nil, &Error{
			Code:      "api_error",
			Message:   fmt.Sprintf("createTranscription failed: %v", err),
			Engine:    e.Name(),
			Retryable: true,
		}
	}

	out := &Response{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
		Segments: make([]Segment, 0, len(resp.Segments)),
	}
	if code, ok := languageCodes[strings.ToLower(resp.Language)]; ok {
		out.Language = code
	}

	for _, seg := range resp.Segments {
		out.Segments = append(out.Segments, Segment{ID: seg.ID, Text: seg.Text, Start: seg.Start, End: seg.End})
	}

	// Words come back as one flat list; attach each to the segment it starts in.
	for _, w := range resp.Words {
		word := Word{Word: w.Word, Start: w.Start, End: w.End}
		if i := segmentFor(out.Segments, w.Start); i >= 0 {
			out.Segments[i].Words = append(out.Segments[i].Words, word)
		}
	}
	return out, nil
}

func segmentFor(segments []Segment, at float64) int {
	for i, seg := range segments {
		last := i == len(segments)-1
		if at >= seg.Start && (at < seg.End || (last && at <= seg.End)) {
			return i
		}
	}
	return -1
}
