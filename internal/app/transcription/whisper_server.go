package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WhisperServerConfig configures a whisper.cpp server endpoint
type WhisperServerConfig struct {
	BaseURL       string            `yaml:"base_url"`
	InferencePath string            `yaml:"inference_path"`
	Timeout       time.Duration     `yaml:"timeout"`
	Language      string            `yaml:"language"`
	Temperature   float64           `yaml:"temperature"`
	CustomHeaders map[string]string `yaml:"custom_headers"`
}

// WhisperServerEngine transcribes through the whisper.cpp HTTP server
type WhisperServerEngine struct {
	config WhisperServerConfig
	client *http.Client
}

var _ Engine = (*WhisperServerEngine)(nil)

type whisperServerResponse struct {
	Text                        string                 `json:"text,omitempty"`
	Task                        string                 `json:"task,omitempty"`
	Language                    string                 `json:"language,omitempty"`
	Duration                    float64                `json:"duration,omitempty"`
	Segments                    []whisperServerSegment `json:"segments,omitempty"`
	DetectedLanguage            string                 `json:"detected_language,omitempty"`
	DetectedLanguageProbability float64                `json:"detected_language_probability,omitempty"`
}

type whisperServerSegment struct {
	ID    int                 `json:"id"`
	Text  string              `json:"text"`
	Start float64             `json:"start"`
	End   float64             `json:"end"`
	Words []whisperServerWord `json:"words,omitempty"`
}

type whisperServerWord struct {
	Word        string   `json:"word"`
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Probability *float64 `json:"probability,omitempty"`
}

// languageCodes maps the language names whisper.cpp reports to ISO codes
var languageCodes = map[string]string{
	"english": "en", "spanish": "es", "french": "fr", "german": "de", "italian": "it",
	"portuguese": "pt", "dutch": "nl", "chinese": "zh", "japanese": "ja", "korean": "ko",
	"russian": "ru", "arabic": "ar", "hindi": "hi",
}

// NewWhisperServerEngine creates an engine with defaults for unset fields
func NewWhisperServerEngine(config WhisperServerConfig) *WhisperServerEngine {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Minute
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &WhisperServerEngine{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Name implements Engine
func (e *WhisperServerEngine) Name() string {
	return "whisper_server"
}

// Transcribe implements Engine
func (e *WhisperServerEngine) Transcribe(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || (req.FilePath == "" && req.Reader == nil) {
		return nil, &Error{Code: "invalid_input", Message: "audio input is required", Engine: e.Name()}
	}

	body, contentType, err := e.createMultipartForm(req)
	if err != nil {
		return nil, &Error{Code: "form_creation_failed", Message: err.Error(), Engine: e.Name()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.BaseURL+e.config.InferencePath, body)
	if err != nil {
		return nil, &Error{Code: "request_creation_failed", Message: err.Error(), Engine: e.Name()}
	}
	httpReq.Header.Set("Content-Type", contentType)
	for key, value := range e.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, &Error{
			Code:      "request_failed",
			Message:   fmt.Sprintf("HTTP request failed: %v", err),
			Engine:    e.Name(),
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: "response_read_failed", Message: err.Error(), Engine: e.Name(), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Code:      "api_error",
			Message:   fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(data)),
			Engine:    e.Name(),
			Retryable: resp.StatusCode >= 500,
		}
	}

	var parsed whisperServerResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &Error{Code: "response_parse_failed", Message: err.Error(), Engine: e.Name()}
	}

	return e.toResponse(&parsed), nil
}

func (e *WhisperServerEngine) createMultipartForm(req *Request) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	audio := req.Reader
	if audio == nil {
		file, err := os.Open(req.FilePath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()
		audio = file
	}

	filename := filepath.Base(req.FilePath)
	if filename == "." || filename == "/" {
		filename = "audio"
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}

	params := map[string]string{
		"response_format": "verbose_json",
		"temperature":     fmt.Sprintf("%.2f", e.config.Temperature),
	}
	language := req.Language
	if language == "" {
		language = e.config.Language
	}
	if language != "" {
		params["language"] = language
	}
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func (e *WhisperServerEngine) toResponse(parsed *whisperServerResponse) *Response {
	language := parsed.DetectedLanguage
	if language == "" {
		language = parsed.Language
		if code, ok := languageCodes[strings.ToLower(language)]; ok {
			language = code
		}
	}

	out := &Response{
		Text:                parsed.Text,
		Language:            language,
		LanguageProbability: parsed.DetectedLanguageProbability,
		Duration:            parsed.Duration,
		Segments:            make([]Segment, 0, len(parsed.Segments)),
	}
	for _, seg := range parsed.Segments {
		s := Segment{ID: seg.ID, Text: seg.Text, Start: seg.Start, End: seg.End}
		for _, w := range seg.Words {
			s.Words = append(s.Words, Word{Word: w.Word, Start: w.Start, End: w.End, Probability: w.Probability})
		}
		out.Segments = append(out.Segments, s)
	}
	return out
}
