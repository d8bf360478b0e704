package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestBuildTranscript(t *testing.T) {
	resp := &Response{
		Text: "  Hello there.  General Kenobi!  ",
		Segments: []Segment{
			{ID: 7, Text: " Hello there. ", Start: 0.00049, End: 1.23456, Words: []Word{
				{Word: " Hello", Start: 0, End: 0.5, Probability: ptr(0.98765)},
				{Word: " there.", Start: 0.5, End: 1.2345},
			}},
			{ID: 8, Text: "General Kenobi!", Start: 1.23456, End: 2.5},
		},
	}

	tr := BuildTranscript(resp, 1234*time.Millisecond)
	assert.Equal(t, "Hello there.  General Kenobi!", tr.FullText)
	assert.Equal(t, DefaultLanguage, tr.Language)
	assert.Equal(t, DefaultLanguageProbability, tr.LanguageProbability)
	assert.Equal(t, 4, tr.WordCount)
	assert.Equal(t, 1.23, tr.ProcessingTimeSeconds)

	require.Len(t, tr.Segments, 2)
	assert.Equal(t, 0, tr.Segments[0].ID)
	assert.Equal(t, 1, tr.Segments[1].ID)
	assert.Equal(t, "Hello there.", tr.Segments[0].Text)
	assert.Equal(t, 0.0, tr.Segments[0].Start)
	assert.Equal(t, 1.235, tr.Segments[0].End)
	assert.Nil(t, tr.Segments[1].Words)

	require.Len(t, tr.WordTimestamps, 2)
	assert.Equal(t, "Hello", tr.WordTimestamps[0].Word)
	assert.Equal(t, 0.988, *tr.WordTimestamps[0].Confidence)
	assert.Equal(t, 1.0, *tr.WordTimestamps[1].Confidence)
	assert.Equal(t, 1.234, tr.WordTimestamps[1].End)

	t.Run("no words", func(t *testing.T) {
		tr := BuildTranscript(&Response{Text: "hi", Language: "de", LanguageProbability: 0.7,
			Segments: []Segment{{Text: "hi", End: 1}}}, 0)
		assert.Nil(t, tr.WordTimestamps)
		assert.Equal(t, "de", tr.Language)
		assert.Equal(t, 0.7, tr.LanguageProbability)
	})
}

func newWhisperServer(t *testing.T, status int, body interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inference", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(10<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "fake audio", string(content))
		assert.Equal(t, "call.wav", header.Filename)
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		w.WriteHeader(status)
		if s, ok := body.(string); ok {
			w.Write([]byte(s))
			return
		}
		json.NewEncoder(w).Encode(body)
	}))
}

func TestWhisperServerEngine_Transcribe(t *testing.T) {
	ctx := context.Background()

	t.Run("verbose json from reader", func(t *testing.T) {
		server := newWhisperServer(t, http.StatusOK, whisperServerResponse{
			Text:     "Please call me back.",
			Language: "english",
			Segments: []whisperServerSegment{{
				ID: 0, Text: " Please call me back.", Start: 0, End: 2.1,
				Words: []whisperServerWord{{Word: " Please", Start: 0, End: 0.4, Probability: ptr(0.9)}},
			}},
		})
		defer server.Close()

		engine := NewWhisperServerEngine(WhisperServerConfig{BaseURL: server.URL + "/"})
		resp, err := engine.Transcribe(ctx, &Request{FilePath: "uploads/call.wav", Reader: strings.NewReader("fake audio")})
		require.NoError(t, err)
		assert.Equal(t, "en", resp.Language)
		require.Len(t, resp.Segments, 1)
		assert.Equal(t, 0.9, *resp.Segments[0].Words[0].Probability)
	})

	t.Run("reads file from disk", func(t *testing.T) {
		server := newWhisperServer(t, http.StatusOK, whisperServerResponse{
			Text: "ok", DetectedLanguage: "fr", DetectedLanguageProbability: 0.8,
		})
		defer server.Close()

		path := filepath.Join(t.TempDir(), "call.wav")
		require.NoError(t, os.WriteFile(path, []byte("fake audio"), 0o644))

		resp, err := NewWhisperServerEngine(WhisperServerConfig{BaseURL: server.URL}).Transcribe(ctx, &Request{FilePath: path})
		require.NoError(t, err)
		assert.Equal(t, "fr", resp.Language)
		assert.Equal(t, 0.8, resp.LanguageProbability)
	})

	t.Run("server error is retryable", func(t *testing.T) {
		server := newWhisperServer(t, http.StatusInternalServerError, "model crashed")
		defer server.Close()

		_, err := NewWhisperServerEngine(WhisperServerConfig{BaseURL: server.URL}).
			Transcribe(ctx, &Request{FilePath: "call.wav", Reader: strings.NewReader("fake audio")})
		var engineErr *Error
		require.True(t, errors.As(err, &engineErr))
		assert.Equal(t, "api_error", engineErr.Code)
		assert.True(t, engineErr.Retryable)
		assert.Contains(t, err.Error(), "model crashed")
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := NewWhisperServerEngine(WhisperServerConfig{}).Transcribe(ctx, &Request{})
		assert.Error(t, err)
	})
}

func TestOpenAIEngine_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/audio/transcriptions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"task": "transcribe", "language": "english", "duration": 3.0,
			"text": "Hello there. Bye now.",
			"segments": [
				{"id": 0, "start": 0.0, "end": 1.5, "text": " Hello there."},
				{"id": 1, "start": 1.5, "end": 3.0, "text": " Bye now."}
			],
			"words": [
				{"word": "Hello", "start": 0.0, "end": 0.6},
				{"word": "there", "start": 0.6, "end": 1.4},
				{"word": "Bye", "start": 1.5, "end": 2.0},
				{"word": "now", "start": 2.0, "end": 3.0}
			]
		}`))
	}))
	defer server.Close()

	engine, err := NewOpenAIEngine(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	resp, err := engine.Transcribe(context.Background(), &Request{FilePath: "call.mp3", Reader: strings.NewReader("fake audio")})
	require.NoError(t, err)
	assert.Equal(t, "en", resp.Language)
	require.Len(t, resp.Segments, 2)
	assert.Len(t, resp.Segments[0].Words, 2)
	assert.Len(t, resp.Segments[1].Words, 2)
	assert.Equal(t, "now", resp.Segments[1].Words[1].Word)

	_, err = NewOpenAIEngine(OpenAIConfig{})
	assert.Error(t, err)
}
