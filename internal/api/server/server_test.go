package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-insight/internal/api/v1/handlers"
	"speech-insight/internal/api/v1/services"
	"speech-insight/internal/app/entity"
	"speech-insight/internal/app/lease"
	"speech-insight/internal/app/nlp"
	"speech-insight/internal/app/pipeline"
	"speech-insight/internal/app/repository"
	"speech-insight/internal/app/sentiment"
	"speech-insight/internal/app/storage"
	"speech-insight/internal/app/summary"
	"speech-insight/internal/app/testutil"
	"speech-insight/internal/config"
)

type testServer struct {
	*Server
	store  *repository.SQLStore
	files  *storage.LocalStore
	engine *testutil.StubEngine
}

func newTestServer(t *testing.T, text string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		store:  testutil.NewSQLiteStore(t),
		files:  testutil.NewLocalStore(t),
		engine: &testutil.StubEngine{Response: testutil.ResponseFor(text, 6)},
	}
	registry := prometheus.NewRegistry()
	orchestrator := pipeline.NewOrchestrator(
		ts.store,
		ts.files,
		ts.engine,
		sentiment.NewAggregator(sentiment.LexiconClassifier{}, 2, nil),
		entity.NewExtractor(nlp.BasicPipeline{}, nil),
		summary.NewAnalyzer(nlp.BasicPipeline{}, nil),
		lease.NewMemoryLocker(),
		pipeline.NewMetrics(registry),
		nil,
		pipeline.Options{},
	)
	ts.Server = NewServer(Config{Host: "127.0.0.1", Port: "0"}, Dependencies{
		Store:     ts.store,
		Files:     ts.files,
		Processor: orchestrator,
		Gatherer:  registry,
		Policy: services.UploadPolicy{
			AllowedExtensions: config.DefaultAllowedExtensions,
			MaxFileSizeBytes:  1024,
		},
		Health: handlers.HealthInfo{AppName: "speech-insight", Version: "test", TranscriptionEngine: "stub"},
	}, nil)
	return ts
}

func (ts *testServer) do(t *testing.T, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ts.Router().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) upload(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return ts.do(t, http.MethodPost, "/api/v1/audio/upload", &buf, writer.FormDataContentType())
}

func (ts *testServer) uploadID(t *testing.T) string {
	t.Helper()
	rec := ts.upload(t, "call.wav", []byte("RIFF fake audio"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["id"].(string)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestUploadAndList(t *testing.T) {
	ts := newTestServer(t, testutil.RefundCallText)

	rec := ts.upload(t, "Customer Call.WAV", []byte("RIFF fake audio"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Customer Call.WAV", body["original_filename"])
	assert.Equal(t, "wav", body["format"])
	assert.Equal(t, "pending", body["status"])
	assert.EqualValues(t, 15, body["file_size_bytes"])
	assert.True(t, strings.HasSuffix(body["filename"].(string), ".wav"))
	id := body["id"].(string)

	rec = ts.do(t, http.MethodGet, "/api/v1/audio", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
	list := decode(t, rec)
	assert.EqualValues(t, 20, list["limit"])
	files := list["files"].([]interface{})
	require.Len(t, files, 1)
	assert.Equal(t, id, files[0].(map[string]interface{})["id"])

	rec = ts.do(t, http.MethodGet, "/api/v1/audio?status=completed", nil, "")
	assert.Equal(t, "0", rec.Header().Get("X-Total-Count"))

	rec = ts.do(t, http.MethodGet, "/api/v1/audio?limit=101", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/audio/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", decode(t, rec)["status"])
}

func TestUpload_Rejections(t *testing.T) {
	ts := newTestServer(t, "hello")

	rec := ts.upload(t, "notes.txt", []byte("text"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "Unsupported file format")

	rec = ts.upload(t, "big.mp3", bytes.Repeat([]byte{1}, 2048))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/audio/upload", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodGet, "/api/v1/audio", nil, "")
	assert.Equal(t, "0", rec.Header().Get("X-Total-Count"))
}

func TestProcessSync_AndAnalysisRoutes(t *testing.T) {
	ts := newTestServer(t, testutil.SupportCallText)
	id := ts.uploadID(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/analysis/"+id+"/transcript", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transcript not found", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodPost, "/api/v1/audio/"+id+"/process?sync=true", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Processing complete", body["message"])
	assert.Equal(t, id, body["audio_id"])
	assert.Equal(t, "en", body["language"])
	assert.Equal(t, testutil.SupportCallText[:200]+"...", body["transcript_preview"])
	assert.NotZero(t, body["entities_found"])

	rec = ts.do(t, http.MethodPost, "/api/v1/audio/"+id+"/process?sync=true", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File has already been processed", decode(t, rec)["message"])
	assert.Equal(t, 1, ts.engine.Calls())

	rec = ts.do(t, http.MethodGet, "/api/v1/analysis/"+id+"/transcript", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testutil.SupportCallText, decode(t, rec)["full_text"])

	rec = ts.do(t, http.MethodGet, "/api/v1/analysis/"+id+"/sentiment", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	sentimentBody := decode(t, rec)
	assert.Contains(t, []interface{}{"positive", "negative", "neutral"}, sentimentBody["overall_sentiment"])
	assert.Len(t, sentimentBody["segment_sentiments"], 1)

	rec = ts.do(t, http.MethodGet, "/api/v1/analysis/"+id+"/entities?label=money", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	entities := decode(t, rec)
	assert.Equal(t, map[string]interface{}{"MONEY": float64(1)}, entities["entity_counts"])
	assert.Equal(t, "$49.99", entities["entities"].([]interface{})[0].(map[string]interface{})["text"])

	rec = ts.do(t, http.MethodGet, "/api/v1/analysis/"+id+"/summary", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	summaryBody := decode(t, rec)
	assert.NotEmpty(t, summaryBody["summary"])
	assert.Contains(t, summaryBody["topics"], "billing")
	assert.Contains(t, summaryBody["topics"], "refund")

	rec = ts.do(t, http.MethodGet, "/api/v1/analysis/"+id+"/full", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	full := decode(t, rec)
	assert.Equal(t, true, full["processing_complete"])
	assert.Equal(t, "completed", full["audio"].(map[string]interface{})["status"])
	for _, part := range []string{"transcript", "sentiment", "entities", "summary"} {
		assert.Contains(t, full, part)
	}
}

func TestProcessAsync(t *testing.T) {
	ts := newTestServer(t, testutil.RefundCallText)
	id := ts.uploadID(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/audio/"+id+"/process", nil, "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "Processing started", decode(t, rec)["message"])

	ts.audio.Wait()

	rec = ts.do(t, http.MethodGet, "/api/v1/analysis/"+id+"/full", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	full := decode(t, rec)
	assert.Equal(t, true, full["processing_complete"])
	assert.Equal(t, []interface{}{"technical", "shipping", "refund"}, full["summary"].(map[string]interface{})["topics"])
}

func TestProcess_Errors(t *testing.T) {
	ts := newTestServer(t, "hello")

	rec := ts.do(t, http.MethodPost, "/api/v1/audio/"+uuid.NewString()+"/process", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Audio file not found", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodPost, "/api/v1/audio/not-a-uuid/process", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must be a UUID", decode(t, rec)["details"].(map[string]interface{})["id"])

	id := ts.uploadID(t)
	require.NoError(t, ts.store.MarkFailed(context.Background(), id, "old failure"))
	_, err := ts.store.MarkProcessing(context.Background(), id)
	require.NoError(t, err)

	rec = ts.do(t, http.MethodPost, "/api/v1/audio/"+id+"/process", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File is already being processed", decode(t, rec)["message"])
}

func TestProcessSync_PipelineFailure(t *testing.T) {
	ts := newTestServer(t, "hello")
	ts.engine.Err = errors.New("whisper server unreachable")
	id := ts.uploadID(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/audio/"+id+"/process?sync=true", nil, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "whisper server unreachable", decode(t, rec)["message"])

	rec = ts.do(t, http.MethodGet, "/api/v1/audio/"+id, nil, "")
	body := decode(t, rec)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "whisper server unreachable", body["error_message"])

	ts.engine.Err = nil
	rec = ts.do(t, http.MethodPost, "/api/v1/audio/"+id+"/process?sync=true", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDelete(t *testing.T) {
	ts := newTestServer(t, testutil.RefundCallText)
	id := ts.uploadID(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/v1/audio/"+id+"/process?sync=true", nil, "").Code)

	record, err := ts.store.GetAudio(context.Background(), id)
	require.NoError(t, err)

	rec := ts.do(t, http.MethodDelete, "/api/v1/audio/"+id, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = os.Stat(record.FilePath)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/v1/audio/"+id, nil, "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/v1/analysis/"+id+"/full", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, "/api/v1/audio/"+id, nil, "").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, "hello")

	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := ts.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "connected", body["database"])
		assert.Equal(t, "test", body["version"])
	}

	id := ts.uploadID(t)
	ts.do(t, http.MethodPost, "/api/v1/audio/"+id+"/process?sync=true", nil, "")
	rec := ts.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `speech_insight_pipeline_runs_total{outcome="succeeded"} 1`)

	require.NoError(t, ts.store.Close())
	rec = ts.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "disconnected", decode(t, rec)["database"])
}

func TestStartAndShutdown(t *testing.T) {
	ts := newTestServer(t, "hello")
	errs := ts.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, ts.Shutdown(ctx))

	_, open := <-errs
	assert.False(t, open)
	assert.Equal(t, "127.0.0.1:0", ts.httpServer.Addr)
}
