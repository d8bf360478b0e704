package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "speech-insight/internal/app/errors"
	"speech-insight/internal/app/httpx"
)

// DefaultInferenceBaseURL is the hosted inference endpoint used when no URL is configured
const DefaultInferenceBaseURL = "https://api-inference.huggingface.co/models/"

// HTTPClassifierConfig configures a remote text-classification endpoint
type HTTPClassifierConfig struct {
	URL            string
	Model          string
	Token          string
	Timeout        time.Duration
	MaxElapsedTime time.Duration
}

// HTTPClassifier calls a hosted sequence-classification model
type HTTPClassifier struct {
	url    string
	client *httpx.JSONClient
}

var _ Classifier = (*HTTPClassifier)(nil)

// NewHTTPClassifier creates a classifier for config.URL, or the hosted endpoint of config.Model
func NewHTTPClassifier(config HTTPClassifierConfig) (*HTTPClassifier, error) {
	url := strings.TrimSpace(config.URL)
	if url == "" {
		if config.Model == "" {
			return nil, apperrors.ErrMissingConfig.With(fmt.Errorf("sentiment endpoint or model name required"))
		}
		url = DefaultInferenceBaseURL + config.Model
	}
	return &HTTPClassifier{
		url:    url,
		client: httpx.NewJSONClient(config.Token, config.Timeout, config.MaxElapsedTime),
	}, nil
}

type inferenceRequest struct {
	Inputs  string          `json:"inputs"`
	Options map[string]bool `json:"options,omitempty"`
}

// Classify implements Classifier
func (c *HTTPClassifier) Classify(ctx context.Context, text string) ([]LabelScore, error) {
	req := inferenceRequest{
		Inputs:  text,
		Options: map[string]bool{"wait_for_model": true},
	}

	var raw json.RawMessage
	if err := c.client.PostJSON(ctx, c.url, req, &raw); err != nil {
		return nil, err
	}
	return decodeLabelScores(raw)
}

// decodeLabelScores accepts both the batched [[...]] and the flat [...] response shapes
func decodeLabelScores(raw json.RawMessage) ([]LabelScore, error) {
	var batched [][]LabelScore
	if err := json.Unmarshal(raw, &batched); err == nil {
		if len(batched) == 0 {
			return nil, apperrors.ErrResponseInvalid.With(fmt.Errorf("empty classification batch"))
		}
		return batched[0], nil
	}

	var flat []LabelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, apperrors.ErrResponseInvalid.With(err)
	}
	return flat, nil
}
