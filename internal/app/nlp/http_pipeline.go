package nlp

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "speech-insight/internal/app/errors"
	"speech-insight/internal/app/httpx"
)

// HTTPPipelineConfig configures a remote parse service
type HTTPPipelineConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxElapsedTime time.Duration
}

// HTTPPipeline delegates parsing to a spaCy-style service exposing POST /parse
type HTTPPipeline struct {
	url    string
	client *httpx.JSONClient
}

var _ Pipeline = (*HTTPPipeline)(nil)

// NewHTTPPipeline creates a pipeline client for config.BaseURL
func NewHTTPPipeline(config HTTPPipelineConfig) (*HTTPPipeline, error) {
	base := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if base == "" {
		return nil, apperrors.ErrMissingConfig.With(fmt.Errorf("nlp service url required"))
	}
	return &HTTPPipeline{
		url:    base + "/parse",
		client: httpx.NewJSONClient(config.Token, config.Timeout, config.MaxElapsedTime),
	}, nil
}

type parseRequest struct {
	Text string `json:"text"`
}

// Parse implements Pipeline
func (p *HTTPPipeline) Parse(ctx context.Context, text string) (*Doc, error) {
	var doc Doc
	if err := p.client.PostJSON(ctx, p.url, parseRequest{Text: text}, &doc); err != nil {
		return nil, apperrors.Wrap(err, "nlp parse failed")
	}
	if doc.Sentences == nil {
		doc.Sentences = []string{}
	}
	if doc.Tokens == nil {
		doc.Tokens = []Token{}
	}
	if doc.NounChunks == nil {
		doc.NounChunks = []string{}
	}
	if doc.Entities == nil {
		doc.Entities = []Span{}
	}
	return &doc, nil
}
