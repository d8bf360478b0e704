package entity

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "speech-insight/internal/app/errors"
	"speech-insight/internal/app/logging"
	"speech-insight/internal/app/model"
	"speech-insight/internal/app/nlp"
	"speech-insight/internal/app/util/num"
)

// PriorityLabels are the entity labels kept unless all labels are requested
var PriorityLabels = []string{"PERSON", "ORG", "DATE", "MONEY", "PRODUCT", "GPE", "TIME"}

var priority = func() map[string]struct{} {
	set := make(map[string]struct{}, len(PriorityLabels))
	for _, l := range PriorityLabels {
		set[l] = struct{}{}
	}
	return set
}()

// Result holds the deduplicated entities of one text
type Result struct {
	Entities       []model.Entity `json:"entities"`
	Counts         map[string]int `json:"entity_counts"`
	ProcessingTime float64        `json:"processing_time_seconds"`
}

// Extractor wraps a linguistic pipeline and deduplicates its entity spans
type Extractor struct {
	pipeline nlp.Pipeline
	logger   *zap.Logger
}

// NewExtractor creates an extractor over pipeline
func NewExtractor(pipeline nlp.Pipeline, logger *zap.Logger) *Extractor {
	return &Extractor{pipeline: pipeline, logger: logging.OrNop(logger)}
}

type dedupeKey struct {
	text  string
	label string
}

// Extract returns the entities of text in source order. Spans with the same
// lowercased text and label are reported once, at their first occurrence.
func (e *Extractor) Extract(ctx context.Context, text string, includeAll bool) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return &Result{Entities: []model.Entity{}, Counts: map[string]int{}}, nil
	}

	doc, err := e.pipeline.Parse(ctx, text)
	if err != nil {
		return nil, apperrors.Wrap(err, "entity extraction failed")
	}

	entities := []model.Entity{}
	counts := map[string]int{}
	seen := make(map[dedupeKey]struct{})

	for _, span := range doc.Entities {
		if _, ok := priority[span.Label]; !includeAll && !ok {
			continue
		}

		key := dedupeKey{text: strings.ToLower(span.Text), label: span.Label}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		confidence := 1.0
		if span.Confidence != nil {
			confidence = *span.Confidence
		}
		entities = append(entities, model.Entity{
			Text:       span.Text,
			Label:      span.Label,
			StartChar:  span.Start,
			EndChar:    span.End,
			Confidence: confidence,
		})
		counts[span.Label]++
	}

	elapsed := time.Since(start)
	e.logger.Info("Entity extraction complete",
		zap.Int("entities", len(entities)),
		zap.Duration("elapsed", elapsed),
	)

	return &Result{
		Entities:       entities,
		Counts:         counts,
		ProcessingTime: num.Seconds(elapsed, 3),
	}, nil
}
