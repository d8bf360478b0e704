package sentiment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "speech-insight/internal/app/errors"
	"speech-insight/internal/app/logging"
	"speech-insight/internal/app/model"
	"speech-insight/internal/app/util/num"
)

// DefaultSegmentWorkers bounds concurrent per-segment classifier calls
const DefaultSegmentWorkers = 4

// Result is the canonical sentiment of a single text
type Result struct {
	Label      model.SentimentLabel  `json:"label"`
	Confidence float64               `json:"confidence"`
	Scores     model.SentimentScores `json:"scores"`
}

// FullResult is the overall sentiment plus one result per segment
type FullResult struct {
	Overall        Result                   `json:"overall"`
	Segments       []model.SegmentSentiment `json:"segments"`
	ProcessingTime float64                  `json:"processing_time_seconds"`
}

// Aggregator turns raw classifier output into canonical sentiment results
type Aggregator struct {
	classifier Classifier
	workers    int
	logger     *zap.Logger
}

// NewAggregator creates an aggregator over classifier.
// workers <= 0 falls back to DefaultSegmentWorkers.
func NewAggregator(classifier Classifier, workers int, logger *zap.Logger) *Aggregator {
	if workers <= 0 {
		workers = DefaultSegmentWorkers
	}
	return &Aggregator{
		classifier: classifier,
		workers:    workers,
		logger:     logging.OrNop(logger),
	}
}

func neutralResult() Result {
	return Result{
		Label:      model.SentimentNeutral,
		Confidence: 1.0,
		Scores:     model.SentimentScores{Neutral: 1.0},
	}
}

// Classify scores a single text. Blank text is neutral without a classifier call.
func (a *Aggregator) Classify(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return neutralResult(), nil
	}

	scores, err := a.classifier.Classify(ctx, text)
	if err != nil {
		return Result{}, apperrors.Wrap(err, "sentiment classification failed")
	}
	if len(scores) == 0 {
		return Result{}, apperrors.ErrResponseInvalid.With(fmt.Errorf("classifier returned no labels"))
	}

	// Later raw labels mapping to the same bucket overwrite earlier ones.
	buckets := make(map[model.SentimentLabel]float64, 3)
	best := 0
	for i, s := range scores {
		buckets[Normalize(s.Label)] = s.Score
		if s.Score > scores[best].Score {
			best = i
		}
	}

	return Result{
		Label:      Normalize(scores[best].Label),
		Confidence: num.Round(scores[best].Score, 4),
		Scores: model.SentimentScores{
			Positive: num.Round(buckets[model.SentimentPositive], 4),
			Negative: num.Round(buckets[model.SentimentNegative], 4),
			Neutral:  num.Round(buckets[model.SentimentNeutral], 4),
		},
	}, nil
}

// ClassifySegments classifies every segment independently; output order matches input order
func (a *Aggregator) ClassifySegments(ctx context.Context, segments []model.Segment) ([]model.SegmentSentiment, error) {
	results := make([]model.SegmentSentiment, len(segments))
	if len(segments) == 0 {
		return results, nil
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.workers)
	errChan := make(chan error, len(segments))

	for i := range segments {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			seg := segments[i]
			res, err := a.Classify(ctx, seg.Text)
			if err != nil {
				errChan <- fmt.Errorf("segment %d: %w", seg.ID, err)
				return
			}
			results[i] = model.SegmentSentiment{
				Text:       seg.Text,
				Start:      seg.Start,
				End:        seg.End,
				Sentiment:  res.Label,
				Confidence: res.Confidence,
				Scores:     res.Scores,
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	var errorList []error
	for err := range errChan {
		errorList = append(errorList, err)
	}
	if len(errorList) > 0 {
		return nil, apperrors.Wrapf(errorList[0], "segment classification failed (%d of %d segments)", len(errorList), len(segments))
	}

	return results, nil
}

// AnalyzeFull classifies text and its segments and reports the wall-clock time
func (a *Aggregator) AnalyzeFull(ctx context.Context, text string, segments []model.Segment) (*FullResult, error) {
	start := time.Now()

	overall, err := a.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	segmentResults := []model.SegmentSentiment{}
	if len(segments) > 0 {
		segmentResults, err = a.ClassifySegments(ctx, segments)
		if err != nil {
			return nil, err
		}
	}

	elapsed := time.Since(start)
	a.logger.Info("Sentiment analysis complete",
		zap.String("label", string(overall.Label)),
		zap.Float64("confidence", overall.Confidence),
		zap.Int("segments", len(segmentResults)),
		zap.Duration("elapsed", elapsed),
	)

	return &FullResult{
		Overall:        overall,
		Segments:       segmentResults,
		ProcessingTime: num.Seconds(elapsed, 2),
	}, nil
}
