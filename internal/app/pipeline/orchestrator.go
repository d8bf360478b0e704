package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"speech-insight/internal/app/entity"
	apperrors "speech-insight/internal/app/errors"
	"speech-insight/internal/app/lease"
	"speech-insight/internal/app/logging"
	"speech-insight/internal/app/model"
	"speech-insight/internal/app/repository"
	"speech-insight/internal/app/sentiment"
	"speech-insight/internal/app/storage"
	"speech-insight/internal/app/summary"
	"speech-insight/internal/app/transcription"
	"speech-insight/internal/app/util/num"
)

// Result summarizes one run of ProcessAudio
type Result struct {
	AudioID             string  `json:"audio_id"`
	TranscriptText      string  `json:"transcript_text"`
	Language            string  `json:"language"`
	Sentiment           string  `json:"sentiment"`
	SentimentConfidence float64 `json:"sentiment_confidence"`
	EntitiesCount       int     `json:"entities_count"`
	Summary             string  `json:"summary"`
	TotalProcessingTime float64 `json:"total_processing_time"`
	Success             bool    `json:"success"`
	Error               string  `json:"error,omitempty"`

	// Err is the underlying error of a failed run
	Err error `json:"-"`
}

// Preview returns at most n runes of the transcript, marking truncation with "..."
func (r *Result) Preview(n int) string {
	runes := []rune(r.TranscriptText)
	if len(runes) <= n {
		return r.TranscriptText
	}
	return string(runes[:n]) + "..."
}

// Options tune an Orchestrator
type Options struct {
	// Language is passed to the engine; empty lets it detect
	Language string
	LeaseTTL time.Duration
}

// Orchestrator drives one audio record through transcription and analysis
type Orchestrator struct {
	store     repository.Store
	files     storage.FileStore
	engine    transcription.Engine
	sentiment *sentiment.Aggregator
	entities  *entity.Extractor
	summary   *summary.Analyzer
	locker    lease.Locker
	metrics   *Metrics
	logger    *zap.Logger
	options   Options
}

// NewOrchestrator wires an orchestrator. A nil locker falls back to an in-process one
// and nil metrics to unregistered collectors.
func NewOrchestrator(
	store repository.Store,
	files storage.FileStore,
	engine transcription.Engine,
	aggregator *sentiment.Aggregator,
	extractor *entity.Extractor,
	analyzer *summary.Analyzer,
	locker lease.Locker,
	metrics *Metrics,
	logger *zap.Logger,
	options Options,
) *Orchestrator {
	if locker == nil {
		locker = lease.NewMemoryLocker()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if options.LeaseTTL <= 0 {
		options.LeaseTTL = lease.DefaultTTL
	}
	return &Orchestrator{
		store:     store,
		files:     files,
		engine:    engine,
		sentiment: aggregator,
		entities:  extractor,
		summary:   analyzer,
		locker:    locker,
		metrics:   metrics,
		logger:    logging.OrNop(logger),
		options:   options,
	}
}

func failure(audioID string, start time.Time, err error) *Result {
	return &Result{
		AudioID:             audioID,
		TotalProcessingTime: num.Seconds(time.Since(start), 2),
		Success:             false,
		Error:               err.Error(),
		Err:                 err,
	}
}

// ProcessAudio runs the pipeline for one record. It never panics on stage errors:
// a failed run marks the record failed and returns a result with Success false.
// Records that are absent, processing, completed or leased elsewhere are left untouched.
func (o *Orchestrator) ProcessAudio(ctx context.Context, audioID string) *Result {
	start := time.Now()
	log := o.logger.With(zap.String("audio_id", audioID))

	record, err := o.store.GetAudio(ctx, audioID)
	if err != nil {
		o.metrics.Runs.WithLabelValues(outcomeRejected).Inc()
		return failure(audioID, start, err)
	}
	if record == nil {
		o.metrics.Runs.WithLabelValues(outcomeRejected).Inc()
		return failure(audioID, start, apperrors.ErrAudioNotFound)
	}

	held, err := o.locker.Acquire(ctx, audioID, o.options.LeaseTTL)
	if err != nil {
		log.Warn("Pipeline lease unavailable", zap.Error(err))
		o.metrics.Runs.WithLabelValues(outcomeRejected).Inc()
		return failure(audioID, start, err)
	}
	defer func() {
		if err := held.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to release pipeline lease", zap.Error(err))
		}
	}()

	claimed, err := o.store.MarkProcessing(ctx, audioID)
	if err != nil {
		o.metrics.Runs.WithLabelValues(outcomeRejected).Inc()
		return failure(audioID, start, err)
	}
	if !claimed {
		o.metrics.Runs.WithLabelValues(outcomeRejected).Inc()
		if record.Status == model.StatusCompleted {
			return failure(audioID, start, apperrors.ErrAlreadyCompleted)
		}
		return failure(audioID, start, apperrors.ErrAlreadyProcessing)
	}

	o.metrics.InFlight.Inc()
	defer o.metrics.InFlight.Dec()
	log.Info("Pipeline started", zap.String("file", record.FilePath))

	result, err := o.run(ctx, record)
	if err != nil {
		log.Error("Pipeline failed", zap.Error(err))
		if markErr := o.store.MarkFailed(context.WithoutCancel(ctx), audioID, err.Error()); markErr != nil {
			log.Error("Failed to record pipeline failure", zap.Error(markErr))
		}
		o.metrics.Runs.WithLabelValues(outcomeFailed).Inc()
		return failure(audioID, start, err)
	}

	result.TotalProcessingTime = num.Seconds(time.Since(start), 2)
	o.metrics.Runs.WithLabelValues(outcomeSucceeded).Inc()
	log.Info("Pipeline complete",
		zap.Float64("seconds", result.TotalProcessingTime),
		zap.String("sentiment", result.Sentiment),
		zap.Int("entities", result.EntitiesCount),
	)
	return result
}

func (o *Orchestrator) observe(stage string, start time.Time) {
	o.metrics.Stage.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// run executes the stages after the record was claimed. Errors are returned unwrapped
// so the stored error message is the stage's own.
func (o *Orchestrator) run(ctx context.Context, record *model.AudioRecord) (*Result, error) {
	transcript, err := o.transcribe(ctx, record)
	if err != nil {
		return nil, err
	}

	analysisStart := time.Now()
	var (
		wg        sync.WaitGroup
		errChan   = make(chan error, 3)
		sentiRes  *sentiment.FullResult
		entityRes *entity.Result
		summRes   *summary.Result
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		defer o.observe("sentiment", time.Now())
		res, err := o.sentiment.AnalyzeFull(ctx, transcript.FullText, transcript.Segments)
		if err != nil {
			errChan <- err
			return
		}
		sentiRes = res
	}()
	go func() {
		defer wg.Done()
		defer o.observe("entities", time.Now())
		res, err := o.entities.Extract(ctx, transcript.FullText, false)
		if err != nil {
			errChan <- err
			return
		}
		entityRes = res
	}()
	go func() {
		defer wg.Done()
		defer o.observe("summary", time.Now())
		res, err := o.summary.SummarizeFull(ctx, transcript.FullText)
		if err != nil {
			errChan <- err
			return
		}
		summRes = res
	}()

	wg.Wait()
	close(errChan)
	if err, ok := <-errChan; ok {
		return nil, err
	}
	o.logger.Debug("Analysis stages complete",
		zap.String("audio_id", record.ID),
		zap.Duration("elapsed", time.Since(analysisStart)),
	)

	// The stored processing time is the sentiment stage's, not the whole analysis.
	analysis := &model.Analysis{
		ID:                    uuid.NewString(),
		TranscriptID:          transcript.ID,
		OverallSentiment:      sentiRes.Overall.Label,
		SentimentConfidence:   sentiRes.Overall.Confidence,
		PositiveScore:         sentiRes.Overall.Scores.Positive,
		NegativeScore:         sentiRes.Overall.Scores.Negative,
		NeutralScore:          sentiRes.Overall.Scores.Neutral,
		SegmentSentiments:     sentiRes.Segments,
		Summary:               summRes.Summary,
		KeyPhrases:            summRes.KeyPhrases,
		ActionItems:           summRes.ActionItems,
		Topics:                summRes.Topics,
		ProcessingTimeSeconds: sentiRes.ProcessingTime,
	}

	commitStart := time.Now()
	err = o.store.CommitRun(ctx, &repository.Run{
		AudioID:     record.ID,
		Transcript:  transcript,
		Analysis:    analysis,
		Entities:    entityRes.Entities,
		CompletedAt: time.Now().UTC(),
	})
	o.observe("commit", commitStart)
	if err != nil {
		return nil, err
	}

	return &Result{
		AudioID:             record.ID,
		TranscriptText:      transcript.FullText,
		Language:            transcript.Language,
		Sentiment:           string(analysis.OverallSentiment),
		SentimentConfidence: analysis.SentimentConfidence,
		EntitiesCount:       len(entityRes.Entities),
		Summary:             analysis.Summary,
		Success:             true,
	}, nil
}

func (o *Orchestrator) transcribe(ctx context.Context, record *model.AudioRecord) (*model.Transcript, error) {
	start := time.Now()
	defer o.observe("transcription", start)

	audio, err := o.files.Open(ctx, record.FilePath)
	if err != nil {
		return nil, err
	}
	defer audio.Close()

	resp, err := o.engine.Transcribe(ctx, &transcription.Request{
		FilePath: record.FilePath,
		Reader:   audio,
		Language: o.options.Language,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, apperrors.ErrResponseInvalid.With(errors.New("engine returned no transcript"))
	}

	transcript := transcription.BuildTranscript(resp, time.Since(start))
	transcript.ID = uuid.NewString()
	transcript.AudioFileID = record.ID
	return transcript, nil
}

// PendingIDs lists the records a batch run should pick up: pending first, then failed
func (o *Orchestrator) PendingIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for _, status := range []model.Status{model.StatusPending, model.StatusFailed} {
		for skip := 0; ; skip += repository.MaxListLimit {
			records, total, err := o.store.ListAudio(ctx, repository.AudioFilter{
				Skip:   skip,
				Limit:  repository.MaxListLimit,
				Status: status,
			})
			if err != nil {
				return nil, err
			}
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			if skip+len(records) >= total || len(records) == 0 {
				break
			}
		}
	}
	return ids, nil
}

// ProcessBatch runs ids one after another, calling onDone after each.
// It stops early when ctx is cancelled.
func (o *Orchestrator) ProcessBatch(ctx context.Context, ids []string, onDone func(*Result)) []*Result {
	results := make([]*Result, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		res := o.ProcessAudio(ctx, id)
		results = append(results, res)
		if onDone != nil {
			onDone(res)
		}
	}
	return results
}
