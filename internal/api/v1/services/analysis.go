package services

import (
	"context"
	"strings"

	"speech-insight/internal/api/errors"
	"speech-insight/internal/api/v1/dto"
	"speech-insight/internal/app/model"
	"speech-insight/internal/app/repository"
)

// AnalysisServiceImpl implements AnalysisService over the stored pipeline results
type AnalysisServiceImpl struct {
	store repository.Store
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(store repository.Store) *AnalysisServiceImpl {
	return &AnalysisServiceImpl{store: store}
}

// GetTranscript returns the transcript of a recording
func (s *AnalysisServiceImpl) GetTranscript(ctx context.Context, audioID string) (*model.Transcript, error) {
	transcript, err := s.store.GetTranscriptByAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}
	if transcript == nil {
		return nil, errors.NewNotFoundError("Transcript")
	}
	return transcript, nil
}

func (s *AnalysisServiceImpl) analysis(ctx context.Context, audioID string) (*model.Analysis, error) {
	transcript, err := s.store.GetTranscriptByAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}
	if transcript == nil {
		return nil, errors.NewNotFoundError("Analysis")
	}
	analysis, err := s.store.GetAnalysisByTranscript(ctx, transcript.ID)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, errors.NewNotFoundError("Analysis")
	}
	return analysis, nil
}

// GetSentiment returns overall and per-segment sentiment
func (s *AnalysisServiceImpl) GetSentiment(ctx context.Context, audioID string) (*dto.SentimentResponse, error) {
	analysis, err := s.analysis(ctx, audioID)
	if err != nil {
		return nil, err
	}
	return dto.ToSentimentResponse(analysis), nil
}

// GetEntities returns the entities of a recording, optionally of one label
func (s *AnalysisServiceImpl) GetEntities(ctx context.Context, audioID string, label string) (*dto.EntitiesResponse, error) {
	transcript, err := s.GetTranscript(ctx, audioID)
	if err != nil {
		return nil, err
	}
	entities, err := s.store.ListEntities(ctx, transcript.ID, strings.ToUpper(strings.TrimSpace(label)))
	if err != nil {
		return nil, err
	}
	return dto.ToEntitiesResponse(entities), nil
}

// GetSummary returns the summary, key phrases, action items and topics
func (s *AnalysisServiceImpl) GetSummary(ctx context.Context, audioID string) (*dto.SummaryResponse, error) {
	analysis, err := s.analysis(ctx, audioID)
	if err != nil {
		return nil, err
	}
	return dto.ToSummaryResponse(analysis), nil
}

// GetFullAnalysis returns the record with whatever results exist for it
func (s *AnalysisServiceImpl) GetFullAnalysis(ctx context.Context, audioID string) (*dto.FullAnalysisResponse, error) {
	record, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.NewNotFoundError("Audio file")
	}

	resp := &dto.FullAnalysisResponse{
		Audio:              record,
		ProcessingComplete: record.Status == model.StatusCompleted,
	}

	transcript, err := s.store.GetTranscriptByAudio(ctx, audioID)
	if err != nil {
		return nil, err
	}
	if transcript == nil {
		return resp, nil
	}
	resp.Transcript = transcript

	analysis, err := s.store.GetAnalysisByTranscript(ctx, transcript.ID)
	if err != nil {
		return nil, err
	}
	if analysis != nil {
		resp.Sentiment = dto.ToSentimentResponse(analysis)
		resp.Summary = dto.ToSummaryResponse(analysis)
	}

	entities, err := s.store.ListEntities(ctx, transcript.ID, "")
	if err != nil {
		return nil, err
	}
	if len(entities) > 0 {
		resp.Entities = dto.ToEntitiesResponse(entities)
	}
	return resp, nil
}
