package dto

import (
	"github.com/samber/lo"

	"speech-insight/internal/app/model"
)

// EntitiesQuery filters entities by label; matching is case-insensitive
type EntitiesQuery struct {
	Label string `form:"label" binding:"omitempty,max=32"`
}

// SentimentResponse is the stored sentiment of a processed recording
type SentimentResponse struct {
	OverallSentiment  model.SentimentLabel     `json:"overall_sentiment"`
	Confidence        float64                  `json:"confidence"`
	Scores            model.SentimentScores    `json:"scores"`
	SegmentSentiments []model.SegmentSentiment `json:"segment_sentiments,omitempty"`
}

// EntityResponse is a single named entity
type EntityResponse struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	StartChar  int     `json:"start_char"`
	EndChar    int     `json:"end_char"`
	Confidence float64 `json:"confidence"`
}

// EntitiesResponse lists entities with a count per label
type EntitiesResponse struct {
	Entities     []EntityResponse `json:"entities"`
	EntityCounts map[string]int   `json:"entity_counts"`
}

// SummaryResponse is the stored summary and extracted phrases
type SummaryResponse struct {
	Summary     string   `json:"summary"`
	KeyPhrases  []string `json:"key_phrases"`
	ActionItems []string `json:"action_items"`
	Topics      []string `json:"topics"`
}

// FullAnalysisResponse collects everything known about one recording.
// Parts not produced yet are omitted.
type FullAnalysisResponse struct {
	Audio              *model.AudioRecord `json:"audio"`
	Transcript         *model.Transcript  `json:"transcript,omitempty"`
	Sentiment          *SentimentResponse `json:"sentiment,omitempty"`
	Entities           *EntitiesResponse  `json:"entities,omitempty"`
	Summary            *SummaryResponse   `json:"summary,omitempty"`
	ProcessingComplete bool               `json:"processing_complete"`
}

// ToSentimentResponse converts a stored analysis
func ToSentimentResponse(a *model.Analysis) *SentimentResponse {
	return &SentimentResponse{
		OverallSentiment: a.OverallSentiment,
		Confidence:       a.SentimentConfidence,
		Scores: model.SentimentScores{
			Positive: a.PositiveScore,
			Negative: a.NegativeScore,
			Neutral:  a.NeutralScore,
		},
		SegmentSentiments: a.SegmentSentiments,
	}
}

// ToSummaryResponse converts a stored analysis; absent lists become empty
func ToSummaryResponse(a *model.Analysis) *SummaryResponse {
	orEmpty := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}
	return &SummaryResponse{
		Summary:     a.Summary,
		KeyPhrases:  orEmpty(a.KeyPhrases),
		ActionItems: orEmpty(a.ActionItems),
		Topics:      orEmpty(a.Topics),
	}
}

// ToEntitiesResponse converts stored entities and counts them by label
func ToEntitiesResponse(entities []model.Entity) *EntitiesResponse {
	return &EntitiesResponse{
		Entities: lo.Map(entities, func(e model.Entity, _ int) EntityResponse {
			return EntityResponse{
				Text:       e.Text,
				Label:      e.Label,
				StartChar:  e.StartChar,
				EndChar:    e.EndChar,
				Confidence: e.Confidence,
			}
		}),
		EntityCounts: lo.CountValuesBy(entities, func(e model.Entity) string { return e.Label }),
	}
}
