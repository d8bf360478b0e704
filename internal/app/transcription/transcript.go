package transcription

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"speech-insight/internal/app/model"
	"speech-insight/internal/app/util/num"
)

const (
	// DefaultLanguage is reported when an engine does not detect a language
	DefaultLanguage = "en"
	// DefaultLanguageProbability is reported when an engine gives no language confidence
	DefaultLanguageProbability = 0.95
)

// BuildTranscript normalizes an engine response into a Transcript. Segment ids
// follow segment order, times and confidences are rounded to milliseconds, and
// the flattened word list is nil when no segment carries words.
func BuildTranscript(resp *Response, elapsed time.Duration) *model.Transcript {
	segments := make([]model.Segment, 0, len(resp.Segments))
	var words []model.WordTimestamp

	for i, seg := range resp.Segments {
		out := model.Segment{
			ID:    i,
			Text:  strings.TrimSpace(seg.Text),
			Start: num.Round(seg.Start, 3),
			End:   num.Round(seg.End, 3),
		}
		if len(seg.Words) > 0 {
			out.Words = lo.Map(seg.Words, func(w Word, _ int) model.WordTimestamp {
				confidence := 1.0
				if w.Probability != nil {
					confidence = *w.Probability
				}
				confidence = num.Round(confidence, 3)
				return model.WordTimestamp{
					Word:       strings.TrimSpace(w.Word),
					Start:      num.Round(w.Start, 3),
					End:        num.Round(w.End, 3),
					Confidence: &confidence,
				}
			})
			words = append(words, out.Words...)
		}
		segments = append(segments, out)
	}

	language := resp.Language
	if language == "" {
		language = DefaultLanguage
	}
	probability := resp.LanguageProbability
	if probability <= 0 {
		probability = DefaultLanguageProbability
	}

	return &model.Transcript{
		FullText:              strings.TrimSpace(resp.Text),
		Language:              language,
		LanguageProbability:   probability,
		Segments:              segments,
		WordTimestamps:        words,
		WordCount:             len(strings.Fields(resp.Text)),
		ProcessingTimeSeconds: num.Seconds(elapsed, 2),
	}
}
