package summary

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "speech-insight/internal/app/errors"
	"speech-insight/internal/app/logging"
	"speech-insight/internal/app/nlp"
	"speech-insight/internal/app/util/num"
)

// DefaultSentences is the default summary length
const DefaultSentences = 3

// Result bundles the summary with the other extracted information
type Result struct {
	Summary        string   `json:"summary"`
	KeyPhrases     []string `json:"key_phrases"`
	ActionItems    []string `json:"action_items"`
	Topics         []string `json:"topics"`
	ProcessingTime float64  `json:"processing_time_seconds"`
}

// Analyzer produces extractive summaries and key information from a transcript
type Analyzer struct {
	pipeline nlp.Pipeline
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer over pipeline
func NewAnalyzer(pipeline nlp.Pipeline, logger *zap.Logger) *Analyzer {
	return &Analyzer{pipeline: pipeline, logger: logging.OrNop(logger)}
}

func (a *Analyzer) parse(ctx context.Context, text string) (*nlp.Doc, error) {
	doc, err := a.pipeline.Parse(ctx, text)
	if err != nil {
		return nil, apperrors.Wrap(err, "summarization parse failed")
	}
	return doc, nil
}

func sentencesOf(doc *nlp.Doc) []string {
	sentences := make([]string, 0, len(doc.Sentences))
	for _, s := range doc.Sentences {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// Summarize returns the n most salient sentences of text in document order.
// Texts with n or fewer sentences are returned unchanged. n <= 0 means DefaultSentences.
func (a *Analyzer) Summarize(ctx context.Context, text string, n int) (string, error) {
	if n <= 0 {
		n = DefaultSentences
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	doc, err := a.parse(ctx, text)
	if err != nil {
		return "", err
	}
	return a.summarizeDoc(ctx, text, sentencesOf(doc), n)
}

func (a *Analyzer) summarizeDoc(ctx context.Context, text string, sentences []string, n int) (string, error) {
	if len(sentences) <= n {
		return text, nil
	}

	lowered, err := a.parse(ctx, strings.ToLower(text))
	if err != nil {
		return "", err
	}
	freq := WordFrequencies(lowered.Tokens)

	type scored struct {
		sentence string
		score    float64
	}
	ranked := make([]scored, 0, len(sentences))
	for _, sent := range sentences {
		sentDoc, err := a.parse(ctx, strings.ToLower(sent))
		if err != nil {
			return "", err
		}
		ranked = append(ranked, scored{sentence: sent, score: ScoreSentence(sentDoc.Tokens, freq)})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	top := ranked[:n]

	// Position lookup finds the first equal sentence, so verbatim repeats may be misordered.
	position := func(s string) int {
		for i, sent := range sentences {
			if sent == s {
				return i
			}
		}
		return len(sentences)
	}
	sort.SliceStable(top, func(i, j int) bool { return position(top[i].sentence) < position(top[j].sentence) })

	parts := make([]string, len(top))
	for i, s := range top {
		parts[i] = s.sentence
	}
	return strings.Join(parts, " "), nil
}

// WordFrequencies counts alphabetic non-stop non-punctuation tokens and
// normalizes the counts by the largest one.
func WordFrequencies(tokens []nlp.Token) map[string]float64 {
	freq := make(map[string]float64)
	for _, tok := range tokens {
		if !tok.IsStop && !tok.IsPunct && tok.IsAlpha {
			freq[tok.Text]++
		}
	}

	var maxCount float64
	for _, c := range freq {
		maxCount = math.Max(maxCount, c)
	}
	for w, c := range freq {
		freq[w] = c / maxCount
	}
	return freq
}

// ScoreSentence sums the weights of the sentence's tracked tokens and divides
// by the square root of their number. A sentence without tracked tokens scores 0.
func ScoreSentence(tokens []nlp.Token, freq map[string]float64) float64 {
	var score float64
	var count int
	for _, tok := range tokens {
		if tok.IsStop || tok.IsPunct {
			continue
		}
		if w, ok := freq[tok.Text]; ok {
			score += w
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return score / math.Sqrt(float64(count))
}

// KeyPhrases returns the topN most frequent multi-word noun chunks of text
func (a *Analyzer) KeyPhrases(ctx context.Context, text string, topN int) ([]string, error) {
	if text == "" {
		return []string{}, nil
	}
	doc, err := a.parse(ctx, text)
	if err != nil {
		return nil, err
	}
	return RankKeyPhrases(doc.NounChunks, topN), nil
}

// ActionItems returns the sentences of text that read as follow-up actions
func (a *Analyzer) ActionItems(ctx context.Context, text string) ([]string, error) {
	if text == "" {
		return []string{}, nil
	}
	doc, err := a.parse(ctx, text)
	if err != nil {
		return nil, err
	}
	return ActionItems(sentencesOf(doc)), nil
}

// SummarizeFull computes the summary, key phrases, action items and topics of text.
// Sentences and noun chunks come from a single parse of the text.
func (a *Analyzer) SummarizeFull(ctx context.Context, text string) (*Result, error) {
	start := time.Now()
	result := &Result{
		KeyPhrases:  []string{},
		ActionItems: []string{},
		Topics:      []string{},
	}

	if strings.TrimSpace(text) != "" {
		doc, err := a.parse(ctx, text)
		if err != nil {
			return nil, err
		}
		sentences := sentencesOf(doc)

		result.Summary, err = a.summarizeDoc(ctx, text, sentences, DefaultSentences)
		if err != nil {
			return nil, err
		}
		result.KeyPhrases = RankKeyPhrases(doc.NounChunks, DefaultKeyPhrases)
		result.ActionItems = ActionItems(sentences)
		result.Topics = Topics(text)
	}

	elapsed := time.Since(start)
	result.ProcessingTime = num.Seconds(elapsed, 3)

	a.logger.Info("Summarization complete",
		zap.Int("key_phrases", len(result.KeyPhrases)),
		zap.Int("action_items", len(result.ActionItems)),
		zap.Strings("topics", result.Topics),
	)
	return result, nil
}
