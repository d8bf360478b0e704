package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"
)

var (
	wordPattern = regexp.MustCompile(`[a-z']+`)

	positiveWords = wordSet("good", "great", "excellent", "happy", "glad", "love", "thanks", "thank",
		"appreciate", "awesome", "perfect", "helpful", "resolved", "pleased", "wonderful", "fantastic",
		"satisfied", "nice", "amazing", "easy", "quick", "fast", "best", "like", "enjoy")
	negativeWords = wordSet("bad", "terrible", "awful", "angry", "upset", "unhappy", "frustrated",
		"disappointed", "broken", "hate", "worst", "problem", "issue", "error", "slow", "poor",
		"refund", "complaint", "wrong", "failed", "fail", "never", "useless", "annoyed", "cancel")
	negators = wordSet("not", "no", "never", "don't", "doesn't", "didn't", "isn't", "wasn't", "can't", "won't")
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// LexiconClassifier is an offline word-list classifier. It emits a three-way
// distribution in positional LABEL_0 (negative), LABEL_1 (neutral), LABEL_2 (positive) form.
type LexiconClassifier struct{}

var _ Classifier = LexiconClassifier{}

// Classify implements Classifier
func (LexiconClassifier) Classify(_ context.Context, text string) ([]LabelScore, error) {
	var pos, neg float64
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	for i, w := range words {
		negated := false
		if i > 0 {
			_, negated = negators[words[i-1]]
		}
		_, isPos := positiveWords[w]
		_, isNeg := negativeWords[w]
		switch {
		case isPos && !negated, isNeg && negated && !isPos:
			pos++
		case isNeg, isPos && negated:
			neg++
		}
	}

	logits := []float64{1.5 * neg, 1.0, 1.5 * pos}
	var sum float64
	for i, l := range logits {
		logits[i] = math.Exp(l)
		sum += logits[i]
	}

	return []LabelScore{
		{Label: "LABEL_0", Score: logits[0] / sum},
		{Label: "LABEL_1", Score: logits[1] / sum},
		{Label: "LABEL_2", Score: logits[2] / sum},
	}, nil
}
