package sentiment

import "speech-insight/internal/app/model"

// labelMapping covers the vocabularies of the common three-class sentiment models:
// natural-language labels in either case and the positional LABEL_n ids.
var labelMapping = map[string]model.SentimentLabel{
	"positive": model.SentimentPositive,
	"negative": model.SentimentNegative,
	"neutral":  model.SentimentNeutral,
	"POSITIVE": model.SentimentPositive,
	"NEGATIVE": model.SentimentNegative,
	"NEUTRAL":  model.SentimentNeutral,
	"LABEL_0":  model.SentimentNegative,
	"LABEL_1":  model.SentimentNeutral,
	"LABEL_2":  model.SentimentPositive,
}

// Normalize maps a classifier label onto the canonical vocabulary.
// Unknown labels map to neutral.
func Normalize(raw string) model.SentimentLabel {
	if label, ok := labelMapping[raw]; ok {
		return label
	}
	return model.SentimentNeutral
}
