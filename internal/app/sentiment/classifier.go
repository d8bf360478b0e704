package sentiment

import "context"

// LabelScore is one (label, probability) pair in a classifier's native vocabulary
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier returns a probability distribution over its own label vocabulary.
// The returned slice keeps the model's native label order.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]LabelScore, error)
}

// ClassifierFunc adapts a function to the Classifier interface
type ClassifierFunc func(ctx context.Context, text string) ([]LabelScore, error)

// Classify implements Classifier
func (f ClassifierFunc) Classify(ctx context.Context, text string) ([]LabelScore, error) {
	return f(ctx, text)
}
