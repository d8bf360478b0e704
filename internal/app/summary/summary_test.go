package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-insight/internal/app/nlp"
)

type failingPipeline struct{}

func (failingPipeline) Parse(context.Context, string) (*nlp.Doc, error) {
	return nil, errors.New("pipeline unavailable")
}

type countingPipeline struct {
	nlp.BasicPipeline
	calls int
}

func (c *countingPipeline) Parse(ctx context.Context, text string) (*nlp.Doc, error) {
	c.calls++
	return c.BasicPipeline.Parse(ctx, text)
}

func TestAnalyzer_Summarize(t *testing.T) {
	ctx := context.Background()
	analyzer := NewAnalyzer(nlp.BasicPipeline{}, nil)

	t.Run("short text returned unchanged", func(t *testing.T) {
		text := "  First sentence.   Second  sentence!\n"
		got, err := analyzer.Summarize(ctx, text, 3)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	})

	t.Run("blank text", func(t *testing.T) {
		pipeline := &countingPipeline{}
		got, err := NewAnalyzer(pipeline, nil).Summarize(ctx, "   ", 3)
		require.NoError(t, err)
		assert.Equal(t, "", got)
		assert.Equal(t, 0, pipeline.calls)
	})

	t.Run("dense sentence selected", func(t *testing.T) {
		text := "It was so. Refund invoice refund invoice refund. Yes it is. We are here."
		got, err := analyzer.Summarize(ctx, text, 1)
		require.NoError(t, err)
		assert.Equal(t, "Refund invoice refund invoice refund.", got)
	})

	t.Run("selection kept in document order", func(t *testing.T) {
		text := "Billing problems started in March. It was so. " +
			"The billing team fixed the billing problems. We are here. Billing billing problems."
		got, err := analyzer.Summarize(ctx, text, 2)
		require.NoError(t, err)

		first := strings.Index(text, "The billing team")
		second := strings.Index(text, "Billing billing problems.")
		require.True(t, first < second)
		assert.Equal(t, "The billing team fixed the billing problems. Billing billing problems.", got)
	})

	t.Run("non-positive length uses the default", func(t *testing.T) {
		text := "One fish. Two fish. Red fish."
		for _, n := range []int{0, -1} {
			got, err := analyzer.Summarize(ctx, text, n)
			require.NoError(t, err)
			assert.Equal(t, text, got)
		}

		long := "It was so. Refund invoice refund invoice refund. Yes it is. We are here. Fine."
		got, err := analyzer.Summarize(ctx, long, -1)
		require.NoError(t, err)
		assert.Contains(t, got, "Refund invoice refund invoice refund.")
	})

	t.Run("pipeline error", func(t *testing.T) {
		_, err := NewAnalyzer(failingPipeline{}, nil).Summarize(ctx, "a. b. c. d.", 1)
		assert.Error(t, err)
	})
}

func TestWordFrequencies(t *testing.T) {
	freq := WordFrequencies(nlp.Tokenize("refund the refund, invoice 42 refund"))
	assert.Equal(t, map[string]float64{"refund": 1.0, "invoice": 1.0 / 3.0}, freq)
	assert.Empty(t, WordFrequencies(nlp.Tokenize("the and of")))
}

func TestScoreSentence(t *testing.T) {
	freq := map[string]float64{"refund": 1.0, "invoice": 0.25}

	assert.Equal(t, 0.0, ScoreSentence(nlp.Tokenize("nothing tracked here"), freq))
	assert.InDelta(t, 1.25/1.4142135, ScoreSentence(nlp.Tokenize("refund my invoice"), freq), 1e-6)
	assert.InDelta(t, 2.0/1.4142135, ScoreSentence(nlp.Tokenize("refund, refund!"), freq), 1e-6)
}

func TestRankKeyPhrases(t *testing.T) {
	chunks := []string{
		"the refund", "A Refund", "order", "my order", "the refund ", "my order",
		"the bill", "an item", "the new phone", "the new phone", "the new phone",
	}

	got := RankKeyPhrases(chunks, 5)
	assert.Equal(t, []string{"the new phone", "the refund", "my order", "a refund", "the bill"}, got)

	assert.Len(t, RankKeyPhrases(chunks, 2), 2)
	assert.Empty(t, RankKeyPhrases(nil, 5))
	assert.Empty(t, RankKeyPhrases([]string{"an ox", "refund"}, 5))
}

func TestActionItems(t *testing.T) {
	t.Run("first five matches in order", func(t *testing.T) {
		sentences := make([]string, 0, 7)
		for i := 0; i < 7; i++ {
			sentences = append(sentences, fmt.Sprintf("Please send report %d.", i))
		}
		got := ActionItems(sentences)
		assert.Equal(t, sentences[:5], got)
	})

	t.Run("pattern families and repeats", func(t *testing.T) {
		sentences := []string{
			"We NEED TO fix it.",
			"The weather is nice.",
			"Kindly confirm.",
			"Next step is testing.",
			"We NEED TO fix it.",
			"Willow trees are tall.",
		}
		got := ActionItems(sentences)
		assert.Equal(t, []string{"We NEED TO fix it.", "Kindly confirm.", "Next step is testing."}, got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ActionItems(nil))
		assert.NotNil(t, ActionItems(nil))
	})
}

func TestTopics(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"refund and invoice", "I need a refund for this invoice", []string{"billing", "refund"}},
		{"case insensitive", "My PASSWORD reset is NOT WORKING", []string{"technical", "account"}},
		{"substring match", "The charger arrived late", []string{"billing", "shipping"}},
		{"none", "Hello there", []string{}},
		{"empty", "", []string{}},
		{
			"every category",
			"bill error login delivery refund product help complaint",
			[]string{"billing", "technical", "account", "shipping", "refund", "product", "support", "complaint"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Topics(tt.text))
		})
	}
	assert.Equal(t, TopicNames(), Topics("bill error login delivery refund product help complaint"))
}

func TestAnalyzer_SummarizeFull(t *testing.T) {
	ctx := context.Background()

	t.Run("call transcript", func(t *testing.T) {
		text := "I want a refund for my broken order. Please call me back."
		res, err := NewAnalyzer(nlp.BasicPipeline{}, nil).SummarizeFull(ctx, text)
		require.NoError(t, err)

		assert.Equal(t, text, res.Summary)
		assert.Equal(t, []string{"Please call me back."}, res.ActionItems)
		assert.Equal(t, []string{"technical", "shipping", "refund"}, res.Topics)
		assert.Equal(t, []string{"a refund", "my broken order"}, res.KeyPhrases)
	})

	t.Run("empty text", func(t *testing.T) {
		pipeline := &countingPipeline{}
		res, err := NewAnalyzer(pipeline, nil).SummarizeFull(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "", res.Summary)
		assert.Empty(t, res.KeyPhrases)
		assert.Empty(t, res.ActionItems)
		assert.Empty(t, res.Topics)
		assert.Equal(t, 0, pipeline.calls)
	})

	t.Run("short text parses once", func(t *testing.T) {
		pipeline := &countingPipeline{}
		_, err := NewAnalyzer(pipeline, nil).SummarizeFull(ctx, "One. Two.")
		require.NoError(t, err)
		assert.Equal(t, 1, pipeline.calls)
	})

	t.Run("pipeline error", func(t *testing.T) {
		_, err := NewAnalyzer(failingPipeline{}, nil).SummarizeFull(ctx, "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pipeline unavailable")
	})
}
