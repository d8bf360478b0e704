package nlp

import "context"

// Token is one token of a parsed document with its lexical flags
type Token struct {
	Text    string `json:"text"`
	IsStop  bool   `json:"is_stop"`
	IsPunct bool   `json:"is_punct"`
	IsAlpha bool   `json:"is_alpha"`
}

// Span is a named entity span. Start and End are character offsets into the parsed text.
type Span struct {
	Text       string   `json:"text"`
	Label      string   `json:"label"`
	Start      int      `json:"start_char"`
	End        int      `json:"end_char"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Doc is the linguistic analysis of a text
type Doc struct {
	Sentences  []string `json:"sentences"`
	Tokens     []Token  `json:"tokens"`
	NounChunks []string `json:"noun_chunks"`
	Entities   []Span   `json:"entities"`
}

// Pipeline segments text into sentences, tokens, noun chunks and entity spans
type Pipeline interface {
	Parse(ctx context.Context, text string) (*Doc, error)
}
