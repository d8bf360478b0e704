package nlp

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	tokenPattern = regexp.MustCompile(`[\p{L}]+(?:'[\p{L}]+)?|\d+(?:[.,:]\d+)*|\S`)

	moneyPattern = regexp.MustCompile(`(?i)[$€£]\s?\d[\d,]*(?:\.\d+)?|\b\d[\d,]*(?:\.\d+)?\s?(?:dollars|bucks|usd|euros|eur|pounds|cents)\b`)
	timePattern  = regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s?(?:am|pm|a\.m\.|p\.m\.)|\b\d{1,2}:\d{2}\b|\b(?:noon|midnight|this morning|this afternoon|tonight)\b`)
	datePattern  = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)(?:\s+\d{1,2}(?:st|nd|rd|th)?)?(?:,?\s+\d{4})?\b|\b(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)s?\b|(?i:\b(?:today|tomorrow|yesterday)\b|\b(?:next|last|this)\s+(?:week|month|year)\b)|\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	numPattern   = regexp.MustCompile(`\b\d+(?:[.,]\d+)*\b`)
	capsPattern  = regexp.MustCompile(`\b(?:Mr\.|Mrs\.|Ms\.|Dr\.)?\s?[A-Z][\p{L}&]+(?:\s+[A-Z][\p{L}&]+)*`)
)

var determiners = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "my": {}, "your": {}, "our": {}, "their": {}, "his": {}, "her": {},
	"its": {}, "this": {}, "that": {}, "these": {}, "those": {}, "some": {}, "any": {}, "every": {},
}

var abbreviations = map[string]struct{}{
	"mr.": {}, "mrs.": {}, "ms.": {}, "dr.": {}, "st.": {}, "jr.": {}, "sr.": {}, "vs.": {},
	"e.g.": {}, "i.e.": {}, "etc.": {}, "inc.": {}, "no.": {},
}

var orgSuffixes = map[string]struct{}{
	"Inc": {}, "Corp": {}, "Corporation": {}, "Ltd": {}, "LLC": {}, "Company": {}, "Bank": {},
	"Airlines": {}, "Group": {}, "Bros": {}, "University": {}, "Co": {},
}

var places = map[string]struct{}{
	"America": {}, "Australia": {}, "Boston": {}, "California": {}, "Canada": {}, "Chicago": {},
	"China": {}, "England": {}, "France": {}, "Germany": {}, "India": {}, "Japan": {}, "London": {},
	"Mexico": {}, "New York": {}, "Paris": {}, "Seattle": {}, "Spain": {}, "Texas": {},
	"United States": {}, "US": {}, "USA": {}, "UK": {},
}

// BasicPipeline is an offline rule-based English pipeline. It needs no model
// service and is used in tests and when no NLP endpoint is configured.
type BasicPipeline struct{}

var _ Pipeline = BasicPipeline{}

// Parse implements Pipeline
func (BasicPipeline) Parse(_ context.Context, text string) (*Doc, error) {
	doc := &Doc{
		Sentences:  []string{},
		Tokens:     []Token{},
		NounChunks: []string{},
		Entities:   []Span{},
	}
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}

	doc.Sentences = SplitSentences(text)
	doc.Tokens = Tokenize(text)
	for _, sent := range doc.Sentences {
		doc.NounChunks = append(doc.NounChunks, nounChunks(Tokenize(sent))...)
	}
	doc.Entities = findEntities(text, doc.Sentences)
	return doc, nil
}

// SplitSentences splits text after terminal punctuation followed by whitespace,
// and at blank lines. Sentences are trimmed and empty ones dropped.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	emit := func(end int) {
		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' && i+1 < len(text) && text[i+1] == '\n' {
			emit(i)
			continue
		}
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		for j < len(text) && strings.IndexByte(".!?\"')", text[j]) >= 0 {
			j++
		}
		if j < len(text) && !isSpace(text[j]) {
			i = j - 1
			continue
		}
		if c == '.' && isAbbreviation(text[start:i+1]) {
			i = j - 1
			continue
		}
		emit(j)
		i = j - 1
	}
	emit(len(text))

	if sentences == nil {
		return []string{}
	}
	return sentences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

func isAbbreviation(prefix string) bool {
	fields := strings.Fields(prefix)
	if len(fields) == 0 {
		return false
	}
	_, ok := abbreviations[strings.ToLower(fields[len(fields)-1])]
	return ok
}

// Tokenize splits text into word, number and punctuation tokens.
// Contractions are split the usual English way: "don't" becomes "do" and "n't".
func Tokenize(text string) []Token {
	tokens := []Token{}
	for _, raw := range tokenPattern.FindAllString(text, -1) {
		for _, part := range splitContraction(raw) {
			tokens = append(tokens, newToken(part))
		}
	}
	return tokens
}

func splitContraction(word string) []string {
	lower := strings.ToLower(word)
	if strings.HasSuffix(lower, "n't") && len(word) > 3 {
		return []string{word[:len(word)-3], word[len(word)-3:]}
	}
	if i := strings.IndexByte(word, '\''); i > 0 {
		return []string{word[:i], word[i:]}
	}
	return []string{word}
}

func newToken(text string) Token {
	alpha, punct := true, true
	for _, r := range text {
		if !unicode.IsLetter(r) {
			alpha = false
		}
		if !unicode.IsPunct(r) {
			punct = false
		}
	}
	return Token{
		Text:    text,
		IsStop:  IsStopWord(strings.ToLower(text)),
		IsPunct: punct,
		IsAlpha: alpha,
	}
}

func isContent(t Token) bool {
	return t.IsAlpha && !t.IsStop
}

// nounChunks finds determiner-led runs of content words and runs of two or
// more capitalised content words.
func nounChunks(tokens []Token) []string {
	var chunks []string
	for i := 0; i < len(tokens); {
		if _, ok := determiners[strings.ToLower(tokens[i].Text)]; ok {
			j := i + 1
			for j < len(tokens) && isContent(tokens[j]) {
				j++
			}
			if j > i+1 {
				chunks = append(chunks, joinTokens(tokens[i:j]))
				i = j
				continue
			}
		}
		if isContent(tokens[i]) && isCapitalized(tokens[i].Text) {
			j := i + 1
			for j < len(tokens) && isContent(tokens[j]) && isCapitalized(tokens[j].Text) {
				j++
			}
			if j > i+1 {
				chunks = append(chunks, joinTokens(tokens[i:j]))
				i = j
				continue
			}
		}
		i++
	}
	return chunks
}

func isCapitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

func joinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

type match struct {
	start, end int
	label      string
}

// findEntities applies the entity rules in priority order. Overlapping matches
// from a lower priority rule are dropped. Offsets are converted to characters.
func findEntities(text string, sentences []string) []Span {
	sentenceStarts := make(map[int]struct{}, len(sentences))
	offset := 0
	for _, s := range sentences {
		if i := strings.Index(text[offset:], s); i >= 0 {
			sentenceStarts[offset+i] = struct{}{}
			offset += i + len(s)
		}
	}

	var matches []match
	overlaps := func(start, end int) bool {
		for _, m := range matches {
			if start < m.end && end > m.start {
				return true
			}
		}
		return false
	}
	add := func(pattern *regexp.Regexp, label func(string, int) string) {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			for start < end && unicode.IsSpace(rune(text[start])) {
				start++
			}
			if overlaps(start, end) {
				continue
			}
			if l := label(text[start:end], start); l != "" {
				matches = append(matches, match{start: start, end: end, label: l})
			}
		}
	}

	fixed := func(l string) func(string, int) string {
		return func(string, int) string { return l }
	}
	add(moneyPattern, fixed("MONEY"))
	add(timePattern, fixed("TIME"))
	add(datePattern, fixed("DATE"))
	add(numPattern, fixed("CARDINAL"))
	add(capsPattern, func(s string, start int) string {
		return properNounLabel(s, start, sentenceStarts)
	})

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	spans := make([]Span, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, Span{
			Text:  text[m.start:m.end],
			Label: m.label,
			Start: utf8.RuneCountInString(text[:m.start]),
			End:   utf8.RuneCountInString(text[:m.end]),
		})
	}
	return spans
}

func properNounLabel(s string, start int, sentenceStarts map[int]struct{}) string {
	words := strings.Fields(s)
	switch words[0] {
	case "Mr.", "Mrs.", "Ms.", "Dr.":
		if len(words) > 1 {
			return "PERSON"
		}
		return ""
	}
	if _, ok := places[s]; ok {
		return "GPE"
	}
	if _, ok := orgSuffixes[words[len(words)-1]]; ok && len(words) > 1 {
		return "ORG"
	}
	if len(words) == 1 {
		if _, atStart := sentenceStarts[start]; atStart || IsStopWord(strings.ToLower(s)) {
			return ""
		}
		return "MISC"
	}
	if _, atStart := sentenceStarts[start]; atStart && IsStopWord(strings.ToLower(words[0])) {
		return ""
	}
	return "PERSON"
}
