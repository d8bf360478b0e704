package summary

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	// DefaultKeyPhrases is the number of key phrases returned by default
	DefaultKeyPhrases = 5
	// MaxActionItems caps the number of action items per text
	MaxActionItems = 5
)

// actionPatterns are tried in order; the first match marks a sentence as an action item
var actionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(need to|needs to|should|must|will|going to|have to|has to)\b`),
	regexp.MustCompile(`(?i)\b(please|kindly|ensure|make sure|follow up|schedule|call|email|send)\b`),
	regexp.MustCompile(`(?i)\b(action required|next step|todo|to-do|task)\b`),
}

type topic struct {
	name     string
	keywords []string
}

// topicKeywords is ordered; the order fixes the order of detected topics
var topicKeywords = []topic{
	{"billing", []string{"bill", "charge", "payment", "invoice", "fee", "cost", "price"}},
	{"technical", []string{"error", "issue", "problem", "bug", "crash", "not working", "broken"}},
	{"account", []string{"account", "login", "password", "profile", "settings", "access"}},
	{"shipping", []string{"delivery", "shipping", "package", "order", "track", "arrive"}},
	{"refund", []string{"refund", "return", "exchange", "money back", "cancel"}},
	{"product", []string{"product", "item", "feature", "quality", "defect"}},
	{"support", []string{"help", "support", "assist", "service", "representative"}},
	{"complaint", []string{"complaint", "unhappy", "frustrated", "disappointed", "angry"}},
}

// TopicNames lists the topic categories in detection order
func TopicNames() []string {
	return lo.Map(topicKeywords, func(t topic, _ int) string { return t.name })
}

// Topics returns the categories with at least one keyword occurring in text
func Topics(text string) []string {
	found := []string{}
	if text == "" {
		return found
	}

	lower := strings.ToLower(text)
	for _, t := range topicKeywords {
		if lo.SomeBy(t.keywords, func(k string) bool { return strings.Contains(lower, k) }) {
			found = append(found, t.name)
		}
	}
	return found
}

// ActionItems returns the sentences that match an action pattern, in sentence
// order, without repeats, at most MaxActionItems of them.
func ActionItems(sentences []string) []string {
	items := []string{}
	for _, sent := range sentences {
		for _, pattern := range actionPatterns {
			if pattern.MatchString(sent) {
				if !lo.Contains(items, sent) {
					items = append(items, sent)
				}
				break
			}
		}
	}
	if len(items) > MaxActionItems {
		items = items[:MaxActionItems]
	}
	return items
}

// RankKeyPhrases keeps multi-word noun chunks longer than five characters and
// returns the topN most frequent. Equal counts keep first-seen order.
func RankKeyPhrases(chunks []string, topN int) []string {
	phrases := lo.FilterMap(chunks, func(chunk string, _ int) (string, bool) {
		phrase := strings.ToLower(strings.TrimSpace(chunk))
		return phrase, len(strings.Fields(phrase)) >= 2 && utf8.RuneCountInString(phrase) > 5
	})

	counts := lo.CountValues(phrases)
	ranked := lo.Uniq(phrases)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})

	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
