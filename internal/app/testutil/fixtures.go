package testutil

import "speech-insight/internal/app/transcription"

// RefundCallText is a short customer call with one action item
const RefundCallText = "I want a refund for my broken order. Please call me back."

// SupportCallText is a longer call used for summaries and entities
const SupportCallText = "Hello, this is Sarah Johnson from Acme Corp. " +
	"My invoice from March 3 charged me $49.99 twice. " +
	"I need a refund for the duplicate payment. " +
	"The app also crashes when I open my account settings. " +
	"Please send me an email once the billing team has looked at it."

// ResponseFor wraps text as a single-segment engine response
func ResponseFor(text string, seconds float64) *transcription.Response {
	return &transcription.Response{
		Text:     text,
		Language: "en",
		Duration: seconds,
		Segments: []transcription.Segment{{ID: 0, Text: text, Start: 0, End: seconds}},
	}
}
