package main

import (
	"speech-insight/cmd/sia/cmd"
)

// @title Speech Insight API
// @version 1.0
// @description Transcribes call recordings and analyses sentiment, entities, summaries and topics.
// @BasePath /api/v1
func main() {
	cmd.Execute()
}
