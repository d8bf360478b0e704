package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"speech-insight/internal/app/model"
	"speech-insight/internal/app/repository"
)

// Row is one recording with whatever analysis it has
type Row struct {
	Audio      model.AudioRecord
	Transcript *model.Transcript
	Analysis   *model.Analysis
	Entities   []model.Entity
}

// Collect loads every recording, optionally of one status, with its results
func Collect(ctx context.Context, store repository.Store, status model.Status) ([]Row, error) {
	var rows []Row
	for skip := 0; ; skip += repository.MaxListLimit {
		records, total, err := store.ListAudio(ctx, repository.AudioFilter{
			Skip:   skip,
			Limit:  repository.MaxListLimit,
			Status: status,
		})
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			row := Row{Audio: record}
			row.Transcript, err = store.GetTranscriptByAudio(ctx, record.ID)
			if err != nil {
				return nil, err
			}
			if row.Transcript != nil {
				if row.Analysis, err = store.GetAnalysisByTranscript(ctx, row.Transcript.ID); err != nil {
					return nil, err
				}
				if row.Entities, err = store.ListEntities(ctx, row.Transcript.ID, ""); err != nil {
					return nil, err
				}
			}
			rows = append(rows, row)
		}
		if len(records) == 0 || skip+len(records) >= total {
			break
		}
	}
	return rows, nil
}

var recordingHeaders = []string{
	"ID", "Original Filename", "Status", "Created At", "Processed At", "Language", "Word Count",
	"Sentiment", "Sentiment Confidence", "Topics", "Key Phrases", "Action Items", "Summary",
	"Transcript", "Error Message",
}

var entityHeaders = []string{"Audio ID", "Text", "Label", "Start", "End", "Confidence"}

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().Value = h
	}
}

// ToExcel writes a Recordings sheet and an Entities sheet to outputFilePath
func ToExcel(rows []Row, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Recordings")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	entitySheet, err := file.AddSheet("Entities")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	addHeader(sheet, recordingHeaders)
	addHeader(entitySheet, entityHeaders)

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.Audio.ID
		row.AddCell().Value = r.Audio.OriginalFilename
		row.AddCell().Value = string(r.Audio.Status)
		row.AddCell().Value = r.Audio.CreatedAt.Format(time.RFC3339)
		processedAt := ""
		if r.Audio.ProcessedAt != nil {
			processedAt = r.Audio.ProcessedAt.Format(time.RFC3339)
		}
		row.AddCell().Value = processedAt

		if r.Transcript != nil {
			row.AddCell().Value = r.Transcript.Language
			row.AddCell().SetInt(r.Transcript.WordCount)
		} else {
			row.AddCell()
			row.AddCell()
		}

		if r.Analysis != nil {
			row.AddCell().Value = string(r.Analysis.OverallSentiment)
			row.AddCell().SetFloat(r.Analysis.SentimentConfidence)
			row.AddCell().Value = strings.Join(r.Analysis.Topics, ", ")
			row.AddCell().Value = strings.Join(r.Analysis.KeyPhrases, "; ")
			row.AddCell().Value = strings.Join(r.Analysis.ActionItems, "\n")
			row.AddCell().Value = r.Analysis.Summary
		} else {
			for i := 0; i < 6; i++ {
				row.AddCell()
			}
		}

		transcript := ""
		if r.Transcript != nil {
			transcript = r.Transcript.FullText
		}
		row.AddCell().Value = transcript
		row.AddCell().Value = r.Audio.ErrorMessage

		for _, e := range r.Entities {
			erow := entitySheet.AddRow()
			erow.AddCell().Value = r.Audio.ID
			erow.AddCell().Value = e.Text
			erow.AddCell().Value = e.Label
			erow.AddCell().SetInt(e.StartChar)
			erow.AddCell().SetInt(e.EndChar)
			erow.AddCell().SetFloat(e.Confidence)
		}
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFilePath, err)
	}
	return nil
}
