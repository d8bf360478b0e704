package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"speech-insight/internal/app/model"
	"speech-insight/internal/app/repository"
	"speech-insight/internal/app/testutil"
)

func TestCollectAndExport(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewSQLiteStore(t)
	files := testutil.NewLocalStore(t)

	done := testutil.SeedAudio(t, store, files, "done.wav", "a")
	failed := testutil.SeedAudio(t, store, files, "failed.wav", "b")

	ok, err := store.MarkProcessing(ctx, done.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.CommitRun(ctx, &repository.Run{
		AudioID:    done.ID,
		Transcript: &model.Transcript{FullText: "Call Acme Corp today.", Language: "en", WordCount: 4},
		Analysis: &model.Analysis{
			OverallSentiment:    model.SentimentNeutral,
			SentimentConfidence: 0.7,
			Topics:              []string{"support"},
			ActionItems:         []string{"Call Acme Corp today."},
			KeyPhrases:          []string{},
		},
		Entities:    []model.Entity{{Text: "Acme Corp", Label: "ORG", StartChar: 5, EndChar: 14, Confidence: 1}},
		CompletedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.MarkFailed(ctx, failed.ID, "engine exploded"))

	rows, err := Collect(ctx, store, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	completed, err := Collect(ctx, store, model.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.NotNil(t, completed[0].Analysis)
	assert.Len(t, completed[0].Entities, 1)

	out := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, ToExcel(rows, out))

	file, err := xlsx.OpenFile(out)
	require.NoError(t, err)
	recordings := file.Sheet["Recordings"]
	require.NotNil(t, recordings)
	require.Len(t, recordings.Rows, 3)
	assert.Equal(t, "ID", recordings.Rows[0].Cells[0].Value)

	byID := map[string]*xlsx.Row{}
	for _, row := range recordings.Rows[1:] {
		byID[row.Cells[0].Value] = row
	}
	assert.Equal(t, "completed", byID[done.ID].Cells[2].Value)
	assert.Equal(t, "support", byID[done.ID].Cells[9].Value)
	assert.Equal(t, "engine exploded", byID[failed.ID].Cells[14].Value)

	entities := file.Sheet["Entities"]
	require.NotNil(t, entities)
	require.Len(t, entities.Rows, 2)
	assert.Equal(t, "Acme Corp", entities.Rows[1].Cells[1].Value)
}
