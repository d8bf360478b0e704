package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "speech-insight/internal/app/errors"
	"speech-insight/internal/app/model"
)

func newMockStore(t *testing.T, driverName string) (*SQLStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(db, driverName), mock
}

func audioRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "filename", "original_filename", "file_path", "file_size_bytes", "duration_seconds",
		"sample_rate", "channels", "format", "status", "error_message", "created_at", "updated_at", "processed_at",
	})
}

func TestDialect_Bind(t *testing.T) {
	query := `UPDATE audio_files SET status = ? WHERE id = ? AND status NOT IN (?, ?)`

	assert.Equal(t, query, DialectFor("sqlite3").bind(query))
	assert.Equal(t,
		`UPDATE audio_files SET status = $1 WHERE id = $2 AND status NOT IN ($3, $4)`,
		DialectFor("postgres").bind(query))
}

func TestSQLStore_GetAudio(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t, "sqlite3")
		mock.ExpectQuery(regexp.QuoteMeta("FROM audio_files WHERE id = ?")).
			WithArgs("a1").
			WillReturnRows(audioRows().AddRow("a1", "x.wav", "call.wav", "data/x.wav", 1024, 12.5,
				nil, nil, "wav", "failed", "boom", now, now, nil))

		record, err := store.GetAudio(ctx, "a1")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, model.StatusFailed, record.Status)
		assert.Equal(t, "boom", record.ErrorMessage)
		assert.Equal(t, 12.5, *record.DurationSeconds)
		assert.Nil(t, record.SampleRate)
		assert.Nil(t, record.ProcessedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		store, mock := newMockStore(t, "postgres")
		mock.ExpectQuery(regexp.QuoteMeta("FROM audio_files WHERE id = $1")).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		record, err := store.GetAudio(ctx, "nope")
		assert.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("query error", func(t *testing.T) {
		store, mock := newMockStore(t, "sqlite3")
		mock.ExpectQuery("FROM audio_files").WillReturnError(errors.New("connection reset"))

		_, err := store.GetAudio(ctx, "a1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query failed")
		assert.True(t, errors.Is(err, apperrors.ErrQueryFailed))
	})
}

func TestSQLStore_ListAudio(t *testing.T) {
	store, mock := newMockStore(t, "postgres")
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audio_files WHERE status = $1")).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs("pending", MaxListLimit, 5).
		WillReturnRows(audioRows().
			AddRow("a1", "1.mp3", "one.mp3", "data/1.mp3", 10, nil, 16000, 1, "mp3", "pending", nil, now, now, nil).
			AddRow("a2", "2.mp3", "two.mp3", "data/2.mp3", 20, nil, nil, nil, nil, "pending", nil, now, now, nil))

	records, total, err := store.ListAudio(context.Background(), AudioFilter{Skip: 5, Limit: 500, Status: model.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, records, 2)
	assert.Equal(t, 16000, *records[0].SampleRate)
	assert.Equal(t, "", records[1].Format)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_MarkProcessing(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "runnable record", affected: 1, want: true},
		{name: "already processing or completed", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t, "sqlite3")
			mock.ExpectExec(regexp.QuoteMeta("UPDATE audio_files SET status = ?, error_message = NULL, updated_at = ?")).
				WithArgs("processing", sqlmock.AnyArg(), "a1", "processing", "completed").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := store.MarkProcessing(context.Background(), "a1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_MarkFailed(t *testing.T) {
	store, mock := newMockStore(t, "sqlite3")
	mock.ExpectExec(regexp.QuoteMeta("UPDATE audio_files SET status = ?, error_message = ?")).
		WithArgs("failed", "engine exploded", sqlmock.AnyArg(), "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.MarkFailed(context.Background(), "a1", "engine exploded"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func testRun() *Run {
	return &Run{
		AudioID: "a1",
		Transcript: &model.Transcript{
			ID:       "t1",
			FullText: "Call Alice.",
			Language: "en",
			Segments: []model.Segment{{ID: 0, Text: "Call Alice.", End: 1}},
		},
		Analysis: &model.Analysis{OverallSentiment: model.SentimentNeutral},
		Entities: []model.Entity{{Text: "Alice", Label: "PERSON", StartChar: 5, EndChar: 10, Confidence: 1}},
	}
}

func TestSQLStore_CommitRun(t *testing.T) {
	ctx := context.Background()

	t.Run("commits all rows", func(t *testing.T) {
		store, mock := newMockStore(t, "sqlite3")
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transcripts")).
			WithArgs("t1", "a1", "Call Alice.", "en", 0.0, `[{"id":0,"text":"Call Alice.","start":0,"end":1}]`,
				"null", 0, 0.0, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analyses")).WillReturnResult(sqlmock.NewResult(1, 1))
		prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO entities"))
		prep.ExpectExec().
			WithArgs(sqlmock.AnyArg(), "t1", "Alice", "PERSON", 5, 10, 1.0, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE audio_files SET status = ?, error_message = NULL, updated_at = ?, processed_at = ?")).
			WithArgs("completed", sqlmock.AnyArg(), sqlmock.AnyArg(), "a1", "processing").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		run := testRun()
		require.NoError(t, store.CommitRun(ctx, run))
		assert.Equal(t, "t1", run.Analysis.TranscriptID)
		assert.NotEmpty(t, run.Analysis.ID)
		assert.Equal(t, "t1", run.Entities[0].TranscriptID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when an insert fails", func(t *testing.T) {
		store, mock := newMockStore(t, "sqlite3")
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transcripts")).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analyses")).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO entities")).
			ExpectExec().
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := store.CommitRun(ctx, testRun())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.True(t, errors.Is(err, apperrors.ErrInsertFailed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the record left processing", func(t *testing.T) {
		store, mock := newMockStore(t, "sqlite3")
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO transcripts").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO analyses").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectPrepare("INSERT INTO entities").ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("UPDATE audio_files").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := store.CommitRun(ctx, testRun())
		assert.True(t, errors.Is(err, apperrors.ErrUpdateFailed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("requires transcript and analysis", func(t *testing.T) {
		store, _ := newMockStore(t, "sqlite3")
		assert.Error(t, store.CommitRun(ctx, &Run{AudioID: "a1"}))
	})
}

func TestSQLStore_DeleteAudio(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "existing", affected: 1, want: true},
		{name: "missing", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t, "postgres")
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM entities")).WithArgs("a1").WillReturnResult(sqlmock.NewResult(0, 2))
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM analyses")).WithArgs("a1").WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM transcripts WHERE audio_file_id = $1")).WithArgs("a1").WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM audio_files WHERE id = $1")).WithArgs("a1").WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			deleted, err := store.DeleteAudio(context.Background(), "a1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, deleted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_ListEntities(t *testing.T) {
	store, mock := newMockStore(t, "sqlite3")
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM entities WHERE transcript_id = ? AND label = ? ORDER BY start_char")).
		WithArgs("t1", "PERSON").
		WillReturnRows(sqlmock.NewRows([]string{"id", "transcript_id", "text", "label", "start_char", "end_char", "confidence", "created_at"}).
			AddRow("e1", "t1", "Alice", "PERSON", 5, 10, 1.0, now))

	entities, err := store.ListEntities(context.Background(), "t1", "PERSON")
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, 10, entities[0].EndChar)
}

func TestSQLStore_Close(t *testing.T) {
	store, mock := newMockStore(t, "sqlite3")
	mock.ExpectClose()
	assert.NoError(t, store.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
