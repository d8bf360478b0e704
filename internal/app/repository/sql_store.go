package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "speech-insight/internal/app/errors"
	"speech-insight/internal/app/model"
)

// SQLStore implements Store over database/sql for SQLite and PostgreSQL
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore wraps an open connection; driverName selects the dialect
func NewSQLStore(db *sql.DB, driverName string) *SQLStore {
	return &SQLStore{
		db:      db,
		dialect: DialectFor(driverName),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates missing tables and indexes
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Schema); err != nil {
		return fmt.Errorf("create schema failed: %w", err)
	}
	return nil
}

// DB returns the underlying database connection
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the connection
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.ErrDatabaseConnection.With(err)
	}
	return nil
}

func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction failed: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

type scanner interface {
	Scan(dest ...interface{}) error
}

const audioColumns = `id, filename, original_filename, file_path, file_size_bytes, duration_seconds,
	sample_rate, channels, format, status, error_message, created_at, updated_at, processed_at`

func scanAudio(row scanner) (*model.AudioRecord, error) {
	var (
		r                  model.AudioRecord
		status             string
		duration           sql.NullFloat64
		sampleRate         sql.NullInt64
		channels           sql.NullInt64
		format, errMessage sql.NullString
		processedAt        sql.NullTime
	)
	err := row.Scan(&r.ID, &r.Filename, &r.OriginalFilename, &r.FilePath, &r.FileSizeBytes, &duration,
		&sampleRate, &channels, &format, &status, &errMessage, &r.CreatedAt, &r.UpdatedAt, &processedAt)
	if err != nil {
		return nil, err
	}

	r.Status = model.Status(status)
	r.Format = format.String
	r.ErrorMessage = errMessage.String
	if duration.Valid {
		r.DurationSeconds = &duration.Float64
	}
	if sampleRate.Valid {
		v := int(sampleRate.Int64)
		r.SampleRate = &v
	}
	if channels.Valid {
		v := int(channels.Int64)
		r.Channels = &v
	}
	if processedAt.Valid {
		r.ProcessedAt = &processedAt.Time
	}
	return &r, nil
}

// CreateAudio inserts a record, filling in id, status and timestamps when unset
func (s *SQLStore) CreateAudio(ctx context.Context, r *model.AudioRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = model.StatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.UpdatedAt = r.CreatedAt

	query := s.dialect.bind(`INSERT INTO audio_files (
		id, filename, original_filename, file_path, file_size_bytes, duration_seconds,
		sample_rate, channels, format, status, error_message, created_at, updated_at, processed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Filename, r.OriginalFilename, r.FilePath, r.FileSizeBytes, r.DurationSeconds,
		r.SampleRate, r.Channels, nullString(r.Format), string(r.Status), nullString(r.ErrorMessage),
		r.CreatedAt, r.UpdatedAt, r.ProcessedAt)
	if err != nil {
		return apperrors.ErrInsertFailed.With(err)
	}
	return nil
}

// GetAudio loads one record
func (s *SQLStore) GetAudio(ctx context.Context, id string) (*model.AudioRecord, error) {
	query := s.dialect.bind(`SELECT ` + audioColumns + ` FROM audio_files WHERE id = ?`)
	r, err := scanAudio(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrQueryFailed.With(err)
	}
	return r, nil
}

// ListAudio returns one page of records and the total matching the filter
func (s *SQLStore) ListAudio(ctx context.Context, filter AudioFilter) ([]model.AudioRecord, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	where := ""
	var args []interface{}
	if filter.Status != "" {
		where = " WHERE status = ?"
		args = append(args, string(filter.Status))
	}

	var total int
	countQuery := s.dialect.bind(`SELECT COUNT(*) FROM audio_files` + where)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.ErrQueryFailed.With(err)
	}

	query := s.dialect.bind(`SELECT ` + audioColumns + ` FROM audio_files` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`)
	rows, err := s.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Skip)...)
	if err != nil {
		return nil, 0, apperrors.ErrQueryFailed.With(err)
	}
	defer rows.Close()

	records := []model.AudioRecord{}
	for rows.Next() {
		r, err := scanAudio(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan failed: %w", err)
		}
		records = append(records, *r)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return records, total, nil
}

// DeleteAudio removes entities, analysis, transcript and the record in one transaction
func (s *SQLStore) DeleteAudio(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cascade := []string{
			`DELETE FROM entities WHERE transcript_id IN (SELECT id FROM transcripts WHERE audio_file_id = ?)`,
			`DELETE FROM analyses WHERE transcript_id IN (SELECT id FROM transcripts WHERE audio_file_id = ?)`,
			`DELETE FROM transcripts WHERE audio_file_id = ?`,
		}
		for _, q := range cascade {
			if _, err := tx.ExecContext(ctx, s.dialect.bind(q), id); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, s.dialect.bind(`DELETE FROM audio_files WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// MarkProcessing implements Store
func (s *SQLStore) MarkProcessing(ctx context.Context, id string) (bool, error) {
	query := s.dialect.bind(`UPDATE audio_files SET status = ?, error_message = NULL, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?)`)
	res, err := s.db.ExecContext(ctx, query,
		string(model.StatusProcessing), s.now(), id,
		string(model.StatusProcessing), string(model.StatusCompleted))
	if err != nil {
		return false, apperrors.ErrUpdateFailed.With(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.ErrUpdateFailed.With(err)
	}
	return n == 1, nil
}

// MarkFailed records a failed run
func (s *SQLStore) MarkFailed(ctx context.Context, id string, message string) error {
	query := s.dialect.bind(`UPDATE audio_files SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`)
	if _, err := s.db.ExecContext(ctx, query, string(model.StatusFailed), message, s.now(), id); err != nil {
		return apperrors.ErrUpdateFailed.With(err)
	}
	return nil
}

// CommitRun implements Store. The record must still be processing.
func (s *SQLStore) CommitRun(ctx context.Context, run *Run) error {
	if run == nil || run.Transcript == nil || run.Analysis == nil {
		return apperrors.RequiredField("run transcript and analysis")
	}
	if run.CompletedAt.IsZero() {
		run.CompletedAt = s.now()
	}

	t := run.Transcript
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.AudioFileID = run.AudioID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = run.CompletedAt
	}

	a := run.Analysis
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.TranscriptID = t.ID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = run.CompletedAt
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.insertTranscript(ctx, tx, t); err != nil {
			return err
		}
		if err := s.insertAnalysis(ctx, tx, a); err != nil {
			return err
		}
		if err := s.insertEntities(ctx, tx, t.ID, run.Entities, run.CompletedAt); err != nil {
			return err
		}

		query := s.dialect.bind(`UPDATE audio_files SET status = ?, error_message = NULL, updated_at = ?, processed_at = ?
			WHERE id = ? AND status = ?`)
		res, err := tx.ExecContext(ctx, query,
			string(model.StatusCompleted), run.CompletedAt, run.CompletedAt,
			run.AudioID, string(model.StatusProcessing))
		if err != nil {
			return apperrors.ErrUpdateFailed.With(err)
		}
		if n, err := res.RowsAffected(); err != nil || n != 1 {
			return apperrors.ErrUpdateFailed.With(fmt.Errorf("audio %s is no longer processing", run.AudioID))
		}
		return nil
	})
}

func (s *SQLStore) insertTranscript(ctx context.Context, tx *sql.Tx, t *model.Transcript) error {
	segments, err := encodeJSON(t.Segments)
	if err != nil {
		return err
	}
	words, err := encodeJSON(t.WordTimestamps)
	if err != nil {
		return err
	}

	query := s.dialect.bind(`INSERT INTO transcripts (
		id, audio_file_id, full_text, language, language_probability, segments,
		word_timestamps, word_count, processing_time_seconds, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = tx.ExecContext(ctx, query,
		t.ID, t.AudioFileID, t.FullText, t.Language, t.LanguageProbability, segments,
		words, t.WordCount, t.ProcessingTimeSeconds, t.CreatedAt)
	if err != nil {
		return apperrors.ErrInsertFailed.With(fmt.Errorf("transcript: %w", err))
	}
	return nil
}

func (s *SQLStore) insertAnalysis(ctx context.Context, tx *sql.Tx, a *model.Analysis) error {
	columns := make([]string, 0, 4)
	for _, v := range []interface{}{a.SegmentSentiments, a.KeyPhrases, a.ActionItems, a.Topics} {
		encoded, err := encodeJSON(v)
		if err != nil {
			return err
		}
		columns = append(columns, encoded)
	}

	query := s.dialect.bind(`INSERT INTO analyses (
		id, transcript_id, overall_sentiment, sentiment_confidence, positive_score, negative_score,
		neutral_score, segment_sentiments, summary, key_phrases, action_items, topics,
		processing_time_seconds, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := tx.ExecContext(ctx, query,
		a.ID, a.TranscriptID, string(a.OverallSentiment), a.SentimentConfidence, a.PositiveScore,
		a.NegativeScore, a.NeutralScore, columns[0], a.Summary, columns[1], columns[2], columns[3],
		a.ProcessingTimeSeconds, a.CreatedAt)
	if err != nil {
		return apperrors.ErrInsertFailed.With(fmt.Errorf("analysis: %w", err))
	}
	return nil
}

func (s *SQLStore) insertEntities(ctx context.Context, tx *sql.Tx, transcriptID string, entities []model.Entity, at time.Time) error {
	if len(entities) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, s.dialect.bind(`INSERT INTO entities (
		id, transcript_id, text, label, start_char, end_char, confidence, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare failed: %w", err)
	}
	defer stmt.Close()

	for i := range entities {
		e := &entities[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		e.TranscriptID = transcriptID
		if e.CreatedAt.IsZero() {
			e.CreatedAt = at
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.TranscriptID, e.Text, e.Label, e.StartChar, e.EndChar, e.Confidence, e.CreatedAt); err != nil {
			return apperrors.ErrInsertFailed.With(fmt.Errorf("entity: %w", err))
		}
	}
	return nil
}

// GetTranscriptByAudio loads the transcript of an audio record
func (s *SQLStore) GetTranscriptByAudio(ctx context.Context, audioID string) (*model.Transcript, error) {
	query := s.dialect.bind(`SELECT id, audio_file_id, full_text, language, language_probability, segments,
		word_timestamps, word_count, processing_time_seconds, created_at
		FROM transcripts WHERE audio_file_id = ?`)

	var (
		t               model.Transcript
		probability     sql.NullFloat64
		elapsed         sql.NullFloat64
		wordCount       sql.NullInt64
		segments, words sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, audioID).Scan(&t.ID, &t.AudioFileID, &t.FullText, &t.Language,
		&probability, &segments, &words, &wordCount, &elapsed, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrQueryFailed.With(err)
	}

	t.LanguageProbability = probability.Float64
	t.ProcessingTimeSeconds = elapsed.Float64
	t.WordCount = int(wordCount.Int64)
	if err := decodeJSON(segments.String, &t.Segments); err != nil {
		return nil, err
	}
	if err := decodeJSON(words.String, &t.WordTimestamps); err != nil {
		return nil, err
	}
	if t.Segments == nil {
		t.Segments = []model.Segment{}
	}
	return &t, nil
}

// GetAnalysisByTranscript loads the analysis of a transcript
func (s *SQLStore) GetAnalysisByTranscript(ctx context.Context, transcriptID string) (*model.Analysis, error) {
	query := s.dialect.bind(`SELECT id, transcript_id, overall_sentiment, sentiment_confidence, positive_score,
		negative_score, neutral_score, segment_sentiments, summary, key_phrases, action_items, topics,
		processing_time_seconds, created_at
		FROM analyses WHERE transcript_id = ?`)

	var (
		a                                  model.Analysis
		label, summary                     sql.NullString
		confidence, pos, neg, neu, elapsed sql.NullFloat64
		segments, phrases, actions, topics sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, transcriptID).Scan(&a.ID, &a.TranscriptID, &label, &confidence,
		&pos, &neg, &neu, &segments, &summary, &phrases, &actions, &topics, &elapsed, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrQueryFailed.With(err)
	}

	a.OverallSentiment = model.SentimentLabel(label.String)
	a.SentimentConfidence = confidence.Float64
	a.PositiveScore = pos.Float64
	a.NegativeScore = neg.Float64
	a.NeutralScore = neu.Float64
	a.Summary = summary.String
	a.ProcessingTimeSeconds = elapsed.Float64

	decode := []struct {
		data   string
		target interface{}
	}{
		{segments.String, &a.SegmentSentiments},
		{phrases.String, &a.KeyPhrases},
		{actions.String, &a.ActionItems},
		{topics.String, &a.Topics},
	}
	for _, d := range decode {
		if err := decodeJSON(d.data, d.target); err != nil {
			return nil, err
		}
	}
	if a.KeyPhrases == nil {
		a.KeyPhrases = []string{}
	}
	if a.ActionItems == nil {
		a.ActionItems = []string{}
	}
	if a.Topics == nil {
		a.Topics = []string{}
	}
	return &a, nil
}

// ListEntities returns a transcript's entities in text order, optionally of one label
func (s *SQLStore) ListEntities(ctx context.Context, transcriptID string, label string) ([]model.Entity, error) {
	query := `SELECT id, transcript_id, text, label, start_char, end_char, confidence, created_at
		FROM entities WHERE transcript_id = ?`
	args := []interface{}{transcriptID}
	if label != "" {
		query += ` AND label = ?`
		args = append(args, label)
	}
	query += ` ORDER BY start_char`

	rows, err := s.db.QueryContext(ctx, s.dialect.bind(query), args...)
	if err != nil {
		return nil, apperrors.ErrQueryFailed.With(err)
	}
	defer rows.Close()

	entities := []model.Entity{}
	for rows.Next() {
		var (
			e          model.Entity
			start, end sql.NullInt64
			confidence sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.TranscriptID, &e.Text, &e.Label, &start, &end, &confidence, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.StartChar = int(start.Int64)
		e.EndChar = int(end.Int64)
		e.Confidence = confidence.Float64
		entities = append(entities, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entities, nil
}
