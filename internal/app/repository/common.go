package repository

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// Dialect describes the SQL differences between supported drivers
type Dialect struct {
	DriverName   string
	Placeholders PlaceholderFunc
	Schema       string
}

// DialectFor returns the dialect of a database/sql driver name
func DialectFor(driverName string) Dialect {
	switch driverName {
	case "postgres":
		return Dialect{
			DriverName:   driverName,
			Placeholders: func(n int) string { return fmt.Sprintf("$%d", n) },
			Schema:       postgresSchema,
		}
	default:
		return Dialect{
			DriverName:   driverName,
			Placeholders: func(n int) string { return "?" },
			Schema:       sqliteSchema,
		}
	}
}

// bind rewrites each ? in query to the dialect's placeholder
func (d Dialect) bind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.Placeholders(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func encodeJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	return string(data), nil
}

func decodeJSON(data string, v interface{}) error {
	if data == "" || data == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("decode json column: %w", err)
	}
	return nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS audio_files (
	id                TEXT PRIMARY KEY,
	filename          TEXT NOT NULL,
	original_filename TEXT NOT NULL,
	file_path         TEXT NOT NULL,
	file_size_bytes   INTEGER NOT NULL,
	duration_seconds  REAL,
	sample_rate       INTEGER,
	channels          INTEGER,
	format            TEXT,
	status            TEXT NOT NULL DEFAULT 'pending',
	error_message     TEXT,
	created_at        TIMESTAMP NOT NULL,
	updated_at        TIMESTAMP NOT NULL,
	processed_at      TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_audio_files_status ON audio_files(status);

CREATE TABLE IF NOT EXISTS transcripts (
	id                      TEXT PRIMARY KEY,
	audio_file_id           TEXT NOT NULL UNIQUE REFERENCES audio_files(id),
	full_text               TEXT NOT NULL,
	language                TEXT NOT NULL,
	language_probability    REAL,
	segments                TEXT,
	word_timestamps         TEXT,
	word_count              INTEGER,
	processing_time_seconds REAL,
	created_at              TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	id                      TEXT PRIMARY KEY,
	transcript_id           TEXT NOT NULL UNIQUE REFERENCES transcripts(id),
	overall_sentiment       TEXT,
	sentiment_confidence    REAL,
	positive_score          REAL,
	negative_score          REAL,
	neutral_score           REAL,
	segment_sentiments      TEXT,
	summary                 TEXT,
	key_phrases             TEXT,
	action_items            TEXT,
	topics                  TEXT,
	processing_time_seconds REAL,
	created_at              TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS entities (
	id            TEXT PRIMARY KEY,
	transcript_id TEXT NOT NULL REFERENCES transcripts(id),
	text          TEXT NOT NULL,
	label         TEXT NOT NULL,
	start_char    INTEGER,
	end_char      INTEGER,
	confidence    REAL,
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entities_transcript ON entities(transcript_id, label);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS audio_files (
	id                VARCHAR(36) PRIMARY KEY,
	filename          VARCHAR(255) NOT NULL,
	original_filename VARCHAR(255) NOT NULL,
	file_path         VARCHAR(512) NOT NULL,
	file_size_bytes   BIGINT NOT NULL,
	duration_seconds  DOUBLE PRECISION,
	sample_rate       INTEGER,
	channels          INTEGER,
	format            VARCHAR(20),
	status            VARCHAR(20) NOT NULL DEFAULT 'pending',
	error_message     TEXT,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL,
	processed_at      TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_audio_files_status ON audio_files(status);

CREATE TABLE IF NOT EXISTS transcripts (
	id                      VARCHAR(36) PRIMARY KEY,
	audio_file_id           VARCHAR(36) NOT NULL UNIQUE REFERENCES audio_files(id),
	full_text               TEXT NOT NULL,
	language                VARCHAR(10) NOT NULL,
	language_probability    DOUBLE PRECISION,
	segments                TEXT,
	word_timestamps         TEXT,
	word_count              INTEGER,
	processing_time_seconds DOUBLE PRECISION,
	created_at              TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	id                      VARCHAR(36) PRIMARY KEY,
	transcript_id           VARCHAR(36) NOT NULL UNIQUE REFERENCES transcripts(id),
	overall_sentiment       VARCHAR(20),
	sentiment_confidence    DOUBLE PRECISION,
	positive_score          DOUBLE PRECISION,
	negative_score          DOUBLE PRECISION,
	neutral_score           DOUBLE PRECISION,
	segment_sentiments      TEXT,
	summary                 TEXT,
	key_phrases             TEXT,
	action_items            TEXT,
	topics                  TEXT,
	processing_time_seconds DOUBLE PRECISION,
	created_at              TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS entities (
	id            VARCHAR(36) PRIMARY KEY,
	transcript_id VARCHAR(36) NOT NULL REFERENCES transcripts(id),
	text          TEXT NOT NULL,
	label         VARCHAR(50) NOT NULL,
	start_char    INTEGER,
	end_char      INTEGER,
	confidence    DOUBLE PRECISION,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entities_transcript ON entities(transcript_id, label);
`
