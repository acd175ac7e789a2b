package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Schema for PostgreSQL deployments. The partial unique index plays the same
// single-flight role as in the sqlite schema.
const schema = `
CREATE TABLE IF NOT EXISTS transcription_jobs (
	id                 TEXT PRIMARY KEY,
	meeting_id         TEXT NOT NULL,
	user_id            TEXT NOT NULL,
	external_job_id    TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL CHECK (status IN ('queued','processing','done','failed')),
	consent_recording  BOOLEAN NOT NULL,
	consent_processing BOOLEAN NOT NULL,
	consent_date       TIMESTAMPTZ NOT NULL,
	transcribed_text   TEXT,
	segments           TEXT,
	error_message      TEXT NOT NULL DEFAULT '',
	engine_endpoint    TEXT NOT NULL DEFAULT '',
	audio_object_key   TEXT NOT NULL DEFAULT '',
	audio_deleted_at   TIMESTAMPTZ,
	deleted_at         TIMESTAMPTZ,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_single_flight
	ON transcription_jobs(meeting_id)
	WHERE status IN ('queued','processing');
`

// Open connects to PostgreSQL with the given DSN and applies the job schema.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}
