package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Schema for the pipeline tables. The partial unique index on
// transcription_jobs is the storage-level arbiter of the single-flight
// invariant: at most one queued/processing job per meeting can ever exist,
// whatever the callers do.
const schema = `
CREATE TABLE IF NOT EXISTS transcription_jobs (
	id                 TEXT PRIMARY KEY,
	meeting_id         TEXT NOT NULL,
	user_id            TEXT NOT NULL,
	external_job_id    TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL CHECK (status IN ('queued','processing','done','failed')),
	consent_recording  INTEGER NOT NULL,
	consent_processing INTEGER NOT NULL,
	consent_date       TIMESTAMP NOT NULL,
	transcribed_text   TEXT,
	segments           TEXT,
	error_message      TEXT NOT NULL DEFAULT '',
	engine_endpoint    TEXT NOT NULL DEFAULT '',
	audio_object_key   TEXT NOT NULL DEFAULT '',
	audio_deleted_at   TIMESTAMP,
	deleted_at         TIMESTAMP,
	created_at         TIMESTAMP NOT NULL,
	updated_at         TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_single_flight
	ON transcription_jobs(meeting_id)
	WHERE status IN ('queued','processing');

CREATE INDEX IF NOT EXISTS idx_jobs_meeting ON transcription_jobs(meeting_id);
CREATE INDEX IF NOT EXISTS idx_jobs_deleted ON transcription_jobs(deleted_at) WHERE deleted_at IS NOT NULL;

CREATE TABLE IF NOT EXISTS meetings (
	id              TEXT PRIMARY KEY,
	owner_id        TEXT NOT NULL,
	project_id      TEXT NOT NULL DEFAULT '',
	title           TEXT NOT NULL,
	date            TIMESTAMP NOT NULL,
	participants    TEXT NOT NULL DEFAULT '',
	context         TEXT NOT NULL DEFAULT '',
	raw_notes       TEXT NOT NULL DEFAULT '',
	extraction_json TEXT NOT NULL DEFAULT '',
	analyzed_at     TIMESTAMP,
	created_at      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	archived   INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS project_members (
	project_id TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	PRIMARY KEY (project_id, user_id)
);

CREATE TABLE IF NOT EXISTS decisions (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	meeting_id TEXT NOT NULL DEFAULT '',
	author_id  TEXT NOT NULL,
	title      TEXT NOT NULL,
	context    TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS action_items (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL,
	meeting_id  TEXT NOT NULL DEFAULT '',
	assignee_id TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	due_date    TIMESTAMP,
	created_at  TIMESTAMP NOT NULL
);
`

// Open opens (or creates) the sqlite database at dbFilePath and applies the
// schema.
func Open(dbFilePath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}

// OpenInMemory opens a private in-memory database, used by tests.
func OpenInMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps the shared in-memory database alive and
	// serializes concurrent test writers the way the file driver does.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}
