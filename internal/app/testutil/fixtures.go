package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"meetscribe/internal/app/model"
	"meetscribe/internal/app/repository/sqlite"
)

// OpenTestDB opens an in-memory database with the schema applied and
// closes it when the test ends.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// SeedProject creates a project owned by ownerID and returns its id.
func SeedProject(t *testing.T, db *sql.DB, ownerID string) string {
	t.Helper()
	projects := sqlite.NewProjectRepository(db)
	p := &model.Project{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      "test project",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, projects.CreateProject(context.Background(), p))
	return p.ID
}

// SeedMeeting creates a meeting owned by ownerID under projectID (may be
// empty) and returns its id.
func SeedMeeting(t *testing.T, db *sql.DB, ownerID, projectID string) string {
	t.Helper()
	meetings := sqlite.NewMeetingRepository(db)
	m := &model.Meeting{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		ProjectID: projectID,
		Title:     "weekly sync",
		Date:      time.Now().UTC(),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, meetings.Create(context.Background(), m))
	return m.ID
}

// SeedJob inserts a queued job for meetingID with both consents granted
// and returns it.
func SeedJob(t *testing.T, db *sql.DB, meetingID, userID string) *model.TranscriptionJob {
	t.Helper()
	jobs := sqlite.NewJobRepository(db)
	now := time.Now().UTC()
	job := &model.TranscriptionJob{
		ID:                uuid.New().String(),
		MeetingID:         meetingID,
		UserID:            userID,
		ExternalJobID:     uuid.New().String(),
		Status:            model.JobStatusQueued,
		ConsentRecording:  true,
		ConsentProcessing: true,
		ConsentDate:       now,
		EngineEndpoint:    "test-engine",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, jobs.Create(context.Background(), job))
	return job
}
