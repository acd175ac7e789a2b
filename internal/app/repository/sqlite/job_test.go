package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetscribe/internal/app/errors"
	"meetscribe/internal/app/model"
)

func newJobRepo(t *testing.T) (*JobRepository, *sql.DB) {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewJobRepository(db), db
}

func newQueuedJob(meetingID string) *model.TranscriptionJob {
	now := time.Now().UTC()
	return &model.TranscriptionJob{
		ID:                uuid.New().String(),
		MeetingID:         meetingID,
		UserID:            "user-1",
		ExternalJobID:     uuid.New().String(),
		Status:            model.JobStatusQueued,
		ConsentRecording:  true,
		ConsentProcessing: true,
		ConsentDate:       now,
		EngineEndpoint:    "test-engine",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	repo, _ := newJobRepo(t)
	ctx := context.Background()

	job := newQueuedJob("meeting-1")
	require.NoError(t, repo.Create(ctx, job))

	got, err := repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, job.MeetingID, got.MeetingID)
	assert.Equal(t, model.JobStatusQueued, got.Status)
	assert.True(t, got.ConsentRecording)
	assert.Nil(t, got.TranscribedText)
	assert.Nil(t, got.DeletedAt)
}

func TestGetMissingJob(t *testing.T) {
	repo, _ := newJobRepo(t)
	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, errors.ErrJobNotFound)
}

func TestSingleFlightIndexRejectsSecondActiveJob(t *testing.T) {
	repo, _ := newJobRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newQueuedJob("meeting-1")))

	err := repo.Create(ctx, newQueuedJob("meeting-1"))
	assert.ErrorIs(t, err, errors.ErrJobConflict)

	// A different meeting is unaffected.
	assert.NoError(t, repo.Create(ctx, newQueuedJob("meeting-2")))
}

func TestSingleFlightIndexIgnoresTerminalJobs(t *testing.T) {
	repo, _ := newJobRepo(t)
	ctx := context.Background()

	first := newQueuedJob("meeting-1")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Fail(ctx, first.ID, "boom"))

	assert.NoError(t, repo.Create(ctx, newQueuedJob("meeting-1")))
}

func TestFindActiveByMeeting(t *testing.T) {
	repo, _ := newJobRepo(t)
	ctx := context.Background()

	found, err := repo.FindActiveByMeeting(ctx, "meeting-1")
	require.NoError(t, err)
	assert.Nil(t, found)

	job := newQueuedJob("meeting-1")
	require.NoError(t, repo.Create(ctx, job))

	found, err = repo.FindActiveByMeeting(ctx, "meeting-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, job.ID, found.ID)
}

func TestUpdateStatusEnforcesForwardTransitions(t *testing.T) {
	repo, _ := newJobRepo(t)
	ctx := context.Background()

	job := newQueuedJob("meeting-1")
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, repo.UpdateStatus(ctx, job.ID, model.JobStatusQueued, model.JobStatusProcessing))

	// Backwards is never legal.
	err := repo.UpdateStatus(ctx, job.ID, model.JobStatusProcessing, model.JobStatusQueued)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)

	// A stale view of the current status does not win.
	err = repo.UpdateStatus(ctx, job.ID, model.JobStatusQueued, model.JobStatusProcessing)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)
}

func TestCompleteStoresPayloadOnce(t *testing.T) {
	repo, _ := newJobRepo(t)
	ctx := context.Background()

	job := newQueuedJob("meeting-1")
	require.NoError(t, repo.Create(ctx, job))

	segments := []model.Segment{{Start: 0, End: 2.5, Speaker: "ben", Text: "hello"}}
	require.NoError(t, repo.Complete(ctx, job.ID, "hello", segments))

	got, err := repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusDone, got.Status)
	require.NotNil(t, got.TranscribedText)
	assert.Equal(t, "hello", *got.TranscribedText)
	require.Len(t, got.Segments, 1)
	assert.Equal(t, 2.5, got.Segments[0].End)

	// Terminal jobs never complete twice.
	err = repo.Complete(ctx, job.ID, "again", nil)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)
}

func TestCompleteAfterScrubKeepsRowEmpty(t *testing.T) {
	repo, _ := newJobRepo(t)
	ctx := context.Background()

	job := newQueuedJob("meeting-1")
	require.NoError(t, repo.Create(ctx, job))

	scrubbed, err := repo.Scrub(ctx, job.ID, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, scrubbed)

	require.NoError(t, repo.Complete(ctx, job.ID, "late transcript", nil))

	got, err := repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusDone, got.Status)
	assert.Nil(t, got.TranscribedText)
}

func TestScrubIsSingleShot(t *testing.T) {
	repo, _ := newJobRepo(t)
	ctx := context.Background()

	job := newQueuedJob("meeting-1")
	require.NoError(t, repo.Create(ctx, job))
	require.NoError(t, repo.Complete(ctx, job.ID, "text", nil))

	scrubbed, err := repo.Scrub(ctx, job.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, scrubbed)

	scrubbed, err = repo.Scrub(ctx, job.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, scrubbed)
}

func TestListScrubbedBefore(t *testing.T) {
	repo, _ := newJobRepo(t)
	ctx := context.Background()

	old := newQueuedJob("meeting-1")
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Fail(ctx, old.ID, "x"))
	_, err := repo.Scrub(ctx, old.ID, time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, err)

	fresh := newQueuedJob("meeting-2")
	require.NoError(t, repo.Create(ctx, fresh))
	_, err = repo.Scrub(ctx, fresh.ID, time.Now().UTC())
	require.NoError(t, err)

	due, err := repo.ListScrubbedBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, old.ID, due[0].ID)
}
