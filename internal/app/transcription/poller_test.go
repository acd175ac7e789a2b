package transcription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"meetscribe/internal/app/engine"
	"meetscribe/internal/app/engine/enginetest"
	"meetscribe/internal/app/metrics"
	"meetscribe/internal/app/model"
	"meetscribe/internal/app/repository/sqlite"
	"meetscribe/internal/app/testutil"
)

func newPollerFixture(t *testing.T) (*Poller, *sqlite.JobRepository, *enginetest.MockEngine, *model.TranscriptionJob) {
	t.Helper()
	db := testutil.OpenTestDB(t)

	ownerID := "user-1"
	projectID := testutil.SeedProject(t, db, ownerID)
	meetingID := testutil.SeedMeeting(t, db, ownerID, projectID)
	job := testutil.SeedJob(t, db, meetingID, ownerID)

	jobs := sqlite.NewJobRepository(db)
	eng := new(enginetest.MockEngine)
	poller := NewPoller(jobs, eng, time.Second, metrics.NewNopPipeline(), testutil.NewTestLogger())
	return poller, jobs, eng, job
}

func TestTickAdvancesQueuedToProcessing(t *testing.T) {
	poller, jobs, eng, job := newPollerFixture(t)
	eng.On("Fetch", mock.Anything, job.ExternalJobID).
		Return(&engine.Result{Status: model.JobStatusProcessing}, nil)

	poller.Tick(context.Background())

	got, err := jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusProcessing, got.Status)
}

func TestTickCompletesJobWithPayload(t *testing.T) {
	poller, jobs, eng, job := newPollerFixture(t)
	eng.On("Fetch", mock.Anything, job.ExternalJobID).
		Return(&engine.Result{
			Status: model.JobStatusDone,
			Text:   "we agreed to ship in September",
			Segments: []model.Segment{
				{Start: 0, End: 4.2, Speaker: "ana", Text: "we agreed to ship in September"},
			},
		}, nil)

	poller.Tick(context.Background())

	got, err := jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusDone, got.Status)
	require.NotNil(t, got.TranscribedText)
	assert.Equal(t, "we agreed to ship in September", *got.TranscribedText)
	require.Len(t, got.Segments, 1)
	assert.Equal(t, "ana", got.Segments[0].Speaker)
}

func TestTickFailsJobWithEngineError(t *testing.T) {
	poller, jobs, eng, job := newPollerFixture(t)
	eng.On("Fetch", mock.Anything, job.ExternalJobID).
		Return(&engine.Result{Status: model.JobStatusFailed, Err: "audio undecodable"}, nil)

	poller.Tick(context.Background())

	got, err := jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, got.Status)
	assert.Equal(t, "audio undecodable", got.ErrorMessage)
	assert.Nil(t, got.TranscribedText)
}

func TestTickLeavesQueuedJobAlone(t *testing.T) {
	poller, jobs, eng, job := newPollerFixture(t)
	eng.On("Fetch", mock.Anything, job.ExternalJobID).
		Return(&engine.Result{Status: model.JobStatusQueued}, nil)

	poller.Tick(context.Background())

	got, err := jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusQueued, got.Status)
}

// A job scrubbed while the engine was still working must advance to done
// without the payload reappearing.
func TestTickCompletionAfterScrubDiscardsPayload(t *testing.T) {
	poller, jobs, eng, job := newPollerFixture(t)
	eng.On("Fetch", mock.Anything, job.ExternalJobID).
		Return(&engine.Result{Status: model.JobStatusDone, Text: "sensitive transcript"}, nil)

	scrubbed, err := jobs.Scrub(context.Background(), job.ID, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, scrubbed)

	poller.Tick(context.Background())

	got, err := jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusDone, got.Status)
	assert.Nil(t, got.TranscribedText)
	assert.Empty(t, got.Segments)
	assert.Equal(t, model.RetentionScrubbed, got.Retention())
}
