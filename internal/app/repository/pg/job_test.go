package pg

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetscribe/internal/app/errors"
	"meetscribe/internal/app/model"
)

func newMockRepo(t *testing.T) (*JobRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewJobRepository(db), mock
}

func TestCreateMapsUniqueViolationToConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO transcription_jobs").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_jobs_single_flight"})

	job := &model.TranscriptionJob{
		ID:        "job-1",
		MeetingID: "meeting-1",
		Status:    model.JobStatusQueued,
	}
	err := repo.Create(context.Background(), job)
	assert.ErrorIs(t, err, errors.ErrJobConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePassesOtherErrorsThrough(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO transcription_jobs").
		WillReturnError(&pq.Error{Code: "53300"})

	err := repo.Create(context.Background(), &model.TranscriptionJob{ID: "job-1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrJobConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsIllegalTransitionLocally(t *testing.T) {
	repo, mock := newMockRepo(t)

	// No query reaches the database for a backwards transition.
	err := repo.UpdateStatus(context.Background(), "job-1", model.JobStatusDone, model.JobStatusQueued)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusStaleViewLosesRace(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE transcription_jobs SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "job-1", model.JobStatusQueued, model.JobStatusProcessing)
	assert.ErrorIs(t, err, errors.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScrubReportsAlreadyScrubbed(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE transcription_jobs SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE transcription_jobs SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	scrubbed, err := repo.Scrub(context.Background(), "job-1", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, scrubbed)

	scrubbed, err = repo.Scrub(context.Background(), "job-1", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, scrubbed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissingJob(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM transcription_jobs WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, errors.ErrJobNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
