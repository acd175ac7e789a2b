package repository

import (
	"context"
	"time"

	"meetscribe/internal/app/model"
)

// TranscriptionJobRepository is the storage contract for transcription jobs.
// Implementations must enforce the single-flight invariant at the storage
// level: Create fails with errors.ErrJobConflict when the meeting already
// has a job in an active status, even under concurrent callers.
type TranscriptionJobRepository interface {
	// Create persists a new job. The job id, status and consent fields must
	// already be set by the caller.
	Create(ctx context.Context, job *model.TranscriptionJob) error

	// Get returns the job or errors.ErrJobNotFound.
	Get(ctx context.Context, id string) (*model.TranscriptionJob, error)

	// FindActiveByMeeting returns the queued or processing job for a
	// meeting, or (nil, nil) when there is none.
	FindActiveByMeeting(ctx context.Context, meetingID string) (*model.TranscriptionJob, error)

	// ListByMeeting returns all jobs for a meeting, newest first.
	ListByMeeting(ctx context.Context, meetingID string) ([]model.TranscriptionJob, error)

	// ListActive returns every queued or processing job across meetings.
	ListActive(ctx context.Context) ([]model.TranscriptionJob, error)

	// UpdateStatus moves a job from one status to another. The write is
	// conditional on the current status so concurrent updaters cannot move
	// the state machine backwards; a no-op match returns
	// errors.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to model.JobStatus) error

	// Complete marks the job done and stores the transcript payload. If the
	// job was scrubbed while processing, the status still advances but the
	// payload is discarded (the retention contract wins).
	Complete(ctx context.Context, id string, text string, segments []model.Segment) error

	// Fail marks the job failed with an engine error message.
	Fail(ctx context.Context, id string, message string) error

	// Scrub atomically sets deleted_at and nulls the transcript payload in
	// a single write. Returns false when the job was already scrubbed.
	Scrub(ctx context.Context, id string, at time.Time) (bool, error)

	// MarkAudioDeleted records that the source audio object has been purged.
	MarkAudioDeleted(ctx context.Context, id string, at time.Time) error

	// HardDelete removes the row entirely. Intended for the retention sweep.
	HardDelete(ctx context.Context, id string) error

	// ListScrubbedBefore returns soft-deleted jobs whose deleted_at is
	// older than the cutoff, candidates for the hard-delete sweep.
	ListScrubbedBefore(ctx context.Context, cutoff time.Time) ([]model.TranscriptionJob, error)

	Close() error
}

// MeetingRepository provides the meeting records this pipeline anchors to.
type MeetingRepository interface {
	Get(ctx context.Context, id string) (*model.Meeting, error)
	Create(ctx context.Context, m *model.Meeting) error
	Update(ctx context.Context, m *model.Meeting) error
}

// DecisionRepository persists decisions materialized by the importer.
type DecisionRepository interface {
	Create(ctx context.Context, d *model.Decision) error
	ListByMeeting(ctx context.Context, meetingID string) ([]model.Decision, error)
}

// ActionItemRepository persists action items materialized by the importer.
type ActionItemRepository interface {
	Create(ctx context.Context, a *model.ActionItem) error
	ListByMeeting(ctx context.Context, meetingID string) ([]model.ActionItem, error)
}

// ProjectRepository resolves default projects and membership for access
// checks.
type ProjectRepository interface {
	Get(ctx context.Context, id string) (*model.Project, error)
	// LatestActiveByOwner returns the owner's most recently created
	// non-archived project, or (nil, nil) when they have none.
	LatestActiveByOwner(ctx context.Context, ownerID string) (*model.Project, error)
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
}
