package transcription

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"meetscribe/internal/app/auth"
	"meetscribe/internal/app/engine"
	"meetscribe/internal/app/errors"
	"meetscribe/internal/app/metrics"
	"meetscribe/internal/app/model"
	"meetscribe/internal/app/repository"
	"meetscribe/internal/app/upload"
)

// StartRequest carries one job-start call. Exactly one of Audio (inline
// path) or ObjectKey (deferred path) must be set.
type StartRequest struct {
	MeetingID         string
	UserID            string
	FileName          string
	ContentType       string
	Size              int64
	Audio             io.Reader
	ObjectKey         string
	ConsentRecording  bool
	ConsentProcessing bool
	Language          string
}

// StartResult identifies the created job.
type StartResult struct {
	JobID         string `json:"jobId"`
	ExternalJobID string `json:"externalJobId"`
}

// Manager creates and tracks transcription jobs. The single-flight invariant
// is enforced twice: a precheck here for a fast, friendly failure, and the
// partial unique index in the repository as the race-proof arbiter.
type Manager struct {
	jobs     repository.TranscriptionJobRepository
	access   auth.AccessChecker
	engine   engine.Engine
	storage  upload.StorageService
	selector upload.Selector
	metrics  *metrics.Pipeline
	logger   *slog.Logger
}

// NewManager creates a Manager. storage may be nil when no object storage
// backend is configured; the deferred path then fails with
// ErrStorageUnavailable.
func NewManager(
	jobs repository.TranscriptionJobRepository,
	access auth.AccessChecker,
	eng engine.Engine,
	storage upload.StorageService,
	selector upload.Selector,
	m *metrics.Pipeline,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		jobs:     jobs,
		access:   access,
		engine:   eng,
		storage:  storage,
		selector: selector,
		metrics:  m,
		logger:   logger,
	}
}

// Start runs the job-creation state machine: access check, consent gate,
// single-flight check, engine submission, then persistence. On any failure
// no local row is created.
func (mgr *Manager) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	if err := mgr.access.CanAccessMeeting(ctx, req.UserID, req.MeetingID); err != nil {
		return nil, err
	}

	if !req.ConsentRecording || !req.ConsentProcessing {
		mgr.metrics.ConsentRejections.Inc()
		return nil, errors.ErrConsentRequired
	}

	if req.Audio != nil && req.ObjectKey != "" {
		return nil, errors.New("exactly one of inline audio or object_key may be set")
	}

	if req.Audio != nil {
		path, err := mgr.selector.Choose(req.Size)
		if err != nil {
			return nil, err
		}
		if path != upload.PathInline {
			return nil, errors.ErrPayloadTooLarge
		}
	} else if req.ObjectKey == "" {
		return nil, errors.RequiredField("audio")
	}

	// Fast-path conflict check. The insert below still wins any race this
	// check misses.
	active, err := mgr.jobs.FindActiveByMeeting(ctx, req.MeetingID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		mgr.metrics.JobConflicts.Inc()
		return nil, errors.ErrJobConflict
	}

	submitReq := engine.SubmitRequest{
		MeetingID:   req.MeetingID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Audio:       req.Audio,
		ObjectKey:   req.ObjectKey,
		Language:    req.Language,
	}
	if req.ObjectKey != "" {
		if mgr.storage == nil {
			return nil, errors.ErrStorageUnavailable
		}
		if err := mgr.storage.Consume(ctx, req.ObjectKey); err != nil {
			return nil, err
		}
		audio, err := mgr.storage.FetchAudio(ctx, req.ObjectKey)
		if err != nil {
			return nil, err
		}
		defer audio.Close()
		submitReq.Audio = audio
	}

	submitStart := time.Now()
	externalJobID, err := mgr.engine.Submit(ctx, submitReq)
	mgr.metrics.EngineSubmitSecs.Observe(time.Since(submitStart).Seconds())
	if err != nil {
		mgr.metrics.EngineFailures.Inc()
		return nil, err
	}

	now := time.Now().UTC()
	job := &model.TranscriptionJob{
		ID:                uuid.New().String(),
		MeetingID:         req.MeetingID,
		UserID:            req.UserID,
		ExternalJobID:     externalJobID,
		Status:            model.JobStatusQueued,
		ConsentRecording:  req.ConsentRecording,
		ConsentProcessing: req.ConsentProcessing,
		ConsentDate:       now,
		EngineEndpoint:    mgr.engine.Endpoint(),
		AudioObjectKey:    req.ObjectKey,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := mgr.jobs.Create(ctx, job); err != nil {
		if stderrors.Is(err, errors.ErrJobConflict) {
			// A racing start already holds the single-flight slot. The
			// engine work submitted above is discarded; the engine side
			// will complete a job nobody tracks.
			mgr.logger.Warn("job insert lost the single-flight race, engine submission discarded",
				"meeting_id", req.MeetingID, "external_job_id", externalJobID)
			mgr.metrics.JobConflicts.Inc()
		}
		return nil, err
	}

	mgr.metrics.JobsStarted.Inc()
	mgr.logger.Info("transcription job started",
		"job_id", job.ID, "meeting_id", req.MeetingID, "external_job_id", externalJobID)

	return &StartResult{JobID: job.ID, ExternalJobID: externalJobID}, nil
}

// Get returns a job after verifying meeting access.
func (mgr *Manager) Get(ctx context.Context, jobID, userID string) (*model.TranscriptionJob, error) {
	job, err := mgr.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := mgr.access.CanAccessMeeting(ctx, userID, job.MeetingID); err != nil {
		return nil, err
	}
	return job, nil
}

// ListByMeeting returns a meeting's jobs after verifying access.
func (mgr *Manager) ListByMeeting(ctx context.Context, meetingID, userID string) ([]model.TranscriptionJob, error) {
	if err := mgr.access.CanAccessMeeting(ctx, userID, meetingID); err != nil {
		return nil, err
	}
	return mgr.jobs.ListByMeeting(ctx, meetingID)
}
