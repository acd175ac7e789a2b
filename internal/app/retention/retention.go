package retention

import (
	"context"
	"log/slog"
	"time"

	"meetscribe/internal/app/auth"
	"meetscribe/internal/app/metrics"
	"meetscribe/internal/app/model"
	"meetscribe/internal/app/repository"
	"meetscribe/internal/app/upload"
)

// Manager retires finished jobs in two stages: a user-requested soft delete
// that scrubs transcript content while keeping the row for audit, and an
// unconditional hard delete driven by the scheduled sweep.
type Manager struct {
	jobs    repository.TranscriptionJobRepository
	access  auth.AccessChecker
	storage upload.StorageService
	metrics *metrics.Pipeline
	logger  *slog.Logger
}

// NewManager creates a retention Manager. storage may be nil; stored audio
// is then left for the bucket's own lifecycle policy.
func NewManager(
	jobs repository.TranscriptionJobRepository,
	access auth.AccessChecker,
	storage upload.StorageService,
	m *metrics.Pipeline,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		jobs:    jobs,
		access:  access,
		storage: storage,
		metrics: m,
		logger:  logger,
	}
}

// SoftDelete scrubs a job's transcript content and marks it deleted in one
// atomic write. Idempotent: a second call on an already-scrubbed job is a
// no-op. Works regardless of job status; scrubbing an active job does not
// cancel engine-side work.
func (m *Manager) SoftDelete(ctx context.Context, jobID, requesterID string) error {
	job, err := m.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if err := m.access.CanAccessMeeting(ctx, requesterID, job.MeetingID); err != nil {
		return err
	}

	scrubbed, err := m.jobs.Scrub(ctx, jobID, time.Now().UTC())
	if err != nil {
		return err
	}
	if !scrubbed {
		// Already deleted; nothing to do.
		return nil
	}
	m.metrics.JobsScrubbed.Inc()
	m.logger.Info("transcription job scrubbed", "job_id", jobID, "requester_id", requesterID)

	// Audio purge is best effort. A storage failure must never block the
	// primary scrub, which has already happened.
	m.purgeAudio(ctx, job)
	return nil
}

// HardDelete removes the row entirely. Intended for the scheduled sweep,
// never for direct user action.
func (m *Manager) HardDelete(ctx context.Context, jobID string) error {
	return m.jobs.HardDelete(ctx, jobID)
}

// SweepResult reports one sweep pass.
type SweepResult struct {
	Examined int
	Deleted  int
}

// Sweep hard-deletes every soft-deleted job whose scrub happened before the
// retention window, purging any still-stored audio object first. Per-job
// failures are logged and skipped; onProgress, if set, is called once per
// examined job.
func (m *Manager) Sweep(ctx context.Context, window time.Duration, onProgress func()) (*SweepResult, error) {
	cutoff := time.Now().UTC().Add(-window)
	jobs, err := m.jobs.ListScrubbedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Examined: len(jobs)}
	for _, job := range jobs {
		if onProgress != nil {
			onProgress()
		}
		if m.storage != nil && job.AudioObjectKey != "" && job.AudioDeletedAt == nil {
			if err := m.storage.PurgeAudio(ctx, job.AudioObjectKey); err != nil {
				// Keep the row so the next sweep retries instead of
				// orphaning the stored object.
				m.logger.Warn("sweep audio purge failed",
					"job_id", job.ID, "object_key", job.AudioObjectKey, "error", err)
				continue
			}
		}
		if err := m.jobs.HardDelete(ctx, job.ID); err != nil {
			m.logger.Warn("sweep failed to delete job", "job_id", job.ID, "error", err)
			continue
		}
		result.Deleted++
		m.metrics.JobsSwept.Inc()
	}

	m.logger.Info("retention sweep finished",
		"examined", result.Examined, "deleted", result.Deleted, "cutoff", cutoff.Format(time.RFC3339))
	return result, nil
}

func (m *Manager) purgeAudio(ctx context.Context, job *model.TranscriptionJob) {
	if m.storage == nil || job.AudioObjectKey == "" || job.AudioDeletedAt != nil {
		return
	}
	if err := m.storage.PurgeAudio(ctx, job.AudioObjectKey); err != nil {
		m.logger.Warn("audio purge failed", "job_id", job.ID, "object_key", job.AudioObjectKey, "error", err)
		return
	}
	if err := m.jobs.MarkAudioDeleted(ctx, job.ID, time.Now().UTC()); err != nil {
		m.logger.Warn("failed to record audio purge", "job_id", job.ID, "error", err)
	}
}
