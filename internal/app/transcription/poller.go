package transcription

import (
	"context"
	"log/slog"
	"time"

	"meetscribe/internal/app/engine"
	"meetscribe/internal/app/metrics"
	"meetscribe/internal/app/model"
	"meetscribe/internal/app/repository"
)

// Poller drives the external status transitions. The engine offers no
// callback, so an interval worker fetches every active job's remote status
// and applies forward-only transitions. Terminal jobs are never touched
// again; a job scrubbed mid-flight still completes, but the repository
// discards its payload.
type Poller struct {
	jobs     repository.TranscriptionJobRepository
	engine   engine.Engine
	interval time.Duration
	metrics  *metrics.Pipeline
	logger   *slog.Logger
}

// NewPoller creates a Poller; interval defaults to 10s.
func NewPoller(
	jobs repository.TranscriptionJobRepository,
	eng engine.Engine,
	interval time.Duration,
	m *metrics.Pipeline,
	logger *slog.Logger,
) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{
		jobs:     jobs,
		engine:   eng,
		interval: interval,
		metrics:  m,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("status poller started", "interval", p.interval.String())
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("status poller stopped")
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs one polling pass. Exposed for tests.
func (p *Poller) Tick(ctx context.Context) {
	jobs, err := p.jobs.ListActive(ctx)
	if err != nil {
		p.logger.Error("failed to list active jobs", "error", err)
		return
	}

	for _, job := range jobs {
		if err := p.advance(ctx, &job); err != nil {
			p.logger.Warn("failed to advance job", "job_id", job.ID, "error", err)
		}
	}
}

func (p *Poller) advance(ctx context.Context, job *model.TranscriptionJob) error {
	result, err := p.engine.Fetch(ctx, job.ExternalJobID)
	if err != nil {
		return err
	}

	switch result.Status {
	case model.JobStatusProcessing:
		if job.Status == model.JobStatusQueued {
			return p.jobs.UpdateStatus(ctx, job.ID, model.JobStatusQueued, model.JobStatusProcessing)
		}
		return nil
	case model.JobStatusDone:
		if err := p.jobs.Complete(ctx, job.ID, result.Text, result.Segments); err != nil {
			return err
		}
		p.metrics.JobsCompleted.WithLabelValues(string(model.JobStatusDone)).Inc()
		p.logger.Info("transcription job completed", "job_id", job.ID)
		return nil
	case model.JobStatusFailed:
		if err := p.jobs.Fail(ctx, job.ID, result.Err); err != nil {
			return err
		}
		p.metrics.JobsCompleted.WithLabelValues(string(model.JobStatusFailed)).Inc()
		p.logger.Info("transcription job failed", "job_id", job.ID, "engine_error", result.Err)
		return nil
	default:
		return nil
	}
}
