package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"meetscribe/internal/app/errors"
	"meetscribe/internal/app/model"
)

// JobRepository is the PostgreSQL implementation of
// repository.TranscriptionJobRepository.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository wraps an opened database.
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, meeting_id, user_id, external_job_id, status,
	consent_recording, consent_processing, consent_date,
	transcribed_text, segments, error_message, engine_endpoint,
	audio_object_key, audio_deleted_at, deleted_at, created_at, updated_at`

func (r *JobRepository) Create(ctx context.Context, job *model.TranscriptionJob) error {
	segs, err := marshalSegments(job.Segments)
	if err != nil {
		return err
	}
	insertSQL := fmt.Sprintf(`INSERT INTO transcription_jobs (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`, jobColumns)
	_, err = r.db.ExecContext(ctx, insertSQL,
		job.ID, job.MeetingID, job.UserID, job.ExternalJobID, string(job.Status),
		job.ConsentRecording, job.ConsentProcessing, job.ConsentDate,
		job.TranscribedText, segs, job.ErrorMessage, job.EngineEndpoint,
		job.AudioObjectKey, job.AudioDeletedAt, job.DeletedAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.WrapSentinel(errors.ErrJobConflict, err)
		}
		return fmt.Errorf("insert transcription job: %w", err)
	}
	return nil
}

func (r *JobRepository) Get(ctx context.Context, id string) (*model.TranscriptionJob, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM transcription_jobs WHERE id = $1`, jobColumns), id)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrJobNotFound
	}
	return job, err
}

func (r *JobRepository) FindActiveByMeeting(ctx context.Context, meetingID string) (*model.TranscriptionJob, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM transcription_jobs
		 WHERE meeting_id = $1 AND status IN ('queued','processing')`, jobColumns), meetingID)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

func (r *JobRepository) ListByMeeting(ctx context.Context, meetingID string) ([]model.TranscriptionJob, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM transcription_jobs WHERE meeting_id = $1 ORDER BY created_at DESC`, jobColumns), meetingID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *JobRepository) ListActive(ctx context.Context) ([]model.TranscriptionJob, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM transcription_jobs
		 WHERE status IN ('queued','processing') ORDER BY created_at`, jobColumns))
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id string, from, to model.JobStatus) error {
	if !from.CanTransition(to) {
		return errors.ErrInvalidTransition
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transcription_jobs SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		string(to), time.Now().UTC(), id, string(from))
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return requireRow(res)
}

func (r *JobRepository) Complete(ctx context.Context, id string, text string, segments []model.Segment) error {
	segs, err := marshalSegments(segments)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transcription_jobs SET
			status = 'done',
			transcribed_text = CASE WHEN deleted_at IS NULL THEN $1 ELSE NULL END,
			segments         = CASE WHEN deleted_at IS NULL THEN $2 ELSE NULL END,
			updated_at = $3
		 WHERE id = $4 AND status IN ('queued','processing')`,
		text, segs, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return requireRow(res)
}

func (r *JobRepository) Fail(ctx context.Context, id string, message string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transcription_jobs SET status = 'failed', error_message = $1, updated_at = $2
		 WHERE id = $3 AND status IN ('queued','processing')`,
		message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return requireRow(res)
}

func (r *JobRepository) Scrub(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transcription_jobs SET
			deleted_at = $1, transcribed_text = NULL, segments = NULL, updated_at = $2
		 WHERE id = $3 AND deleted_at IS NULL`,
		at, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("scrub job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *JobRepository) MarkAudioDeleted(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transcription_jobs SET audio_deleted_at = $1, updated_at = $2 WHERE id = $3`,
		at, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark audio deleted: %w", err)
	}
	return nil
}

func (r *JobRepository) HardDelete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transcription_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("hard delete job: %w", err)
	}
	return nil
}

func (r *JobRepository) ListScrubbedBefore(ctx context.Context, cutoff time.Time) ([]model.TranscriptionJob, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM transcription_jobs
		 WHERE deleted_at IS NOT NULL AND deleted_at < $1 ORDER BY deleted_at`, jobColumns), cutoff)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *JobRepository) Close() error {
	return r.db.Close()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrInvalidTransition
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.TranscriptionJob, error) {
	var (
		j      model.TranscriptionJob
		status string
		text   sql.NullString
		segs   sql.NullString
	)
	err := row.Scan(&j.ID, &j.MeetingID, &j.UserID, &j.ExternalJobID, &status,
		&j.ConsentRecording, &j.ConsentProcessing, &j.ConsentDate,
		&text, &segs, &j.ErrorMessage, &j.EngineEndpoint,
		&j.AudioObjectKey, &j.AudioDeletedAt, &j.DeletedAt, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.Status = model.JobStatus(status)
	if text.Valid {
		j.TranscribedText = &text.String
	}
	if segs.Valid && segs.String != "" {
		if err := json.Unmarshal([]byte(segs.String), &j.Segments); err != nil {
			return nil, fmt.Errorf("decode segments: %w", err)
		}
	}
	return &j, nil
}

func scanJobs(rows *sql.Rows) ([]model.TranscriptionJob, error) {
	jobs := make([]model.TranscriptionJob, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func marshalSegments(segments []model.Segment) (interface{}, error) {
	if segments == nil {
		return nil, nil
	}
	b, err := json.Marshal(segments)
	if err != nil {
		return nil, fmt.Errorf("encode segments: %w", err)
	}
	return string(b), nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
