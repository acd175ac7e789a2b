package model

import (
	"time"
)

// JobStatus represents the lifecycle state of a transcription job.
// Transitions only move forward: queued -> processing -> done | failed.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Valid reports whether s is one of the known job statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusQueued, JobStatusProcessing, JobStatusDone, JobStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is an end state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusDone || s == JobStatusFailed
}

// Active reports whether s counts against the single-flight limit.
func (s JobStatus) Active() bool {
	return s == JobStatusQueued || s == JobStatusProcessing
}

// CanTransition reports whether moving from s to next is a legal forward
// transition.
func (s JobStatus) CanTransition(next JobStatus) bool {
	switch s {
	case JobStatusQueued:
		return next == JobStatusProcessing || next == JobStatusDone || next == JobStatusFailed
	case JobStatusProcessing:
		return next == JobStatusDone || next == JobStatusFailed
	default:
		return false
	}
}

// RetentionState makes the soft-delete state explicit instead of encoding it
// in nullable columns.
type RetentionState string

const (
	RetentionActive   RetentionState = "active"
	RetentionScrubbed RetentionState = "scrubbed"
)

// Segment is a single timestamped utterance from the engine.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker,omitempty"`
	Text    string  `json:"text"`
}

// TranscriptionJob tracks one submission of meeting audio to the external
// transcription engine. Both consent flags are captured at creation time and
// never change afterwards; they are a legal record.
type TranscriptionJob struct {
	ID                string     `json:"id" db:"id"`
	MeetingID         string     `json:"meeting_id" db:"meeting_id"`
	UserID            string     `json:"user_id" db:"user_id"`
	ExternalJobID     string     `json:"external_job_id" db:"external_job_id"`
	Status            JobStatus  `json:"status" db:"status"`
	ConsentRecording  bool       `json:"consent_recording" db:"consent_recording"`
	ConsentProcessing bool       `json:"consent_processing" db:"consent_processing"`
	ConsentDate       time.Time  `json:"consent_date" db:"consent_date"`
	TranscribedText   *string    `json:"transcribed_text" db:"transcribed_text"`
	Segments          []Segment  `json:"segments" db:"segments"`
	ErrorMessage      string     `json:"error_message,omitempty" db:"error_message"`
	EngineEndpoint    string     `json:"engine_endpoint" db:"engine_endpoint"`
	AudioObjectKey    string     `json:"audio_object_key,omitempty" db:"audio_object_key"`
	AudioDeletedAt    *time.Time `json:"audio_deleted_at" db:"audio_deleted_at"`
	DeletedAt         *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for TranscriptionJob.
func (TranscriptionJob) TableName() string {
	return "transcription_jobs"
}

// Retention derives the explicit retention state from the deletion marker.
func (j *TranscriptionJob) Retention() RetentionState {
	if j.DeletedAt != nil {
		return RetentionScrubbed
	}
	return RetentionActive
}
