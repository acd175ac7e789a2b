package dto

import (
	"time"

	"meetscribe/internal/app/model"
)

// StartTranscriptionResponse identifies the created job.
type StartTranscriptionResponse struct {
	JobID         string `json:"jobId"`
	ExternalJobID string `json:"externalJobId"`
}

// TranscriptionJobResponse is the API view of a job. Transcript fields are
// omitted entirely once the job has been scrubbed.
type TranscriptionJobResponse struct {
	ID                string          `json:"id"`
	MeetingID         string          `json:"meetingId"`
	ExternalJobID     string          `json:"externalJobId"`
	Status            string          `json:"status"`
	ConsentRecording  bool            `json:"consentRecording"`
	ConsentProcessing bool            `json:"consentProcessing"`
	ConsentDate       time.Time       `json:"consentDate"`
	TranscribedText   *string         `json:"transcribedText,omitempty"`
	Segments          []model.Segment `json:"segments,omitempty"`
	ErrorMessage      string          `json:"errorMessage,omitempty"`
	EngineEndpoint    string          `json:"engineEndpoint"`
	AudioDeletedAt    *time.Time      `json:"audioDeletedAt,omitempty"`
	DeletedAt         *time.Time      `json:"deletedAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// TranscriptionJobListResponse lists a meeting's jobs.
type TranscriptionJobListResponse struct {
	Jobs  []TranscriptionJobResponse `json:"jobs"`
	Total int                        `json:"total"`
}

// FromJob converts the internal model to the API view.
func FromJob(job *model.TranscriptionJob) TranscriptionJobResponse {
	return TranscriptionJobResponse{
		ID:                job.ID,
		MeetingID:         job.MeetingID,
		ExternalJobID:     job.ExternalJobID,
		Status:            string(job.Status),
		ConsentRecording:  job.ConsentRecording,
		ConsentProcessing: job.ConsentProcessing,
		ConsentDate:       job.ConsentDate,
		TranscribedText:   job.TranscribedText,
		Segments:          job.Segments,
		ErrorMessage:      job.ErrorMessage,
		EngineEndpoint:    job.EngineEndpoint,
		AudioDeletedAt:    job.AudioDeletedAt,
		DeletedAt:         job.DeletedAt,
		CreatedAt:         job.CreatedAt,
		UpdatedAt:         job.UpdatedAt,
	}
}
