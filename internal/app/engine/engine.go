package engine

import (
	"context"
	"io"

	"meetscribe/internal/app/model"
)

// SubmitRequest carries the audio handed to the engine. Exactly one of
// Audio (inline bytes) or ObjectKey (already pushed to object storage) is
// set, matching the two upload paths.
type SubmitRequest struct {
	MeetingID   string
	FileName    string
	ContentType string
	Audio       io.Reader
	ObjectKey   string
	Language    string
}

// Result is the engine's view of a submitted job.
type Result struct {
	Status   model.JobStatus
	Text     string
	Segments []model.Segment
	Err      string
}

// Engine is the narrow adapter over the remote speech-to-text service.
// Submit hands audio over and returns the engine's opaque job id; Fetch
// retrieves the current status and, once done, the transcript. The engine's
// internals are out of scope; callers must not retry Submit automatically,
// since a retry could double-submit.
type Engine interface {
	Submit(ctx context.Context, req SubmitRequest) (string, error)
	Fetch(ctx context.Context, externalJobID string) (*Result, error)
	// Endpoint identifies the engine instance handling jobs, recorded on
	// each job as operational metadata.
	Endpoint() string
}
