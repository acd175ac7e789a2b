package dto

import (
	"encoding/json"
	"time"

	"meetscribe/internal/app/importer"
)

// SaveExtractionRequest submits a reviewed extraction for validation and
// selective import. Extracted is kept raw so the validator can report every
// schema violation instead of failing at bind time.
type SaveExtractionRequest struct {
	MeetingID   string              `json:"meetingId"`
	CleanedText string              `json:"cleanedText"`
	Extracted   json.RawMessage     `json:"extracted" binding:"required"`
	Selections  importer.Selections `json:"selections"`
	MeetingData MeetingData         `json:"meetingData"`
}

// MeetingData describes the meeting record anchoring a fresh extraction.
type MeetingData struct {
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Participants string    `json:"participants"`
	Context      string    `json:"context"`
}

// SaveExtractionResponse reports what the import created.
type SaveExtractionResponse struct {
	MeetingID        string                 `json:"meetingId"`
	CreatedDecisions []string               `json:"createdDecisions"`
	CreatedActions   []string               `json:"createdActions"`
	Skipped          []importer.SkippedItem `json:"skipped,omitempty"`
}
