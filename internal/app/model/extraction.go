package model

import (
	"time"
)

// ActionStatus is the status of a candidate action item inside an
// extraction. The set is closed; anything else fails validation.
type ActionStatus string

const (
	ActionStatusTodo       ActionStatus = "todo"
	ActionStatusInProgress ActionStatus = "in_progress"
	ActionStatusDone       ActionStatus = "done"
)

// Valid reports whether s is one of the known action statuses.
func (s ActionStatus) Valid() bool {
	switch s {
	case ActionStatusTodo, ActionStatusInProgress, ActionStatusDone:
		return true
	}
	return false
}

// Attendee is a meeting participant named in the extraction metadata.
type Attendee struct {
	Name string `json:"name"`
}

// ExtractionMeta carries the meeting-level metadata of an extraction.
type ExtractionMeta struct {
	Title     string     `json:"title,omitempty"`
	Attendees []Attendee `json:"attendees,omitempty"`
}

// ExtractionDecision is a candidate decision pending human review.
type ExtractionDecision struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Evidence string `json:"evidence,omitempty"`
}

// ExtractionAction is a candidate action item pending human review.
// DueDate holds the parsed calendar date when the engine produced something
// parseable; DueDateRaw always preserves the verbatim value so ambiguity
// surfaces to the reviewer instead of being dropped.
type ExtractionAction struct {
	ID         string       `json:"id"`
	Task       string       `json:"task"`
	DueDate    *time.Time   `json:"due_date,omitempty"`
	DueDateRaw string       `json:"due_date_raw,omitempty"`
	Evidence   string       `json:"evidence,omitempty"`
	Status     ActionStatus `json:"status"`
}

// Extraction is the structured candidate output derived from a transcript.
// It is ephemeral review material, not a stored entity.
type Extraction struct {
	Meta      ExtractionMeta       `json:"meta"`
	Decisions []ExtractionDecision `json:"decisions"`
	Actions   []ExtractionAction   `json:"actions"`
}
