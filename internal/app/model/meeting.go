package model

import (
	"time"
)

// Meeting anchors an extraction and the jobs run against its recording.
// Ownership and project membership live in the surrounding product; this
// core consumes them by id.
type Meeting struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	ProjectID   string    `json:"project_id,omitempty" db:"project_id"`
	Title       string    `json:"title" db:"title"`
	Date        time.Time `json:"date" db:"date"`
	Participants string   `json:"participants,omitempty" db:"participants"`
	Context     string    `json:"context,omitempty" db:"context"`
	RawNotes    string    `json:"raw_notes,omitempty" db:"raw_notes"`
	ExtractionJSON string `json:"extraction_json,omitempty" db:"extraction_json"`
	AnalyzedAt  *time.Time `json:"analyzed_at" db:"analyzed_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for Meeting.
func (Meeting) TableName() string {
	return "meetings"
}

// Project is referenced for default-project resolution during import.
type Project struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Archived  bool      `json:"archived" db:"archived"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for Project.
func (Project) TableName() string {
	return "projects"
}
