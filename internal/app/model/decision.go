package model

import (
	"time"
)

// DecisionStatus is the workflow status of an imported decision.
type DecisionStatus string

const (
	DecisionStatusDraft    DecisionStatus = "draft"
	DecisionStatusDecided  DecisionStatus = "decided"
	DecisionStatusRejected DecisionStatus = "rejected"
)

// Decision is a permanent record materialized from a reviewed extraction.
type Decision struct {
	ID        string         `json:"id" db:"id"`
	ProjectID string         `json:"project_id" db:"project_id"`
	MeetingID string         `json:"meeting_id,omitempty" db:"meeting_id"`
	AuthorID  string         `json:"author_id" db:"author_id"`
	Title     string         `json:"title" db:"title"`
	Context   string         `json:"context,omitempty" db:"context"`
	Status    DecisionStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// TableName returns the table name for Decision.
func (Decision) TableName() string {
	return "decisions"
}

// ActionItemStatus is the workflow status of an imported action item.
type ActionItemStatus string

const (
	ActionItemTodo  ActionItemStatus = "TODO"
	ActionItemDoing ActionItemStatus = "DOING"
	ActionItemDone  ActionItemStatus = "DONE"
)

// ActionItem is a permanent record materialized from a reviewed extraction.
// DueDate is only set when the extraction carried a parseable date; an
// unparseable raw value survives in Description instead.
type ActionItem struct {
	ID          string           `json:"id" db:"id"`
	ProjectID   string           `json:"project_id" db:"project_id"`
	MeetingID   string           `json:"meeting_id,omitempty" db:"meeting_id"`
	AssigneeID  string           `json:"assignee_id,omitempty" db:"assignee_id"`
	Title       string           `json:"title" db:"title"`
	Description string           `json:"description,omitempty" db:"description"`
	Status      ActionItemStatus `json:"status" db:"status"`
	DueDate     *time.Time       `json:"due_date" db:"due_date"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// TableName returns the table name for ActionItem.
func (ActionItem) TableName() string {
	return "action_items"
}
