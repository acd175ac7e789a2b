package pg

import (
	"context"
	"database/sql"
	"fmt"

	"meetscribe/internal/app/errors"
	"meetscribe/internal/app/model"
)

// MeetingRepository is the postgres implementation of
// repository.MeetingRepository.
type MeetingRepository struct {
	db *sql.DB
}

func NewMeetingRepository(db *sql.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) Get(ctx context.Context, id string) (*model.Meeting, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, project_id, title, date, participants, context,
			raw_notes, extraction_json, analyzed_at, created_at
		 FROM meetings WHERE id = $1`, id)
	var m model.Meeting
	err := row.Scan(&m.ID, &m.OwnerID, &m.ProjectID, &m.Title, &m.Date, &m.Participants,
		&m.Context, &m.RawNotes, &m.ExtractionJSON, &m.AnalyzedAt, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.ErrMeetingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db scan failed: %w", err)
	}
	return &m, nil
}

func (r *MeetingRepository) Create(ctx context.Context, m *model.Meeting) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meetings (id, owner_id, project_id, title, date, participants,
			context, raw_notes, extraction_json, analyzed_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.OwnerID, m.ProjectID, m.Title, m.Date, m.Participants,
		m.Context, m.RawNotes, m.ExtractionJSON, m.AnalyzedAt, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

func (r *MeetingRepository) Update(ctx context.Context, m *model.Meeting) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE meetings SET title = $1, participants = $2, context = $3, raw_notes = $4,
			extraction_json = $5, analyzed_at = $6 WHERE id = $7`,
		m.Title, m.Participants, m.Context, m.RawNotes, m.ExtractionJSON, m.AnalyzedAt, m.ID)
	if err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}
	return nil
}

// DecisionRepository is the postgres implementation of
// repository.DecisionRepository.
type DecisionRepository struct {
	db *sql.DB
}

func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

func (r *DecisionRepository) Create(ctx context.Context, d *model.Decision) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO decisions (id, project_id, meeting_id, author_id, title, context, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.ProjectID, d.MeetingID, d.AuthorID, d.Title, d.Context, string(d.Status), d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

func (r *DecisionRepository) ListByMeeting(ctx context.Context, meetingID string) ([]model.Decision, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, meeting_id, author_id, title, context, status, created_at
		 FROM decisions WHERE meeting_id = $1 ORDER BY created_at`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	decisions := make([]model.Decision, 0)
	for rows.Next() {
		var d model.Decision
		var status string
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.MeetingID, &d.AuthorID,
			&d.Title, &d.Context, &status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		d.Status = model.DecisionStatus(status)
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// ActionItemRepository is the postgres implementation of
// repository.ActionItemRepository.
type ActionItemRepository struct {
	db *sql.DB
}

func NewActionItemRepository(db *sql.DB) *ActionItemRepository {
	return &ActionItemRepository{db: db}
}

func (r *ActionItemRepository) Create(ctx context.Context, a *model.ActionItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO action_items (id, project_id, meeting_id, assignee_id, title,
			description, status, due_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.ProjectID, a.MeetingID, a.AssigneeID, a.Title,
		a.Description, string(a.Status), a.DueDate, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert action item: %w", err)
	}
	return nil
}

func (r *ActionItemRepository) ListByMeeting(ctx context.Context, meetingID string) ([]model.ActionItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, meeting_id, assignee_id, title, description, status, due_date, created_at
		 FROM action_items WHERE meeting_id = $1 ORDER BY created_at`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	items := make([]model.ActionItem, 0)
	for rows.Next() {
		var a model.ActionItem
		var status string
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.MeetingID, &a.AssigneeID,
			&a.Title, &a.Description, &status, &a.DueDate, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		a.Status = model.ActionItemStatus(status)
		items = append(items, a)
	}
	return items, rows.Err()
}

// ProjectRepository is the postgres implementation of
// repository.ProjectRepository.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*model.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, archived, created_at FROM projects WHERE id = $1`, id)
	var p model.Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Archived, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("project", id)
	}
	if err != nil {
		return nil, fmt.Errorf("db scan failed: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) LatestActiveByOwner(ctx context.Context, ownerID string) (*model.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, archived, created_at FROM projects
		 WHERE owner_id = $1 AND NOT archived
		 ORDER BY created_at DESC LIMIT 1`, ownerID)
	var p model.Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Archived, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db scan failed: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepository) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("db scan failed: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	// Project owners are implicit members.
	row = r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM projects WHERE id = $1 AND owner_id = $2`, projectID, userID)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("db scan failed: %w", err)
	}
	return n > 0, nil
}
