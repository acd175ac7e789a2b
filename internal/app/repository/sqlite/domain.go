package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"meetscribe/internal/app/errors"
	"meetscribe/internal/app/model"
)

// MeetingRepository is the sqlite implementation of
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
		 FROM meetings WHERE id = ?`, id)
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
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.OwnerID, m.ProjectID, m.Title, m.Date, m.Participants,
		m.Context, m.RawNotes, m.ExtractionJSON, m.AnalyzedAt, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

func (r *MeetingRepository) Update(ctx context.Context, m *model.Meeting) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE meetings SET title = ?, participants = ?, context = ?, raw_notes = ?,
			extraction_json = ?, analyzed_at = ? WHERE id = ?`,
		m.Title, m.Participants, m.Context, m.RawNotes, m.ExtractionJSON, m.AnalyzedAt, m.ID)
	if err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}
	return nil
}

// DecisionRepository is the sqlite implementation of
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
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.ProjectID, d.MeetingID, d.AuthorID, d.Title, d.Context, string(d.Status), d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

func (r *DecisionRepository) ListByMeeting(ctx context.Context, meetingID string) ([]model.Decision, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, meeting_id, author_id, title, context, status, created_at
		 FROM decisions WHERE meeting_id = ? ORDER BY created_at`, meetingID)
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

// ActionItemRepository is the sqlite implementation of
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
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
		 FROM action_items WHERE meeting_id = ? ORDER BY created_at`, meetingID)
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

// ProjectRepository is the sqlite implementation of
// repository.ProjectRepository.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*model.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, archived, created_at FROM projects WHERE id = ?`, id)
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
		 WHERE owner_id = ? AND archived = 0
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
		`SELECT COUNT(1) FROM project_members WHERE project_id = ? AND user_id = ?`, projectID, userID)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("db scan failed: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	// Project owners are implicit members.
	row = r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM projects WHERE id = ? AND owner_id = ?`, projectID, userID)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("db scan failed: %w", err)
	}
	return n > 0, nil
}

// AddMember records project membership; used by tests and fixtures.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO project_members (project_id, user_id) VALUES (?, ?)`, projectID, userID)
	if err != nil {
		return fmt.Errorf("insert project member: %w", err)
	}
	return nil
}

// CreateProject inserts a project row; used by tests and fixtures.
func (r *ProjectRepository) CreateProject(ctx context.Context, p *model.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, owner_id, name, archived, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Name, p.Archived, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}
