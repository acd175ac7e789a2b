package importer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"meetscribe/internal/app/errors"
	"meetscribe/internal/app/model"
	"meetscribe/internal/app/repository"
)

// maxTitleLen bounds imported decision and action titles.
const maxTitleLen = 120

// Selections names the extraction items the user approved for import.
type Selections struct {
	Decisions []string `json:"decisions"`
	Actions   []string `json:"actions"`
}

// MeetingData carries the fields for a freshly anchored meeting record.
type MeetingData struct {
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Participants string    `json:"participants"`
	Context      string    `json:"context"`
}

// ImportRequest is one selective-import call.
type ImportRequest struct {
	// MeetingID attaches to an existing meeting when set; otherwise a new
	// meeting record anchors the extraction.
	MeetingID   string
	UserID      string
	Extraction  *model.Extraction
	Selections  Selections
	MeetingData MeetingData
	CleanedText string
}

// SkippedItem reports one selected item that could not be imported.
type SkippedItem struct {
	Kind   string `json:"kind"` // "decision" or "action"
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// ImportResult reports what the best-effort import actually created.
type ImportResult struct {
	MeetingID        string        `json:"meetingId"`
	CreatedDecisions []string      `json:"createdDecisions"`
	CreatedActions   []string      `json:"createdActions"`
	Skipped          []SkippedItem `json:"skipped,omitempty"`
}

// Importer materializes the user-approved subset of a validated extraction
// into permanent records. Failures importing one item never abort the rest
// of the call; partial success is an expected outcome.
type Importer struct {
	meetings  repository.MeetingRepository
	decisions repository.DecisionRepository
	actions   repository.ActionItemRepository
	projects  repository.ProjectRepository
	logger    *slog.Logger
}

// New creates an Importer.
func New(
	meetings repository.MeetingRepository,
	decisions repository.DecisionRepository,
	actions repository.ActionItemRepository,
	projects repository.ProjectRepository,
	logger *slog.Logger,
) *Importer {
	return &Importer{
		meetings:  meetings,
		decisions: decisions,
		actions:   actions,
		projects:  projects,
		logger:    logger,
	}
}

// Import runs one selective import call.
func (im *Importer) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if req.Extraction == nil {
		return nil, errors.RequiredField("extraction")
	}

	meeting, err := im.anchorMeeting(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		MeetingID:        meeting.ID,
		CreatedDecisions: make([]string, 0),
		CreatedActions:   make([]string, 0),
	}

	projectID, projectErr := im.resolveProject(ctx, meeting, req.UserID)

	for _, id := range req.Selections.Decisions {
		dec, found := lo.Find(req.Extraction.Decisions, func(d model.ExtractionDecision) bool {
			return d.ID == id
		})
		if !found {
			result.Skipped = append(result.Skipped, SkippedItem{
				Kind: "decision", ID: id, Reason: "not present in extraction",
			})
			continue
		}
		if projectErr != nil {
			// No orphan decisions without a project; skip instead of
			// failing the whole import.
			result.Skipped = append(result.Skipped, SkippedItem{
				Kind: "decision", ID: id, Reason: projectErr.Error(),
			})
			continue
		}

		record := &model.Decision{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			MeetingID: meeting.ID,
			AuthorID:  req.UserID,
			Title:     truncate(dec.Text, maxTitleLen),
			Context:   dec.Evidence,
			Status:    model.DecisionStatusDraft,
			CreatedAt: time.Now().UTC(),
		}
		if err := im.decisions.Create(ctx, record); err != nil {
			im.logger.Warn("decision import failed", "extraction_id", id, "error", err)
			result.Skipped = append(result.Skipped, SkippedItem{
				Kind: "decision", ID: id, Reason: "create failed: " + err.Error(),
			})
			continue
		}
		result.CreatedDecisions = append(result.CreatedDecisions, record.ID)
	}

	for _, id := range req.Selections.Actions {
		act, found := lo.Find(req.Extraction.Actions, func(a model.ExtractionAction) bool {
			return a.ID == id
		})
		if !found {
			result.Skipped = append(result.Skipped, SkippedItem{
				Kind: "action", ID: id, Reason: "not present in extraction",
			})
			continue
		}
		if projectErr != nil {
			result.Skipped = append(result.Skipped, SkippedItem{
				Kind: "action", ID: id, Reason: projectErr.Error(),
			})
			continue
		}

		record := &model.ActionItem{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			MeetingID: meeting.ID,
			Title:     truncate(act.Task, maxTitleLen),
			Status:    mapActionStatus(act.Status),
			DueDate:   act.DueDate,
			CreatedAt: time.Now().UTC(),
		}
		record.Description = act.Evidence
		if act.DueDate == nil && act.DueDateRaw != "" {
			// The raw date stays visible as descriptive text when no
			// concrete date could be parsed.
			if record.Description != "" {
				record.Description += "\n"
			}
			record.Description += "Due (unparsed): " + act.DueDateRaw
		}
		if err := im.actions.Create(ctx, record); err != nil {
			im.logger.Warn("action import failed", "extraction_id", id, "error", err)
			result.Skipped = append(result.Skipped, SkippedItem{
				Kind: "action", ID: id, Reason: "create failed: " + err.Error(),
			})
			continue
		}
		result.CreatedActions = append(result.CreatedActions, record.ID)
	}

	return result, nil
}

// anchorMeeting reuses the caller's meeting when an id is supplied,
// otherwise creates one carrying the extraction and analysis timestamp.
func (im *Importer) anchorMeeting(ctx context.Context, req ImportRequest) (*model.Meeting, error) {
	now := time.Now().UTC()

	if req.MeetingID != "" {
		meeting, err := im.meetings.Get(ctx, req.MeetingID)
		if err != nil {
			return nil, err
		}
		meeting.AnalyzedAt = &now
		meeting.RawNotes = req.CleanedText
		meeting.ExtractionJSON = marshalExtraction(req.Extraction)
		if err := im.meetings.Update(ctx, meeting); err != nil {
			return nil, err
		}
		return meeting, nil
	}

	title := req.MeetingData.Title
	if title == "" {
		title = req.Extraction.Meta.Title
	}
	if title == "" {
		title = "Untitled meeting"
	}
	date := req.MeetingData.Date
	if date.IsZero() {
		date = now
	}
	participants := req.MeetingData.Participants
	if participants == "" && len(req.Extraction.Meta.Attendees) > 0 {
		names := lo.Map(req.Extraction.Meta.Attendees, func(a model.Attendee, _ int) string {
			return a.Name
		})
		participants = joinNames(names)
	}

	meeting := &model.Meeting{
		ID:             uuid.New().String(),
		OwnerID:        req.UserID,
		Title:          truncate(title, maxTitleLen),
		Date:           date,
		Participants:   participants,
		Context:        req.MeetingData.Context,
		RawNotes:       req.CleanedText,
		ExtractionJSON: marshalExtraction(req.Extraction),
		AnalyzedAt:     &now,
		CreatedAt:      now,
	}
	if err := im.meetings.Create(ctx, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// resolveProject picks the meeting's own project when set, otherwise the
// caller's most recently created active project.
func (im *Importer) resolveProject(ctx context.Context, meeting *model.Meeting, userID string) (string, error) {
	if meeting.ProjectID != "" {
		return meeting.ProjectID, nil
	}
	project, err := im.projects.LatestActiveByOwner(ctx, userID)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", errors.New("no project could be resolved")
	}
	return project.ID, nil
}

func mapActionStatus(s model.ActionStatus) model.ActionItemStatus {
	switch s {
	case model.ActionStatusDone:
		return model.ActionItemDone
	case model.ActionStatusInProgress:
		return model.ActionItemDoing
	default:
		return model.ActionItemTodo
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

func marshalExtraction(ext *model.Extraction) string {
	b, err := json.Marshal(ext)
	if err != nil {
		return ""
	}
	return string(b)
}
