package importer

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetscribe/internal/app/model"
	"meetscribe/internal/app/repository/sqlite"
	"meetscribe/internal/app/testutil"
)

func newTestImporter(t *testing.T) (*Importer, *importerDeps) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	deps := &importerDeps{
		db:        db,
		meetings:  sqlite.NewMeetingRepository(db),
		decisions: sqlite.NewDecisionRepository(db),
		actions:   sqlite.NewActionItemRepository(db),
		projects:  sqlite.NewProjectRepository(db),
	}
	imp := New(deps.meetings, deps.decisions, deps.actions, deps.projects, testutil.NewTestLogger())
	return imp, deps
}

type importerDeps struct {
	db        *sql.DB
	meetings  *sqlite.MeetingRepository
	decisions *sqlite.DecisionRepository
	actions   *sqlite.ActionItemRepository
	projects  *sqlite.ProjectRepository
}

func sampleExtraction() *model.Extraction {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	return &model.Extraction{
		Meta: model.ExtractionMeta{Title: "Q3 planning"},
		Decisions: []model.ExtractionDecision{
			{ID: "d1", Text: "Ship the beta in September", Evidence: "12:30"},
			{ID: "d2", Text: "Keep the pricing page as is"},
			{ID: "d3", Text: "Drop the legacy importer"},
		},
		Actions: []model.ExtractionAction{
			{ID: "a1", Task: "Write the release notes", Status: model.ActionStatusTodo, DueDate: &due},
			{ID: "a2", Task: "Book the retro room", Status: model.ActionStatusDone},
			{ID: "a3", Task: "Chase legal", Status: model.ActionStatusInProgress, DueDateRaw: "next sprint"},
		},
	}
}

func TestImportSelectedSubset(t *testing.T) {
	imp, deps := newTestImporter(t)
	ctx := context.Background()

	ownerID := "user-1"
	projectID := testutil.SeedProject(t, deps.db, ownerID)
	meetingID := testutil.SeedMeeting(t, deps.db, ownerID, projectID)

	result, err := imp.Import(ctx, ImportRequest{
		MeetingID:  meetingID,
		UserID:     ownerID,
		Extraction: sampleExtraction(),
		Selections: Selections{
			Decisions: []string{"d1", "d3", "d9"},
			Actions:   []string{"a1", "a2"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, meetingID, result.MeetingID)
	assert.Len(t, result.CreatedDecisions, 2)
	assert.Len(t, result.CreatedActions, 2)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "decision", result.Skipped[0].Kind)
	assert.Equal(t, "d9", result.Skipped[0].ID)

	// Unselected items never land.
	decisions, err := deps.decisions.ListByMeeting(ctx, meetingID)
	require.NoError(t, err)
	assert.Len(t, decisions, 2)
	actions, err := deps.actions.ListByMeeting(ctx, meetingID)
	require.NoError(t, err)
	assert.Len(t, actions, 2)
}

func TestImportCreatesAnchorMeeting(t *testing.T) {
	imp, deps := newTestImporter(t)
	ctx := context.Background()

	ownerID := "user-1"
	testutil.SeedProject(t, deps.db, ownerID)

	result, err := imp.Import(ctx, ImportRequest{
		UserID:     ownerID,
		Extraction: sampleExtraction(),
		Selections: Selections{Decisions: []string{"d1"}},
		MeetingData: MeetingData{
			Title: "Q3 planning",
			Date:  time.Now().UTC(),
		},
		CleanedText: "full transcript",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.MeetingID)

	meeting, err := deps.meetings.Get(ctx, result.MeetingID)
	require.NoError(t, err)
	assert.Equal(t, "Q3 planning", meeting.Title)
	assert.NotNil(t, meeting.AnalyzedAt)
	assert.Len(t, result.CreatedDecisions, 1)
}

func TestImportStatusMapping(t *testing.T) {
	imp, deps := newTestImporter(t)
	ctx := context.Background()

	ownerID := "user-1"
	projectID := testutil.SeedProject(t, deps.db, ownerID)
	meetingID := testutil.SeedMeeting(t, deps.db, ownerID, projectID)

	_, err := imp.Import(ctx, ImportRequest{
		MeetingID:  meetingID,
		UserID:     ownerID,
		Extraction: sampleExtraction(),
		Selections: Selections{Actions: []string{"a1", "a2", "a3"}},
	})
	require.NoError(t, err)

	actions, err := deps.actions.ListByMeeting(ctx, meetingID)
	require.NoError(t, err)
	require.Len(t, actions, 3)

	statuses := map[string]model.ActionItemStatus{}
	for _, a := range actions {
		statuses[a.Title] = a.Status
	}
	assert.Equal(t, model.ActionItemTodo, statuses["Write the release notes"])
	assert.Equal(t, model.ActionItemDone, statuses["Book the retro room"])
	assert.Equal(t, model.ActionItemDoing, statuses["Chase legal"])
}

func TestImportKeepsUnparsedDueDateInDescription(t *testing.T) {
	imp, deps := newTestImporter(t)
	ctx := context.Background()

	ownerID := "user-1"
	projectID := testutil.SeedProject(t, deps.db, ownerID)
	meetingID := testutil.SeedMeeting(t, deps.db, ownerID, projectID)

	_, err := imp.Import(ctx, ImportRequest{
		MeetingID:  meetingID,
		UserID:     ownerID,
		Extraction: sampleExtraction(),
		Selections: Selections{Actions: []string{"a3"}},
	})
	require.NoError(t, err)

	actions, err := deps.actions.ListByMeeting(ctx, meetingID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Nil(t, actions[0].DueDate)
	assert.Contains(t, actions[0].Description, "Due (unparsed): next sprint")
}

func TestImportTruncatesLongTitles(t *testing.T) {
	imp, deps := newTestImporter(t)
	ctx := context.Background()

	ownerID := "user-1"
	projectID := testutil.SeedProject(t, deps.db, ownerID)
	meetingID := testutil.SeedMeeting(t, deps.db, ownerID, projectID)

	ext := &model.Extraction{
		Decisions: []model.ExtractionDecision{
			{ID: "d1", Text: strings.Repeat("x", 500)},
		},
	}
	_, err := imp.Import(ctx, ImportRequest{
		MeetingID:  meetingID,
		UserID:     ownerID,
		Extraction: ext,
		Selections: Selections{Decisions: []string{"d1"}},
	})
	require.NoError(t, err)

	decisions, err := deps.decisions.ListByMeeting(ctx, meetingID)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.LessOrEqual(t, len(decisions[0].Title), 120)
}

func TestImportSkipsWhenNoProjectResolvable(t *testing.T) {
	imp, deps := newTestImporter(t)
	ctx := context.Background()

	// Meeting without a project, owner without any project.
	meetingID := testutil.SeedMeeting(t, deps.db, "user-1", "")

	result, err := imp.Import(ctx, ImportRequest{
		MeetingID:  meetingID,
		UserID:     "user-1",
		Extraction: sampleExtraction(),
		Selections: Selections{Decisions: []string{"d1"}},
	})
	require.NoError(t, err)
	assert.Empty(t, result.CreatedDecisions)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0].Reason, "project")
}

func TestImportRequiresExtraction(t *testing.T) {
	imp, _ := newTestImporter(t)
	_, err := imp.Import(context.Background(), ImportRequest{UserID: "user-1"})
	assert.Error(t, err)
}
