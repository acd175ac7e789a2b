package extraction

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetscribe/internal/app/model"
)

func TestValidateAcceptsCompletePayload(t *testing.T) {
	raw := json.RawMessage(`{
		"meta": {"title": "Q3 planning", "attendees": [{"name": "Ana"}, {"name": "Ben"}]},
		"decisions": [
			{"id": "d1", "text": "Ship the beta in September", "evidence": "discussed at 12:30"}
		],
		"actions": [
			{"id": "a1", "task": "Write the release notes", "due_date": "2026-09-15", "status": "todo"},
			{"id": "a2", "task": "Book the retro room", "status": "done"}
		]
	}`)

	ext, err := Validate(raw)
	require.NoError(t, err)

	assert.Equal(t, "Q3 planning", ext.Meta.Title)
	assert.Len(t, ext.Meta.Attendees, 2)
	require.Len(t, ext.Decisions, 1)
	assert.Equal(t, "Ship the beta in September", ext.Decisions[0].Text)
	require.Len(t, ext.Actions, 2)
	require.NotNil(t, ext.Actions[0].DueDate)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), *ext.Actions[0].DueDate)
	assert.Equal(t, model.ActionStatusDone, ext.Actions[1].Status)
	assert.Nil(t, ext.Actions[1].DueDate)
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	raw := json.RawMessage(`{
		"meta": {"title": "   ", "attendees": [{"name": ""}]},
		"decisions": [
			{"id": "", "text": ""},
			{"id": "d1", "text": "ok"},
			{"id": "d1", "text": "dup"}
		],
		"actions": [
			{"id": "a1", "task": "", "status": "urgent"}
		]
	}`)

	_, err := Validate(raw)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	paths := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		paths = append(paths, v.Path)
	}
	assert.Contains(t, paths, "meta.title")
	assert.Contains(t, paths, "meta.attendees[0].name")
	assert.Contains(t, paths, "decisions[0].id")
	assert.Contains(t, paths, "decisions[0].text")
	assert.Contains(t, paths, "decisions[2].id")
	assert.Contains(t, paths, "actions[0].task")
	assert.Contains(t, paths, "actions[0].status")
	assert.Len(t, verr.Violations, 7)
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	_, err := Validate(json.RawMessage(`{"decisions": [`))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "$", verr.Violations[0].Path)
}

func TestValidateNeverCoercesStatus(t *testing.T) {
	raw := json.RawMessage(`{
		"actions": [{"id": "a1", "task": "t", "status": "DONE"}]
	}`)

	_, err := Validate(raw)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations[0].Path, "status")
}

func TestValidateKeepsUnparseableDueDateVerbatim(t *testing.T) {
	raw := json.RawMessage(`{
		"actions": [{"id": "a1", "task": "t", "due_date": "next sprint", "status": "todo"}]
	}`)

	ext, err := Validate(raw)
	require.NoError(t, err)
	require.Len(t, ext.Actions, 1)
	assert.Nil(t, ext.Actions[0].DueDate)
	assert.Equal(t, "next sprint", ext.Actions[0].DueDateRaw)
}

func TestValidateRoundTripsWellFormedExtraction(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	original := &model.Extraction{
		Meta: model.ExtractionMeta{
			Title:     "Q3 planning",
			Attendees: []model.Attendee{{Name: "Ana"}},
		},
		Decisions: []model.ExtractionDecision{
			{ID: "d1", Text: "Ship the beta in September", Evidence: "discussed at 12:30"},
		},
		Actions: []model.ExtractionAction{
			{ID: "a1", Task: "Write the release notes", DueDate: &due, Status: model.ActionStatusTodo},
			{ID: "a2", Task: "Chase the vendor quote", DueDateRaw: "next sprint", Status: model.ActionStatusInProgress},
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	got, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestParseDueDateLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2026-09-15", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"2026/09/15", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"Sep 15 2026", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"September 15, 2026", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"15.09.2026", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := ParseDueDate(tt.raw)
		require.True(t, ok, tt.raw)
		assert.True(t, got.Equal(tt.want), tt.raw)
	}

	_, ok := ParseDueDate("soon")
	assert.False(t, ok)
}
