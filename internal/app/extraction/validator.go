package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"meetscribe/internal/app/model"
)

// Violation is one schema or semantic problem found in an extraction
// payload.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// ValidationError carries every violation found, not just the first, so a
// caller can present a complete correction list.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := lo.Map(e.Violations, func(v Violation, _ int) string { return v.String() })
	return "extraction validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the violations as plain strings for API responses.
func (e *ValidationError) Messages() []string {
	return lo.Map(e.Violations, func(v Violation, _ int) string { return v.String() })
}

// dueDateLayouts are the calendar formats accepted for action due dates.
// Anything else is preserved verbatim in due_date_raw instead of failing
// validation.
var dueDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"02.01.2006",
	time.RFC3339,
}

// wire types tolerate loosely-typed input so every problem can be reported
// at once.
type wireExtraction struct {
	Meta      *wireMeta      `json:"meta"`
	Decisions []wireDecision `json:"decisions"`
	Actions   []wireAction   `json:"actions"`
}

type wireMeta struct {
	Title     *string        `json:"title"`
	Attendees []wireAttendee `json:"attendees"`
}

type wireAttendee struct {
	Name string `json:"name"`
}

type wireDecision struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Evidence string `json:"evidence"`
}

type wireAction struct {
	ID         string `json:"id"`
	Task       string `json:"task"`
	DueDate    string `json:"due_date"`
	DueDateRaw string `json:"due_date_raw"`
	Evidence   string `json:"evidence"`
	Status     string `json:"status"`
}

// Validate checks raw extraction JSON structurally and semantically and
// returns the typed extraction, or a *ValidationError enumerating every
// violation found.
func Validate(raw json.RawMessage) (*model.Extraction, error) {
	var wire wireExtraction
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &ValidationError{Violations: []Violation{
			{Path: "$", Message: "payload is not a valid extraction object: " + err.Error()},
		}}
	}

	var violations []Violation

	ext := &model.Extraction{
		Decisions: make([]model.ExtractionDecision, 0, len(wire.Decisions)),
		Actions:   make([]model.ExtractionAction, 0, len(wire.Actions)),
	}

	if wire.Meta != nil {
		if wire.Meta.Title != nil {
			title := strings.TrimSpace(*wire.Meta.Title)
			if title == "" {
				violations = append(violations, Violation{
					Path: "meta.title", Message: "must be a non-empty string when present",
				})
			}
			ext.Meta.Title = title
		}
		for i, a := range wire.Meta.Attendees {
			name := strings.TrimSpace(a.Name)
			if name == "" {
				violations = append(violations, Violation{
					Path: fmt.Sprintf("meta.attendees[%d].name", i), Message: "is required",
				})
				continue
			}
			ext.Meta.Attendees = append(ext.Meta.Attendees, model.Attendee{Name: name})
		}
	}

	seenDecisionIDs := make(map[string]bool)
	for i, d := range wire.Decisions {
		if d.ID == "" {
			violations = append(violations, Violation{
				Path: fmt.Sprintf("decisions[%d].id", i), Message: "is required",
			})
		} else if seenDecisionIDs[d.ID] {
			// Duplicates fail rather than deduplicate: selection by id must
			// never be ambiguous.
			violations = append(violations, Violation{
				Path: fmt.Sprintf("decisions[%d].id", i), Message: fmt.Sprintf("duplicate id %q", d.ID),
			})
		}
		seenDecisionIDs[d.ID] = true

		if strings.TrimSpace(d.Text) == "" {
			violations = append(violations, Violation{
				Path: fmt.Sprintf("decisions[%d].text", i), Message: "is required",
			})
		}
		ext.Decisions = append(ext.Decisions, model.ExtractionDecision{
			ID:       d.ID,
			Text:     strings.TrimSpace(d.Text),
			Evidence: strings.TrimSpace(d.Evidence),
		})
	}

	seenActionIDs := make(map[string]bool)
	for i, a := range wire.Actions {
		if a.ID == "" {
			violations = append(violations, Violation{
				Path: fmt.Sprintf("actions[%d].id", i), Message: "is required",
			})
		} else if seenActionIDs[a.ID] {
			violations = append(violations, Violation{
				Path: fmt.Sprintf("actions[%d].id", i), Message: fmt.Sprintf("duplicate id %q", a.ID),
			})
		}
		seenActionIDs[a.ID] = true

		if strings.TrimSpace(a.Task) == "" {
			violations = append(violations, Violation{
				Path: fmt.Sprintf("actions[%d].task", i), Message: "is required",
			})
		}

		status := model.ActionStatus(a.Status)
		if !status.Valid() {
			// Unknown statuses are rejected, never coerced.
			violations = append(violations, Violation{
				Path:    fmt.Sprintf("actions[%d].status", i),
				Message: fmt.Sprintf("must be one of todo, in_progress, done (got %q)", a.Status),
			})
		}

		action := model.ExtractionAction{
			ID:         a.ID,
			Task:       strings.TrimSpace(a.Task),
			Evidence:   strings.TrimSpace(a.Evidence),
			Status:     status,
			DueDateRaw: a.DueDateRaw,
		}
		if raw := strings.TrimSpace(a.DueDate); raw != "" {
			if due, ok := ParseDueDate(raw); ok {
				action.DueDate = &due
			} else {
				// An unparseable date is not a violation; the verbatim value
				// stays visible for human review.
				action.DueDateRaw = raw
			}
		}
		ext.Actions = append(ext.Actions, action)
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return ext, nil
}

// ParseDueDate tries each accepted calendar layout in order.
func ParseDueDate(raw string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
