package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"meetscribe/internal/app/model"
)

// ToExcel writes a meeting's imported decisions and action items into a
// two-sheet workbook.
func ToExcel(meeting *model.Meeting, decisions []model.Decision, items []model.ActionItem, outputFilePath string) error {
	file := xlsx.NewFile()

	decisionSheet, err := file.AddSheet("Decisions")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := decisionSheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "Meeting"
	headerRow.AddCell().Value = "Title"
	headerRow.AddCell().Value = "Context"
	headerRow.AddCell().Value = "Status"
	headerRow.AddCell().Value = "Created At"

	for _, d := range decisions {
		row := decisionSheet.AddRow()
		row.AddCell().Value = d.ID
		row.AddCell().Value = meeting.Title
		row.AddCell().Value = d.Title
		row.AddCell().Value = d.Context
		row.AddCell().Value = string(d.Status)
		row.AddCell().Value = d.CreatedAt.Format(time.RFC3339)
	}

	actionSheet, err := file.AddSheet("Action Items")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow = actionSheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "Meeting"
	headerRow.AddCell().Value = "Title"
	headerRow.AddCell().Value = "Description"
	headerRow.AddCell().Value = "Status"
	headerRow.AddCell().Value = "Due Date"
	headerRow.AddCell().Value = "Created At"

	for _, a := range items {
		row := actionSheet.AddRow()
		row.AddCell().Value = a.ID
		row.AddCell().Value = meeting.Title
		row.AddCell().Value = a.Title
		row.AddCell().Value = a.Description
		row.AddCell().Value = string(a.Status)
		if a.DueDate != nil {
			row.AddCell().Value = a.DueDate.Format("2006-01-02")
		} else {
			row.AddCell().Value = ""
		}
		row.AddCell().Value = a.CreatedAt.Format(time.RFC3339)
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
