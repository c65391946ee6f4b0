package Reports

import (
	"bytes"
	"fmt"

	"MagicPlanner/Planner"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Napredak"

var headers = []string{
	"Zadatak", "Opis", "Rok", "Prioritet", "Status",
	"Početak", "Kraj", "Urađeno", "Ukupno", "Napredak",
}

// status is the task state as shown in the report.
func status(row Planner.TaskProgress) string {
	switch {
	case row.Task.Done:
		return "Završen"
	case row.Task.Started():
		return "U toku"
	default:
		return "Nije započet"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ExportProgress writes the progress overview as a single-sheet workbook.
func ExportProgress(rows []Planner.TaskProgress) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range headers {
		f.SetCellValue(SheetName, fmt.Sprintf("%c1", 'A'+i), header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FFE082"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(SheetName, 1, 1, headerStyle)
	}

	for i, row := range rows {
		line := i + 2
		priority := "Ne"
		if row.Task.Priority {
			priority = "Da"
		}
		values := []interface{}{
			row.Task.Name,
			row.Task.Description,
			row.Task.DueDate + " " + row.Task.DueTime,
			priority,
			status(row),
			deref(row.Task.Start),
			deref(row.Task.End),
			row.Progress.Finished,
			row.Progress.Total,
			row.Progress.Fraction,
		}
		for col, value := range values {
			f.SetCellValue(SheetName, fmt.Sprintf("%c%d", 'A'+col, line), value)
		}
	}

	last := 'A' + rune(len(headers)-1)
	if len(rows) > 0 {
		percent, err := f.NewStyle(&excelize.Style{NumFmt: 9})
		if err == nil {
			f.SetCellStyle(SheetName, fmt.Sprintf("%c2", last), fmt.Sprintf("%c%d", last, len(rows)+1), percent)
		}
	}
	f.SetColWidth(SheetName, "A", "B", 30)
	f.SetColWidth(SheetName, "C", string(last), 15)

	if f.GetSheetName(0) != SheetName {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return &buf, nil
}
