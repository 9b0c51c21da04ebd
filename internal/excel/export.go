package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/example/elevate/internal/review"
)

// ExportSummary writes a completed session summary to an Excel file: one
// header block plus one row per answered question.
func ExportSummary(summary review.Summary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Summary"
	f.SetSheetName("Sheet1", sheet)

	header := [][]interface{}{
		{"Question Set", summary.QuestionSetName},
		{"Questions Answered", len(summary.Outcomes)},
		{"Average Score", summary.AverageScore},
		{"Time Spent (s)", summary.TimeSpent},
		{"Results Saved", summary.Submitted},
	}
	for i, row := range header {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary header: %v", err)
		}
	}

	columns := []interface{}{"Question ID", "Your Answer", "Score", "UUE Focus"}
	cell, _ := excelize.CoordinatesToCellName(1, len(header)+2)
	if err := f.SetSheetRow(sheet, cell, &columns); err != nil {
		return fmt.Errorf("failed to write outcome header: %v", err)
	}

	for i, outcome := range summary.Outcomes {
		row := []interface{}{outcome.QuestionID, outcome.UserAnswer, outcome.ScoreAchieved, string(outcome.UUEFocus)}
		cell, _ := excelize.CoordinatesToCellName(1, len(header)+3+i)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write outcome row: %v", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save export file: %v", err)
	}
	return nil
}
