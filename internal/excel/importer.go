// Package excel bulk-loads question sets from spreadsheet files into the
// backend, and exports completed session summaries.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/elevate/pkg/models"
)

// Backend is the slice of the API client the importer needs
type Backend interface {
	CreateQuestionSet(ctx context.Context, folderID int64, name string) (*models.QuestionSet, error)
	CreateQuestion(ctx context.Context, questionSetID int64, text, answer string) (*models.Question, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath       string // Path to the Excel or CSV file
	FolderID       int64  // Folder the new question set goes into
	SetName        string // Name for the new question set; defaults to the file name
	QuestionColumn int    // 0-based column with the question text
	AnswerColumn   int    // 0-based column with the answer
	SheetName      string // Name of the sheet to import
	StartRow       int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		QuestionColumn: 0,
		AnswerColumn:   1,
		SheetName:      "Sheet1",
		StartRow:       2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	QuestionSet    *models.QuestionSet
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportQuestions reads question/answer rows from an Excel or CSV file and
// creates a question set with them on the backend.
func ImportQuestions(ctx context.Context, backend Backend, config ImportConfig) (*ImportResult, error) {
	if config.SetName == "" {
		base := filepath.Base(config.FilePath)
		config.SetName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	var rows [][]string
	var err error
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	set, err := backend.CreateQuestionSet(ctx, config.FolderID, config.SetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create question set: %v", err)
	}

	result := &ImportResult{QuestionSet: set, Errors: make([]string, 0)}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		question := cell(row, config.QuestionColumn)
		answer := cell(row, config.AnswerColumn)
		if question == "" || answer == "" {
			result.Skipped++
			continue
		}

		if _, err := backend.CreateQuestion(ctx, set.ID, question, answer); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

// readExcel returns all rows of one sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}
	return rows, nil
}

// readCSV returns all rows of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cell returns the trimmed value at index, "" when the row is too short
func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
