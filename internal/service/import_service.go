package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"lingoloop/internal/models"
)

// ImportConfig defines how a spreadsheet maps onto review items
type ImportConfig struct {
	FilePath    string // Path to the Excel or CSV file
	FrontColumn string // Column with the prompt side
	BackColumn  string // Column with the answer side
	KindColumn  string // Column with the item kind (optional)
	SheetName   string // Name of the sheet to import
	StartRow    int    // The row to start importing from (1-based index)
	Mode        models.ReviewMode
	DefaultKind models.ItemKind
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		FrontColumn: "A",
		BackColumn:  "B",
		KindColumn:  "C",
		SheetName:   "Sheet1",
		StartRow:    2, // skip the header row
		Mode:        models.ModeMemoryModel,
		DefaultKind: models.KindFlashcard,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Existing       int
	Errors         []string
}

// ImportService bulk-loads review items from spreadsheets. Every row goes
// through the same save path as the API, so a duplicate row collapses onto
// the existing item instead of erroring.
type ImportService struct {
	reviews *ReviewService
}

// NewImportService creates a new import service
func NewImportService(reviews *ReviewService) *ImportService {
	return &ImportService{reviews: reviews}
}

// ImportFile imports review items for the owner from an Excel or CSV file
func (s *ImportService) ImportFile(ownerID int64, cfg ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(cfg.FilePath))
	if ext == ".csv" {
		return s.importFromCSV(ownerID, cfg)
	}
	return s.importFromExcel(ownerID, cfg)
}

func (s *ImportService) importFromExcel(ownerID int64, cfg ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	now := time.Now().UTC()

	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}

		var front, back, kind string
		if idx := columnToIndex(cfg.FrontColumn); idx < len(row) {
			front = row[idx]
		}
		if idx := columnToIndex(cfg.BackColumn); idx < len(row) {
			back = row[idx]
		}
		if cfg.KindColumn != "" {
			if idx := columnToIndex(cfg.KindColumn); idx < len(row) {
				kind = row[idx]
			}
		}

		s.importRow(ownerID, front, back, kind, cfg, now, result, i+1)
	}

	return result, nil
}

func (s *ImportService) importFromCSV(ownerID int64, cfg ImportConfig) (*ImportResult, error) {
	file, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	now := time.Now().UTC()
	rowNum := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < cfg.StartRow {
			continue
		}

		var front, back, kind string
		if len(row) > 0 {
			front = row[0]
		}
		if len(row) > 1 {
			back = row[1]
		}
		if len(row) > 2 {
			kind = row[2]
		}

		s.importRow(ownerID, front, back, kind, cfg, now, result, rowNum)
	}

	return result, nil
}

func (s *ImportService) importRow(ownerID int64, front, back, kind string, cfg ImportConfig, now time.Time, result *ImportResult, rowNum int) {
	result.TotalProcessed++

	itemKind := cfg.DefaultKind
	if k := models.ItemKind(strings.ToLower(strings.TrimSpace(kind))); k.Valid() {
		itemKind = k
	}

	_, created, err := s.reviews.SaveForReview(ownerID, itemKind, front, back, cfg.Mode, "", now)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		return
	}

	if created {
		result.Created++
	} else {
		result.Existing++
	}
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
