// Package workbook reads taxonomy and reference sheets from the reference xlsx
// workbook and persists learning objective mappings into one of its sheets.
package workbook

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

var (
	// ErrWorkbookNotFound is returned when reading from a workbook file that does not exist.
	ErrWorkbookNotFound = errors.New("workbook not found")
	// ErrSheetNotFound is returned when a required sheet is missing.
	ErrSheetNotFound = errors.New("sheet not found")
)

// Workbook is a file-backed xlsx workbook. Every operation opens the file afresh,
// so edits made outside the process are picked up on the next read.
type Workbook struct {
	path   string
	sheets core.SheetConfig
	logger *slog.Logger

	// mu serializes read-modify-write cycles on the mapping sheet.
	mu sync.Mutex
}

// Open returns a workbook bound to path. The file is not read until first use.
func Open(path string, sheets core.SheetConfig, logger *slog.Logger) *Workbook {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Workbook{path: path, sheets: sheets, logger: logger}
}

// Path returns the workbook file path.
func (w *Workbook) Path() string {
	return w.path
}

// Sheets returns the sheet names in use.
func (w *Workbook) Sheets() core.SheetConfig {
	return w.sheets
}

// Exists reports whether the workbook file is present.
func (w *Workbook) Exists() bool {
	_, err := os.Stat(w.path)
	return err == nil
}

func (w *Workbook) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWorkbookNotFound, w.path)
		}
		return nil, fmt.Errorf("failed to open workbook %s: %w", w.path, err)
	}
	return f, nil
}

// readSheet returns the header and data rows of a sheet. Header names are trimmed.
// Data rows are padded to the header width and fully empty rows are skipped.
func (w *Workbook) readSheet(sheet string) ([]string, [][]string, error) {
	f, err := w.open()
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	return readTable(f, sheet)
}

func readTable(f *excelize.File, sheet string) ([]string, [][]string, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		padded := make([]string, len(header))
		for i := 0; i < len(header) && i < len(row); i++ {
			padded[i] = strings.TrimSpace(row[i])
		}
		data = append(data, padded)
	}
	return header, data, nil
}

// columnIndex returns the position of name in header, case-insensitively, or -1.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cleanCode renders integral float labels ("12.0") the way they were typed ("12").
// It is for reference values such as years, never for taxonomy codes.
func cleanCode(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if strings.Trim(frac, "0") != "" {
		return s
	}
	if _, err := strconv.Atoi(intPart); err != nil {
		return s
	}
	return intPart
}

// truthy interprets an is_leaf cell.
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1.0", "true", "yes", "y", "x":
		return true
	}
	return false
}
