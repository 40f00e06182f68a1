package testutil

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is one fixture sheet: a header row followed by data rows.
type Sheet [][]interface{}

// WriteWorkbook writes an xlsx file with the given sheets (sorted by name) and returns its path.
func WriteWorkbook(t testing.TB, dir string, sheets map[string]Sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("failed to create sheet %s: %v", name, err)
		}
		for r, row := range sheets[name] {
			cellName, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("bad coordinates: %v", err)
			}
			values := row
			if err := f.SetSheetRow(name, cellName, &values); err != nil {
				t.Fatalf("failed to write %s row %d: %v", name, r+1, err)
			}
		}
	}

	path := filepath.Join(dir, "reference.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

// ReferenceSheets returns a small but complete reference workbook using the default sheet names.
// NBEO holds a Condition and a Discipline hierarchy; codes are numeric where the real sheets are.
func ReferenceSheets() map[string]Sheet {
	return map[string]Sheet{
		"tb_courses": {
			{"year", "semester", "description", "lecture_or_lab"},
			{2, "Fall", "Ocular Anatomy", "Lecture"},
			{2, "Fall", "Ocular Anatomy", "Lab"},
			{1, "Spring", "Optics I", "Lecture"},
			{1, "Fall", "Optics I", nil},
			{1, "Fall", "Biochemistry", "Lecture"},
		},
		"tb_bloomlevel": {
			{"description", "level"},
			{"Remember - recall facts", "Remember"},
			{"Apply - use information", "Apply"},
			{"Incomplete row", nil},
		},
		"tb_activity": {
			{"description"},
			{"Lecture"},
			{"Small group discussion"},
			{nil},
			{"Lab practical"},
		},
		"tb_methods": {
			{"id", "method"},
			{1, "MCQ"},
			{2, "OSCE"},
			{3, "MCQ"},
		},
		"tb_difficulty": {
			{"difficulty"},
			{"Easy"},
			{"Hard"},
		},
		"tb_assessed": {
			{"id", "assessed"},
			{1, "Yes"},
			{2, "No"},
		},
		"tb_nbeo": {
			{"code", "parent_code", "title", "is_leaf", "category"},
			{100, nil, "Anterior Segment", 0, "Condition"},
			{110, 100, "Cornea", 0, "Condition"},
			{111, 110, "Keratitis", 1, "Condition"},
			{112, 110, "Keratoconus", 1, "Condition"},
			{120, 100, "Lens", 1, "Condition"},
			{200, nil, "Clinical Skills", 0, "Discipline"},
			{210, 200, "Refraction", 1, "Discipline"},
		},
		"tb_asco": {
			{"code", "parent_code", "title", "is_leaf"},
			{"A", nil, "Patient Care", 0},
			{"A.1", "A", "History", 1},
			{"A.2", "A", "Examination", 1},
			{"B", nil, "Professionalism", 1},
		},
		"tb_uhco": {
			{"code", "parent_code", "title"},
			{"U1", nil, "Knowledge"},
			{"U1.1", "U1", "Basic Science"},
		},
	}
}

// WriteReferenceWorkbook writes ReferenceSheets into dir and returns the file path.
func WriteReferenceWorkbook(t testing.TB, dir string) string {
	t.Helper()
	return WriteWorkbook(t, dir, ReferenceSheets())
}
