package core

import (
	"strings"
	"time"
)

// Mapping column names of the outgoing record, in sheet order.
const (
	ColYear              = "Year"
	ColSemester          = "Semester"
	ColType              = "Type"
	ColCourseName        = "CourseName"
	ColLectureName       = "Lecture_Name"
	ColLearningObjective = "LearningObjective"
	ColBloomLevel        = "BloomLevel"
	ColActivity          = "Activity"
	ColAssessmentMethod  = "AssessmentMethod"
	ColDifficulty        = "Difficulty"
	ColIsAssessed        = "IsAssessed"
	ColACOEStandard      = "ACOE_Standard"
	ColQuestions         = "Questions"
)

// leadingColumns precede the standards columns; trailingColumns follow them.
var (
	leadingColumns = []string{
		ColYear, ColSemester, ColType, ColCourseName, ColLectureName, ColLearningObjective,
		ColBloomLevel, ColActivity, ColAssessmentMethod, ColDifficulty, ColIsAssessed,
	}
	trailingColumns = []string{ColACOEStandard, ColQuestions}
)

// Standard is one taxonomy selection written into a mapping as three columns:
// "<Column>_Code", "<Column>_Title" and the bare "<Column>" holding the combined label.
type Standard struct {
	Column string `json:"column"`
	SelectionResult
}

// Mapping is one saved learning objective row.
type Mapping struct {
	ID                string     `json:"id,omitempty"`
	Year              string     `json:"year"`
	Semester          string     `json:"semester"`
	Type              string     `json:"type"`
	CourseName        string     `json:"course_name"`
	LectureName       string     `json:"lecture_name"`
	LearningObjective string     `json:"learning_objective"`
	BloomLevel        string     `json:"bloom_level"`
	Activity          string     `json:"activity"`
	AssessmentMethod  string     `json:"assessment_method"`
	Difficulty        string     `json:"difficulty"`
	IsAssessed        string     `json:"is_assessed"`
	Standards         []Standard `json:"standards,omitempty"`
	ACOEStandard      string     `json:"acoe_standard"`
	Questions         string     `json:"questions"`
	CreatedAt         time.Time  `json:"created_at,omitempty"`
}

// Assessed reports whether the objective is marked as assessed ("yes", any case).
func (m Mapping) Assessed() bool {
	return IsYes(m.IsAssessed)
}

// IsYes reports whether s is a case-insensitive "yes".
func IsYes(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "yes")
}

// Standard returns the selection stored under column, or EmptySelection.
func (m Mapping) Standard(column string) SelectionResult {
	for _, s := range m.Standards {
		if s.Column == column {
			return s.SelectionResult
		}
	}
	return EmptySelection
}

// Values returns the mapping keyed by sheet column name.
// Standards columns are only present when the mapping carries standards.
func (m Mapping) Values() map[string]string {
	vals := map[string]string{
		ColYear:              m.Year,
		ColSemester:          m.Semester,
		ColType:              m.Type,
		ColCourseName:        m.CourseName,
		ColLectureName:       m.LectureName,
		ColLearningObjective: m.LearningObjective,
		ColBloomLevel:        m.BloomLevel,
		ColActivity:          m.Activity,
		ColAssessmentMethod:  m.AssessmentMethod,
		ColDifficulty:        m.Difficulty,
		ColIsAssessed:        m.IsAssessed,
		ColACOEStandard:      m.ACOEStandard,
		ColQuestions:         m.Questions,
	}
	for _, s := range m.Standards {
		vals[s.Column+"_Code"] = s.Code
		vals[s.Column+"_Title"] = s.Title
		vals[s.Column] = s.Combined
	}
	return vals
}

// MappingHeader returns the ordered column names for mappings carrying the given standards.
func MappingHeader(standardColumns []string) []string {
	header := make([]string, 0, len(leadingColumns)+3*len(standardColumns)+len(trailingColumns))
	header = append(header, leadingColumns...)
	for _, col := range standardColumns {
		header = append(header, col+"_Code", col+"_Title", col)
	}
	return append(header, trailingColumns...)
}

// StandardColumns returns the standard column prefixes found in a header:
// every column X for which X_Code and X_Title are also present, in header order.
func StandardColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var cols []string
	for _, h := range header {
		if present[h+"_Code"] && present[h+"_Title"] {
			cols = append(cols, h)
		}
	}
	return cols
}

// MappingFromValues builds a mapping from a row keyed by column name.
// Standards with no populated column are omitted.
func MappingFromValues(vals map[string]string, standardColumns []string) Mapping {
	m := Mapping{
		Year:              vals[ColYear],
		Semester:          vals[ColSemester],
		Type:              vals[ColType],
		CourseName:        vals[ColCourseName],
		LectureName:       vals[ColLectureName],
		LearningObjective: vals[ColLearningObjective],
		BloomLevel:        vals[ColBloomLevel],
		Activity:          vals[ColActivity],
		AssessmentMethod:  vals[ColAssessmentMethod],
		Difficulty:        vals[ColDifficulty],
		IsAssessed:        vals[ColIsAssessed],
		ACOEStandard:      vals[ColACOEStandard],
		Questions:         vals[ColQuestions],
	}
	for _, col := range standardColumns {
		code, title, combined := vals[col+"_Code"], vals[col+"_Title"], vals[col]
		if code == "" && title == "" && combined == "" {
			continue
		}
		m.Standards = append(m.Standards, Standard{
			Column:          col,
			SelectionResult: SelectionResult{Code: code, Title: title, Combined: combined},
		})
	}
	return m
}
