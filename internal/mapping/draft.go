// Package mapping turns a learning objective entry into saved mapping rows.
package mapping

import (
	"strings"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

// Draft is one learning objective as entered on the mapping form.
type Draft struct {
	Year              string `json:"year"`
	Semester          string `json:"semester"`
	Type              string `json:"type"`
	CourseName        string `json:"course_name"`
	LectureName       string `json:"lecture_name"`
	LearningObjective string `json:"learning_objective" validate:"notblank"`
	// BloomDescription is the displayed Bloom option; the stored level is looked up from it.
	BloomDescription string `json:"bloom_description"`
	// BloomLevel overrides the lookup when set.
	BloomLevel       string          `json:"bloom_level,omitempty"`
	Activity         string          `json:"activity"`
	AssessmentMethod string          `json:"assessment_method"`
	Difficulty       string          `json:"difficulty"`
	IsAssessed       string          `json:"is_assessed"`
	Standards        []core.Standard `json:"standards,omitempty"`
	ACOEStandard     string          `json:"acoe_standard,omitempty"`
	Questions        []string        `json:"questions,omitempty"`
	Justification    string          `json:"justification,omitempty"`
}

// Assessed reports whether the objective is marked as assessed.
func (d Draft) Assessed() bool {
	return core.IsYes(d.IsAssessed)
}

// ParseQuestions splits free text into one question per non-blank line.
func ParseQuestions(text string) []string {
	return cleanQuestions(strings.Split(text, "\n"))
}

func cleanQuestions(lines []string) []string {
	var out []string
	for _, line := range lines {
		if q := strings.TrimSpace(line); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// BloomLookup resolves a Bloom description to its stored level.
type BloomLookup interface {
	BloomLevelFor(description string) string
}

// Rows expands a draft into mapping rows. An assessed objective yields one row per
// question carrying the standards; otherwise a single row holds the justification
// in the Questions column and no standards.
func Rows(d Draft, bloom BloomLookup) []core.Mapping {
	base := core.Mapping{
		Year:              d.Year,
		Semester:          d.Semester,
		Type:              d.Type,
		CourseName:        d.CourseName,
		LectureName:       d.LectureName,
		LearningObjective: strings.TrimSpace(d.LearningObjective),
		BloomLevel:        d.BloomLevel,
		Activity:          d.Activity,
		AssessmentMethod:  d.AssessmentMethod,
		Difficulty:        d.Difficulty,
		IsAssessed:        d.IsAssessed,
	}
	if base.BloomLevel == "" && bloom != nil {
		base.BloomLevel = bloom.BloomLevelFor(d.BloomDescription)
	}

	if !d.Assessed() {
		base.Questions = d.Justification
		return []core.Mapping{base}
	}

	questions := cleanQuestions(d.Questions)
	rows := make([]core.Mapping, 0, len(questions))
	for _, q := range questions {
		m := base
		m.Standards = append([]core.Standard(nil), d.Standards...)
		m.ACOEStandard = d.ACOEStandard
		m.Questions = q
		rows = append(rows, m)
	}
	return rows
}
