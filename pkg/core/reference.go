package core

import (
	"sort"
	"strconv"
)

// NotSpecifiedType is offered when a course has no lecture/lab type recorded.
const NotSpecifiedType = "(not specified)"

// Course is one row of the courses reference sheet.
type Course struct {
	Year         string `json:"year"`
	Semester     string `json:"semester"`
	Description  string `json:"description"`
	LectureOrLab string `json:"lecture_or_lab"`
}

// BloomLevel pairs a displayed Bloom description with the stored level.
type BloomLevel struct {
	Description string `json:"description"`
	Level       string `json:"level"`
}

// ReferenceData holds the controlled vocabularies used by the mapping form.
type ReferenceData struct {
	Courses      Courses                  `json:"courses"`
	BloomLevels  []BloomLevel             `json:"bloom_levels"`
	Activities   []string                 `json:"activities"`
	Methods      []string                 `json:"methods"`
	Difficulties []string                 `json:"difficulties"`
	Assessed     []string                 `json:"assessed"`
	Taxonomies   map[string][]TaxonomyRow `json:"-"`
}

// BloomDescriptions returns the Bloom descriptions in sheet order.
func (r *ReferenceData) BloomDescriptions() []string {
	out := make([]string, 0, len(r.BloomLevels))
	for _, b := range r.BloomLevels {
		out = append(out, b.Description)
	}
	return out
}

// BloomLevelFor returns the level stored for a description; later rows win.
func (r *ReferenceData) BloomLevelFor(description string) string {
	level := ""
	for _, b := range r.BloomLevels {
		if b.Description == description {
			level = b.Level
		}
	}
	return level
}

// Courses is the course catalogue with cascading lookups.
type Courses []Course

// Years returns the distinct non-empty years, sorted.
func (c Courses) Years() []string {
	return SortValues(c.distinct(func(Course) bool { return true }, func(x Course) string { return x.Year }))
}

// Semesters returns the distinct semesters offered in year, sorted.
func (c Courses) Semesters(year string) []string {
	return SortValues(c.distinct(
		func(x Course) bool { return x.Year == year },
		func(x Course) string { return x.Semester },
	))
}

// Descriptions returns the distinct course names for year and semester, sorted.
func (c Courses) Descriptions(year, semester string) []string {
	return SortValues(c.distinct(
		func(x Course) bool { return x.Year == year && x.Semester == semester },
		func(x Course) string { return x.Description },
	))
}

// Types returns the lecture/lab types of a course in sheet order,
// or NotSpecifiedType when none is recorded.
func (c Courses) Types(year, semester, description string) []string {
	types := c.distinct(
		func(x Course) bool { return x.Year == year && x.Semester == semester && x.Description == description },
		func(x Course) string { return x.LectureOrLab },
	)
	if len(types) == 0 {
		return []string{NotSpecifiedType}
	}
	return types
}

func (c Courses) distinct(keep func(Course) bool, value func(Course) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, course := range c {
		if !keep(course) {
			continue
		}
		v := value(course)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// SortValues sorts cell values in place, numerically when both values are numbers.
func SortValues(values []string) []string {
	sort.SliceStable(values, func(i, j int) bool {
		return LessValue(values[i], values[j])
	})
	return values
}

// LessValue orders two cell values: numbers before text, numbers by value, text lexicographically.
func LessValue(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
