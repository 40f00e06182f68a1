// Package dashboard summarizes saved mappings into category counts for charts.
package dashboard

import (
	"strings"

	"golang.org/x/text/cases"
)

// Category labels.
const (
	Other = "Other"

	Aligned    = "Aligned"
	TaughtOnly = "Taught_only"
	TestedOnly = "Tested_only"
	Ignored    = "Ignored"
)

type rule struct {
	keywords []string
	label    string
}

// Rules are checked in order; the first keyword contained in the value wins.
var (
	bloomRules = []rule{
		{[]string{"remember"}, "Remember"},
		{[]string{"understand"}, "Understand"},
		{[]string{"apply"}, "Apply"},
		{[]string{"analyze"}, "Analyze"},
		{[]string{"evaluate"}, "Evaluate"},
		{[]string{"create"}, "Create"},
	}
	teachingRules = []rule{
		{[]string{"lecture"}, "Lecture"},
		{[]string{"small group", "discussion"}, "Discussion"},
		{[]string{"case"}, "Case"},
		{[]string{"lab"}, "Lab"},
		{[]string{"simulation"}, "Simulation"},
		{[]string{"tbl"}, "TBL"},
		{[]string{"flipped"}, "Flipped"},
	}
	assessmentRules = []rule{
		{[]string{"mcq"}, "MCQ"},
		{[]string{"osce", "practic"}, "OSCE"},
		{[]string{"essay", "long"}, "Essay"},
		{[]string{"oral", "viva"}, "Oral"},
		{[]string{"project"}, "Project"},
		{[]string{"quiz"}, "Quiz"},
	}
)

var fold = cases.Fold()

func classify(value string, rules []rule) string {
	v := fold.String(strings.TrimSpace(value))
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(v, kw) {
				return r.label
			}
		}
	}
	return Other
}

// NormalizeBloom maps a stored Bloom level to one of the six Bloom categories.
func NormalizeBloom(level string) string {
	return classify(level, bloomRules)
}

// MapTeaching maps an activity to a teaching method category.
func MapTeaching(activity string) string {
	return classify(activity, teachingRules)
}

// MapAssessment maps an assessment method to its category.
func MapAssessment(method string) string {
	return classify(method, assessmentRules)
}

// Alignment reports whether an objective is both taught and tested.
func Alignment(activity, method string) string {
	a := strings.TrimSpace(activity) != ""
	m := strings.TrimSpace(method) != ""
	switch {
	case a && m:
		return Aligned
	case a:
		return TaughtOnly
	case m:
		return TestedOnly
	default:
		return Ignored
	}
}
