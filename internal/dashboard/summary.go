package dashboard

import (
	"sort"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

// Count is one bar or slice of a chart.
type Count struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summary holds the four distributions for one year and semester.
type Summary struct {
	Year       string  `json:"year"`
	Semester   string  `json:"semester"`
	Total      int     `json:"total"`
	Bloom      []Count `json:"bloom"`
	Teaching   []Count `json:"teaching"`
	Assessment []Count `json:"assessment"`
	Alignment  []Count `json:"alignment"`
}

// counted drops rows that are neither taught nor tested.
func counted(mappings []core.Mapping) []core.Mapping {
	out := make([]core.Mapping, 0, len(mappings))
	for _, m := range mappings {
		if Alignment(m.Activity, m.AssessmentMethod) != Ignored {
			out = append(out, m)
		}
	}
	return out
}

// Years returns the sorted years present among counted rows.
func Years(mappings []core.Mapping) []string {
	return distinct(counted(mappings), func(m core.Mapping) bool { return true }, func(m core.Mapping) string { return m.Year })
}

// Semesters returns the sorted semesters of year among counted rows.
func Semesters(mappings []core.Mapping, year string) []string {
	return distinct(counted(mappings),
		func(m core.Mapping) bool { return m.Year == year },
		func(m core.Mapping) string { return m.Semester })
}

func distinct(mappings []core.Mapping, keep func(core.Mapping) bool, value func(core.Mapping) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range mappings {
		if !keep(m) {
			continue
		}
		v := value(m)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return core.SortValues(out)
}

// Summarize counts the rows of year and semester per category.
// Rows with neither an activity nor an assessment method are left out.
func Summarize(mappings []core.Mapping, year, semester string) Summary {
	var rows []core.Mapping
	for _, m := range counted(mappings) {
		if m.Year == year && m.Semester == semester {
			rows = append(rows, m)
		}
	}

	return Summary{
		Year:       year,
		Semester:   semester,
		Total:      len(rows),
		Bloom:      valueCounts(rows, func(m core.Mapping) string { return NormalizeBloom(m.BloomLevel) }),
		Teaching:   valueCounts(rows, func(m core.Mapping) string { return MapTeaching(m.Activity) }),
		Assessment: valueCounts(rows, func(m core.Mapping) string { return MapAssessment(m.AssessmentMethod) }),
		Alignment:  valueCounts(rows, func(m core.Mapping) string { return Alignment(m.Activity, m.AssessmentMethod) }),
	}
}

// valueCounts counts labels, largest first and alphabetical among ties.
func valueCounts(rows []core.Mapping, label func(core.Mapping) string) []Count {
	counts := make(map[string]int)
	for _, m := range rows {
		counts[label(m)]++
	}

	out := make([]Count, 0, len(counts))
	for l, n := range counts {
		out = append(out, Count{
			Label:   l,
			Count:   n,
			Percent: 100 * float64(n) / float64(len(rows)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
