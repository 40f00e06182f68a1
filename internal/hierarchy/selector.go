package hierarchy

import (
	"sort"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

// Chooser supplies one choice per level during an interactive selection.
type Chooser interface {
	Choose(label string, level int, options []string) (string, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(label string, level int, options []string) (string, error)

// Choose calls f.
func (f ChooserFunc) Choose(label string, level int, options []string) (string, error) {
	return f(label, level, options)
}

// FirstChooser always picks the first option.
var FirstChooser = ChooserFunc(func(_ string, _ int, options []string) (string, error) {
	return options[0], nil
})

// Choices replays preset choices in level order and picks the first option once they run out.
type Choices []string

// Choose implements Chooser.
func (c Choices) Choose(_ string, level int, options []string) (string, error) {
	if level-1 < len(c) {
		return c[level-1], nil
	}
	return options[0], nil
}

// Selector narrows a flattened table level by level down to a single leaf.
// It holds no mutable state; every method is a function of the choices passed in.
type Selector struct {
	label string
	table *core.FlatTable
}

// NewSelector creates a selector over table. A nil table behaves as empty.
func NewSelector(label string, table *core.FlatTable) *Selector {
	if table == nil {
		table = &core.FlatTable{}
	}
	return &Selector{label: label, table: table}
}

// Label returns the display label of the selection.
func (s *Selector) Label() string {
	return s.label
}

// Levels returns the number of level title columns in the table.
func (s *Selector) Levels() int {
	return s.table.MaxDepth()
}

// Options returns the options for the level after applying choices.
// It reports false once the level loop has stopped: no level remains or the
// candidates are too shallow to populate it.
func (s *Selector) Options(choices []string) ([]string, bool) {
	candidates, stopped := s.narrow(choices)
	if stopped {
		return nil, false
	}
	options := levelOptions(candidates, len(choices)+1)
	return options, len(options) > 0
}

// Select resolves choices to a leaf. Levels past the given choices take their
// first option. A choice absent from its options yields EmptySelection.
func (s *Selector) Select(choices []string) core.SelectionResult {
	result, _ := s.Run(Choices(choices))
	return result
}

// Run drives the selection one level at a time, asking chooser for each choice.
func (s *Selector) Run(chooser Chooser) (core.SelectionResult, error) {
	candidates := s.table.Records
	for level := 1; level <= s.Levels(); level++ {
		options := levelOptions(candidates, level)
		if len(options) == 0 {
			break
		}
		choice, err := chooser.Choose(s.label, level, options)
		if err != nil {
			return core.EmptySelection, err
		}
		candidates = filterLevel(candidates, level, choice)
	}
	return resultOf(candidates), nil
}

// Converged reports whether every candidate left after choices ends on the same leaf.
func (s *Selector) Converged(choices []string) bool {
	candidates, _ := s.narrow(choices)
	if len(candidates) == 0 {
		return false
	}
	leaf := candidates[0].LeafCode
	for _, rec := range candidates[1:] {
		if rec.LeafCode != leaf {
			return false
		}
	}
	return true
}

// Candidates returns the records left after applying choices.
func (s *Selector) Candidates(choices []string) []core.FlattenedPathRecord {
	candidates, _ := s.narrow(choices)
	return candidates
}

// narrow applies choices level by level. stopped is true when a level ran out of
// options before all choices were applied.
func (s *Selector) narrow(choices []string) (candidates []core.FlattenedPathRecord, stopped bool) {
	candidates = s.table.Records
	for i, choice := range choices {
		level := i + 1
		if len(levelOptions(candidates, level)) == 0 {
			return candidates, true
		}
		candidates = filterLevel(candidates, level, choice)
	}
	return candidates, false
}

// levelOptions returns the sorted distinct non-empty titles at level.
func levelOptions(records []core.FlattenedPathRecord, level int) []string {
	seen := make(map[string]struct{})
	var options []string
	for _, rec := range records {
		title := rec.LevelTitle(level)
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		options = append(options, title)
	}
	sort.Strings(options)
	return options
}

func filterLevel(records []core.FlattenedPathRecord, level int, title string) []core.FlattenedPathRecord {
	var out []core.FlattenedPathRecord
	for _, rec := range records {
		if rec.LevelTitle(level) == title {
			out = append(out, rec)
		}
	}
	return out
}

func resultOf(candidates []core.FlattenedPathRecord) core.SelectionResult {
	if len(candidates) == 0 {
		return core.EmptySelection
	}
	first := candidates[0]
	return core.NewSelectionResult(first.LeafCode, first.LeafTitle)
}
