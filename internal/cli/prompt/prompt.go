// Package prompt asks the user for values on the terminal, with numbered and
// fuzzy-matched option selection.
package prompt

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/uhco-curriculum/lomap/internal/hierarchy"
)

// ErrNoMatch is returned when input matches none of the options.
var ErrNoMatch = errors.New("no option matches")

// ErrAmbiguous is returned when input matches several options equally.
var ErrAmbiguous = errors.New("input matches several options")

// Prompter reads answers from the user.
type Prompter interface {
	// Ask reads free text; an empty answer returns def.
	Ask(label, def string) (string, error)
	// Choose reads one of options; an empty answer returns the first option.
	Choose(label string, options []string) (string, error)
	Close() error
}

// Resolve maps user input to one of options. Accepted forms, in order:
// empty (first option), an exact case-insensitive title, a 1-based number,
// or a fuzzy query with exactly one best match.
func Resolve(input string, options []string) (string, error) {
	if len(options) == 0 {
		return "", ErrNoMatch
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return options[0], nil
	}
	for _, opt := range options {
		if strings.EqualFold(opt, input) {
			return opt, nil
		}
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		return "", fmt.Errorf("%w: %d is not between 1 and %d", ErrNoMatch, n, len(options))
	}

	matches := Matches(input, options)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrNoMatch, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguous, strings.Join(matches, ", "))
	}
}

// Matches returns the options fuzzy-matching query, closest first.
func Matches(query string, options []string) []string {
	ranks := fuzzy.RankFindNormalizedFold(query, options)
	sort.Sort(ranks)

	out := make([]string, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, options[rank.OriginalIndex])
	}
	return out
}

// Chooser adapts a Prompter to drive a hierarchy selection.
// A level with a single option is taken without asking.
func Chooser(p Prompter, announce func(label string, level int, choice string)) hierarchy.Chooser {
	return hierarchy.ChooserFunc(func(label string, level int, options []string) (string, error) {
		if len(options) == 1 {
			if announce != nil {
				announce(label, level, options[0])
			}
			return options[0], nil
		}
		return p.Choose(fmt.Sprintf("%s level %d", label, level), options)
	})
}
