package prompt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhco-curriculum/lomap/internal/hierarchy"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

var options = []string{"Cornea", "Conjunctiva", "Lens", "Retina"}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "empty takes first", input: "  ", want: "Cornea"},
		{name: "number", input: "3", want: "Lens"},
		{name: "number out of range", input: "9", wantErr: ErrNoMatch},
		{name: "exact any case", input: "retina", want: "Retina"},
		{name: "unique fuzzy", input: "rtna", want: "Retina"},
		{name: "ambiguous fuzzy", input: "con", wantErr: ErrAmbiguous},
		{name: "no match", input: "sclera", wantErr: ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.input, options)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_NumericTitles(t *testing.T) {
	years := []string{"2023", "2024"}

	tests := []struct {
		input string
		want  string
	}{
		{input: "2024", want: "2024"},
		{input: "2023", want: "2023"},
		{input: "2", want: "2024"},
		{input: "1", want: "2023"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Resolve(tt.input, years)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Resolve("2025", years)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolve_NoOptions(t *testing.T) {
	_, err := Resolve("x", nil)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestMatches(t *testing.T) {
	got := Matches("con", options)
	assert.ElementsMatch(t, []string{"Cornea", "Conjunctiva"}, got)
	assert.Empty(t, Matches("xyz", options))
}

func TestLinePrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("\n  typed  \nlast"), &out)

	got, err := p.Ask("Lecture", "Intro")
	require.NoError(t, err)
	assert.Equal(t, "Intro", got)

	got, err = p.Ask("Lecture", "")
	require.NoError(t, err)
	assert.Equal(t, "typed", got)

	got, err = p.Ask("Objective", "")
	require.NoError(t, err)
	assert.Equal(t, "last", got, "final line without newline")

	_, err = p.Ask("Objective", "")
	assert.ErrorIs(t, err, io.EOF)
	assert.Contains(t, out.String(), "Lecture [Intro]: ")
}

func TestLinePrompter_Choose(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("sclera\ncon\nlens\n"), &out)

	got, err := p.Choose("Structure", options)
	require.NoError(t, err)
	assert.Equal(t, "Lens", got)
	assert.Contains(t, out.String(), " 1) Cornea")
	assert.Contains(t, out.String(), "no option matches")
	assert.Contains(t, out.String(), "several options")
}

func TestLinePrompter_ChooseGivesUp(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("x\ny\nz\nLens\n"), io.Discard)
	_, err := p.Choose("Structure", options)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestChooser(t *testing.T) {
	table := &core.FlatTable{Records: []core.FlattenedPathRecord{
		{Levels: []core.Level{{Code: "A", Title: "Anterior"}, {Code: "A1", Title: "Cornea"}}, LeafCode: "A1", LeafTitle: "Cornea"},
		{Levels: []core.Level{{Code: "A", Title: "Anterior"}, {Code: "A2", Title: "Lens"}}, LeafCode: "A2", LeafTitle: "Lens"},
	}}
	sel := hierarchy.NewSelector("NBEO", table)

	var announced []string
	p := NewLinePrompter(strings.NewReader("2\n"), io.Discard)
	got, err := sel.Run(Chooser(p, func(_ string, level int, choice string) {
		announced = append(announced, choice)
	}))
	require.NoError(t, err)
	assert.Equal(t, core.NewSelectionResult("A2", "Lens"), got)
	assert.Equal(t, []string{"Anterior"}, announced, "single-option level is not asked")
}

func TestOptionCompleter(t *testing.T) {
	c := &optionCompleter{options: options}

	got, n := c.Do([]rune("co"), 2)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, [][]rune{[]rune("rnea"), []rune("njunctiva")}, got)

	got, n = c.Do([]rune("rtna"), 4)
	assert.Equal(t, 4, n)
	assert.Equal(t, [][]rune{[]rune(" => Retina")}, got)

	got, _ = c.Do(nil, 0)
	assert.Empty(t, got)
}

func TestStripCompletion(t *testing.T) {
	assert.Equal(t, "Retina", stripCompletion("rtna => Retina"))
	assert.Equal(t, "Lens", stripCompletion("Lens"))
}
