package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTest(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"TEXT", ModeText},
		{"md", ModeMarkdown},
		{"markdown", ModeMarkdown},
		{"json", ModeJSON},
		{"csv", ModeCSV},
		{"yaml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newTest(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _, _ = newTest(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newTest(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestHeaderAndKeyValue_Markdown(t *testing.T) {
	r, out, _ := newTest(ModeMarkdown, false)
	r.Header(2, "Taxonomies")
	r.KeyValue("Paths", "3")

	assert.Equal(t, "## Taxonomies\n\n- **Paths:** 3\n", out.String())
}

func TestWarningAndError_GoToErrOut(t *testing.T) {
	r, out, errOut := newTest(ModeText, false)
	r.Warning("careful")
	r.Error("broken")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "! careful")
	assert.Contains(t, errOut.String(), "✗ broken")
	assert.NotContains(t, errOut.String(), "\x1b[", "no colors without a terminal")
}

func TestTable(t *testing.T) {
	header := []string{"Code", "Title"}
	rows := [][]string{{"A", "Patient Care"}, {"A.1", "History"}}

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTest(ModeText, false)
		require.NoError(t, r.Table(header, rows))
		assert.Contains(t, out.String(), "Patient Care")
		assert.Contains(t, out.String(), "(2 rows)")
	})

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTest(ModeMarkdown, false)
		require.NoError(t, r.Table(header, rows))
		assert.Contains(t, out.String(), "| A.1 | History |")
	})

	t.Run("csv", func(t *testing.T) {
		r, out, _ := newTest(ModeCSV, false)
		require.NoError(t, r.Table(header, rows))
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "A,Patient Care", lines[1])
	})

	t.Run("json", func(t *testing.T) {
		r, out, _ := newTest(ModeJSON, false)
		require.NoError(t, r.Table(header, rows))
		var got []map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, []map[string]string{
			{"Code": "A", "Title": "Patient Care"},
			{"Code": "A.1", "Title": "History"},
		}, got)
	})

	t.Run("empty", func(t *testing.T) {
		r, out, _ := newTest(ModeText, false)
		require.NoError(t, r.Table(header, nil))
		assert.Contains(t, out.String(), "(0 rows)")
	})
}

func TestBar(t *testing.T) {
	r, out, _ := newTest(ModeText, false)
	r.Bar("Lecture", 2, 50, 10)
	assert.Contains(t, out.String(), strings.Repeat("█", 15))
	assert.Contains(t, out.String(), "2 (50.0%)")

	r, out, _ = newTest(ModeMarkdown, false)
	r.BarHeader("Teaching")
	r.Bar("Lecture", 2, 50, 10)
	assert.Contains(t, out.String(), "| Lecture | 2 | 50.0% |")
}
