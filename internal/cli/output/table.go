package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows under header in the effective mode.
// JSON mode writes one object per row keyed by header.
func (r *Renderer) Table(header []string, rows [][]string) error {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		objs := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			obj := make(map[string]string, len(header))
			for i, col := range header {
				if i < len(row) {
					obj[col] = row[i]
				}
			}
			objs = append(objs, obj)
		}
		return r.JSON(objs)
	}

	if len(rows) == 0 && mode != ModeCSV {
		r.Muted("(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(toRow(header))
	for _, row := range rows {
		t.AppendRow(toRow(row))
	}

	switch mode {
	case ModeMarkdown:
		t.RenderMarkdown()
	case ModeCSV:
		t.RenderCSV()
	default:
		t.SetStyle(table.StyleLight)
		t.Render()
		r.Muted(fmt.Sprintf("(%d rows)", len(rows)))
	}
	return nil
}

func toRow(values []string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// barWidth is the width of a 100% bar.
const barWidth = 30

// Bar renders one labelled horizontal bar for a share of a total.
func (r *Renderer) Bar(label string, count int, percent float64, labelWidth int) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("| %s | %d | %.1f%% |\n", label, count, percent)
		return
	}
	n := int(percent/100*barWidth + 0.5)
	bar := r.styles.Bar.Render(strings.Repeat("█", n))
	r.Printf("  %-*s %s %d (%.1f%%)\n", labelWidth, label, bar, count, percent)
}

// BarHeader starts a group of bars; markdown mode needs a table header.
func (r *Renderer) BarHeader(title string) {
	r.Header(2, title)
	if r.EffectiveMode() == ModeMarkdown {
		r.Println("| Category | Count | Share |")
		r.Println("| --- | --- | --- |")
	}
}
