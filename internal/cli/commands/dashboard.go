package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uhco-curriculum/lomap/internal/cli/output"
	"github.com/uhco-curriculum/lomap/internal/dashboard"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand() *cobra.Command {
	var year, semester string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize saved mappings for a year and semester",
		Long: `Show the Bloom level, teaching activity, assessment method and alignment
distributions of the saved mappings for one year and semester.

Rows whose activity and method are both unrecognised are left out. Without
--year or --semester the first available value is used.`,
		Example: `  lomap dashboard
  lomap dashboard --year 1 --semester Fall -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			store, err := c.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			return runDashboard(cmd.Context(), c.Renderer, store, year, semester)
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "Year to summarize")
	cmd.Flags().StringVar(&semester, "semester", "", "Semester to summarize")
	return cmd
}

func runDashboard(ctx context.Context, r *output.Renderer, store core.MappingStore, year, semester string) error {
	mappings, err := store.List(ctx, core.MappingFilter{})
	if err != nil {
		return err
	}

	years := dashboard.Years(mappings)
	if len(years) == 0 {
		r.Warning("No mappings to summarize")
		return nil
	}
	if year == "" {
		year = years[0]
	}
	if semester == "" {
		if sems := dashboard.Semesters(mappings, year); len(sems) > 0 {
			semester = sems[0]
		}
	}

	summary := dashboard.Summarize(mappings, year, semester)
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(summary)
	}

	r.Header(1, fmt.Sprintf("Year %s, %s", summary.Year, summary.Semester))
	r.KeyValue("Learning objectives", fmt.Sprintf("%d", summary.Total))
	if summary.Total == 0 {
		r.Warning("No mappings for this year and semester")
		return nil
	}

	sections := []struct {
		title  string
		counts []dashboard.Count
	}{
		{"Bloom level", summary.Bloom},
		{"Teaching activity", summary.Teaching},
		{"Assessment method", summary.Assessment},
		{"Alignment", summary.Alignment},
	}
	for _, sec := range sections {
		r.Println("")
		r.BarHeader(sec.title)
		width := 0
		for _, c := range sec.counts {
			if len(c.Label) > width {
				width = len(c.Label)
			}
		}
		for _, c := range sec.counts {
			r.Bar(c.Label, c.Count, c.Percent, width)
		}
	}
	return nil
}
