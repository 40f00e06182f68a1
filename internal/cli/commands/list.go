package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/uhco-curriculum/lomap/internal/cli/output"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var filter core.MappingFilter
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved learning objective mappings",
		Example: `  lomap list --year 1 --semester Fall
  lomap list --course "Optics I" -o csv > optics.csv
  lomap list --all -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			store, err := c.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			return runList(cmd.Context(), c.Renderer, store, filter, all)
		},
	}

	cmd.Flags().StringVar(&filter.Year, "year", "", "Only this year")
	cmd.Flags().StringVar(&filter.Semester, "semester", "", "Only this semester")
	cmd.Flags().StringVar(&filter.CourseName, "course", "", "Only this course")
	cmd.Flags().BoolVar(&all, "all", false, "Show every column, including standards")
	return cmd
}

func runList(ctx context.Context, r *output.Renderer, store core.MappingStore, filter core.MappingFilter, all bool) error {
	mappings, err := store.List(ctx, filter)
	if err != nil {
		return err
	}
	if r.EffectiveMode() == output.ModeJSON {
		if mappings == nil {
			mappings = []core.Mapping{}
		}
		return r.JSON(mappings)
	}

	header := []string{
		core.ColYear, core.ColSemester, core.ColCourseName, core.ColLectureName,
		core.ColLearningObjective, core.ColBloomLevel, core.ColIsAssessed, core.ColQuestions,
	}
	if all {
		header = core.MappingHeader(standardColumnsOf(mappings))
	}

	rows := make([][]string, 0, len(mappings))
	for _, m := range mappings {
		vals := m.Values()
		row := make([]string, len(header))
		for i, h := range header {
			row[i] = vals[h]
		}
		rows = append(rows, row)
	}
	return r.Table(header, rows)
}

// standardColumnsOf returns the standard columns used across mappings, first seen first.
func standardColumnsOf(mappings []core.Mapping) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, m := range mappings {
		for _, s := range m.Standards {
			if !seen[s.Column] {
				seen[s.Column] = true
				cols = append(cols, s.Column)
			}
		}
	}
	return cols
}
