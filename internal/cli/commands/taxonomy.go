package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uhco-curriculum/lomap/internal/cli/output"
	"github.com/uhco-curriculum/lomap/internal/cli/prompt"
	"github.com/uhco-curriculum/lomap/internal/hierarchy"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

// NewTaxonomyCommand creates the taxonomy command group.
func NewTaxonomyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "taxonomy",
		Aliases: []string{"tax"},
		Short:   "Inspect and navigate standards taxonomies",
		Long: `Inspect the standards taxonomies configured in lomap.yaml.

Each taxonomy is read from a reference sheet, optionally filtered by category,
and flattened into root-to-leaf paths capped at max_levels.`,
	}

	cmd.AddCommand(newTaxonomyListCommand())
	cmd.AddCommand(newTaxonomyFlattenCommand())
	cmd.AddCommand(newTaxonomySelectCommand())
	return cmd
}

func newTaxonomyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured taxonomies with their path counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			if err := c.LoadTaxonomies(cmd.Context()); err != nil {
				return err
			}
			return runTaxonomyList(c)
		},
	}
}

func runTaxonomyList(c *CommandContext) error {
	header := []string{"Name", "Label", "Sheet", "Category", "Column", "Paths", "Levels"}
	var rows [][]string
	for _, tc := range c.Registry.All() {
		table, err := c.Registry.Table(tc.Name)
		if err != nil {
			c.Logger.Warn("taxonomy failed to build", "taxonomy", tc.Name, "error", err)
			rows = append(rows, []string{tc.Name, tc.Label, tc.Sheet, tc.Category, tc.Column, "error", err.Error()})
			continue
		}
		rows = append(rows, []string{
			tc.Name, tc.Label, tc.Sheet, tc.Category, tc.Column,
			strconv.Itoa(table.Len()), strconv.Itoa(table.MaxDepth()),
		})
	}
	return c.Renderer.Table(header, rows)
}

func newTaxonomyFlattenCommand() *cobra.Command {
	var maxLevels int
	var category string

	cmd := &cobra.Command{
		Use:   "flatten <taxonomy>",
		Short: "Print the flattened path table of a taxonomy",
		Long: `Flatten a taxonomy into one row per root-to-leaf path with
Level<N>_Code/Level<N>_Title columns and the leaf code and title.

Duplicate codes (first row wins) and rows unreachable from any root are
reported as warnings.`,
		Example: `  lomap taxonomy flatten nbeo-condition
  lomap taxonomy flatten asco --max-levels 2 -o csv
  lomap taxonomy flatten nbeo --category Discipline -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := NewCommandContext(cmd)
			if err := c.LoadTaxonomies(cmd.Context()); err != nil {
				return err
			}
			return runTaxonomyFlatten(c, args[0], maxLevels, category, cmd.Flags().Changed("category"))
		},
	}

	cmd.Flags().IntVar(&maxLevels, "max-levels", 0, "Depth cap (default: max_levels from config)")
	cmd.Flags().StringVar(&category, "category", "", "Category filter (default: the taxonomy's configured category)")
	return cmd
}

// runTaxonomyFlatten accepts a configured taxonomy name or a sheet key; the latter
// flattens the whole sheet unless a category is given.
func runTaxonomyFlatten(c *CommandContext, ref string, maxLevels int, category string, categorySet bool) error {
	sheet := ref
	if tc, ok := c.Registry.Resolve(ref); ok {
		sheet = tc.Sheet
		if !categorySet {
			category = tc.Category
		}
	}
	reference := c.Registry.Reference()
	if reference == nil {
		return fmt.Errorf("reference workbook not loaded")
	}
	rows, ok := reference.Taxonomies[sheet]
	if !ok {
		return fmt.Errorf("%w: taxonomy %q", core.ErrNotFound, ref)
	}
	if maxLevels <= 0 {
		maxLevels = c.Cfg.MaxLevels
	}

	table, report, err := hierarchy.BuildWithReport(rows, hierarchy.BuildOptions{MaxLevels: maxLevels, Category: category})
	if err != nil {
		return err
	}
	r := c.Renderer
	if len(report.Duplicates) > 0 {
		r.Warning(fmt.Sprintf("duplicate codes ignored: %s", strings.Join(report.Duplicates, ", ")))
	}
	if len(report.Orphans) > 0 {
		r.Warning(fmt.Sprintf("unreachable codes skipped: %s", strings.Join(report.Orphans, ", ")))
	}
	if len(report.Cycle) > 0 {
		r.Warning(fmt.Sprintf("cycle below the depth cap ignored: %s", strings.Join(report.Cycle, " -> ")))
	}
	if len(report.MultiParent) > 0 {
		r.Muted(fmt.Sprintf("codes listed under several parents: %s", strings.Join(report.MultiParent, ", ")))
	}
	c.Logger.Debug("taxonomy flattened",
		"taxonomy", ref, "rows", report.Rows, "roots", report.Roots,
		"nodes", report.Nodes, "edges", report.Edges, "leaves", report.Leaves,
		"paths", table.Len(), "truncated", report.Truncated, "dropped", report.Dropped)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(table)
	}
	header := table.Header()
	rowsOut := make([][]string, 0, table.Len())
	for _, rec := range table.Records {
		cols := rec.Columns()
		row := make([]string, len(header))
		for i, h := range header {
			row[i] = cols[h]
		}
		rowsOut = append(rowsOut, row)
	}
	return r.Table(header, rowsOut)
}

func newTaxonomySelectCommand() *cobra.Command {
	var choices []string
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "select <taxonomy>",
		Short: "Choose a standard level by level",
		Long: `Walk a taxonomy one level at a time. Each level offers the distinct titles
of the paths still matching the earlier choices; a single option is taken
automatically. The result is the leaf code and title of the first matching path.

With --choose the titles are given up front and any remaining levels take the
first option, so the command never prompts.`,
		Example: `  lomap taxonomy select nbeo-condition
  lomap taxonomy select asco --choose "Patient Care" --choose History
  lomap taxonomy select uhco --tui`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := NewCommandContext(cmd)
			if err := c.LoadTaxonomies(cmd.Context()); err != nil {
				return err
			}
			sel, err := c.Registry.Selector(args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("choose") {
				return printSelection(c.Renderer, sel.Label(), sel.Select(choices))
			}

			p, err := newPrompter(cmd, useTUI)
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()
			return runTaxonomySelect(c.Renderer, sel, p)
		},
	}

	cmd.Flags().StringArrayVar(&choices, "choose", nil, "Title to choose at the next level (repeatable)")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Use the full-screen picker")
	return cmd
}

func runTaxonomySelect(r *output.Renderer, sel *hierarchy.Selector, p prompt.Prompter) error {
	announce := func(label string, level int, choice string) {
		r.Muted(fmt.Sprintf("%s level %d: %s", label, level, choice))
	}
	result, err := sel.Run(prompt.Chooser(p, announce))
	if err != nil {
		return err
	}
	return printSelection(r, sel.Label(), result)
}

func printSelection(r *output.Renderer, label string, result core.SelectionResult) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(result)
	}
	if result.IsEmpty() {
		r.Warning(fmt.Sprintf("%s: no standard matches these choices", label))
		return nil
	}
	r.Header(2, label)
	r.KeyValue("Code", result.Code)
	r.KeyValue("Title", result.Title)
	r.KeyValue("Combined", result.Combined)
	return nil
}
