// Package hierarchy flattens coded taxonomies into root-to-leaf paths and drives
// progressive level-by-level selection over the flattened table.
package hierarchy

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/uhco-curriculum/lomap/internal/dag"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

// DefaultMaxLevels is the depth cap used when BuildOptions.MaxLevels is not positive.
const DefaultMaxLevels = 5

// ErrCycle is returned when the traversal from a root enters a parent/child cycle
// before reaching the depth cap.
var ErrCycle = errors.New("taxonomy contains a cycle")

// BuildOptions controls flattening.
type BuildOptions struct {
	// MaxLevels caps the path length. Nodes at the cap become pseudo-leaves.
	MaxLevels int
	// Category restricts the build to rows with this category. Empty keeps all rows.
	Category string
}

// Levels returns the effective depth cap.
func (o BuildOptions) Levels() int {
	if o.MaxLevels <= 0 {
		return DefaultMaxLevels
	}
	return o.MaxLevels
}

// BuildReport describes the input anomalies resolved silently during a build.
type BuildReport struct {
	// Rows is the number of rows left after the category filter.
	Rows int
	// Dropped counts rows without a code.
	Dropped int
	// Duplicates lists codes seen more than once; the first row wins.
	Duplicates []string
	// Orphans lists codes not reachable from any root.
	Orphans []string
	// Roots is the number of distinct root codes.
	Roots int
	// Truncated counts paths cut at the depth cap before reaching a leaf.
	Truncated int
	// Nodes and Edges size the parent/child graph; Leaves counts nodes without children.
	Nodes, Edges, Leaves int
	// MultiParent lists codes with more than one parent; they appear under each.
	MultiParent []string
	// Cycle is a cycle reachable from a root that the depth cap kept the traversal out of.
	Cycle []string
}

// Build flattens taxonomy rows into one record per root-to-leaf (or root-to-cap) path.
// Records appear in root order, then depth-first in the order children were encountered.
func Build(rows []core.TaxonomyRow, opts BuildOptions) (*core.FlatTable, error) {
	table, _, err := BuildWithReport(rows, opts)
	return table, err
}

// BuildWithReport is Build plus a report of dropped, duplicate and orphaned rows.
func BuildWithReport(rows []core.TaxonomyRow, opts BuildOptions) (*core.FlatTable, *BuildReport, error) {
	report := &BuildReport{}
	table := &core.FlatTable{}
	maxLevels := opts.Levels()

	filtered := make([]core.TaxonomyRow, 0, len(rows))
	for _, row := range rows {
		if opts.Category != "" && row.Category != opts.Category {
			continue
		}
		report.Rows++
		if strings.TrimSpace(row.Code) == "" {
			report.Dropped++
			continue
		}
		filtered = append(filtered, row)
	}

	g := dag.NewGraph()
	seenDup := make(map[string]bool)
	for _, row := range filtered {
		if !g.AddNode(row.Code, row) && !seenDup[row.Code] {
			seenDup[row.Code] = true
			report.Duplicates = append(report.Duplicates, row.Code)
		}
	}

	// Every row contributes its edge. Edges to unknown parents are dropped,
	// which leaves the child unreachable.
	var roots []string
	seenRoot := make(map[string]bool)
	for _, row := range filtered {
		if row.IsRoot() {
			if !seenRoot[row.Code] {
				seenRoot[row.Code] = true
				roots = append(roots, row.Code)
			}
			continue
		}
		_ = g.AddEdge(row.ParentCode, row.Code)
	}
	report.Roots = len(roots)
	report.Nodes, report.Edges = g.NodeCount(), g.EdgeCount()
	report.Leaves = len(g.GetLeaves())
	for _, row := range filtered {
		if parents := g.GetParents(row.Code); len(parents) > 1 && !slices.Contains(report.MultiParent, row.Code) {
			report.MultiParent = append(report.MultiParent, row.Code)
		}
	}

	reachable := make(map[string]bool)
	for _, code := range g.GetDescendants(roots) {
		reachable[code] = true
	}
	for _, row := range filtered {
		if !reachable[row.Code] {
			reachable[row.Code] = true
			report.Orphans = append(report.Orphans, row.Code)
		}
	}

	if hasCycle, cyclePath := g.FindCycleFrom(roots); hasCycle {
		report.Cycle = cyclePath
	}

	isLeaf := func(code string) bool {
		return nodeRow(g, code).IsLeaf || len(g.GetChildren(code)) == 0
	}

	for _, root := range roots {
		stack := []core.Path{{root}}
		for len(stack) > 0 {
			path := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			code := path.Leaf()
			leaf := isLeaf(code)
			if leaf || len(path) >= maxLevels {
				if !leaf {
					report.Truncated++
				}
				table.Records = append(table.Records, materialize(g, path))
				continue
			}

			children := g.GetChildren(code)
			for _, child := range children {
				if at := slices.Index(path, child); at >= 0 {
					cycle := append(slices.Clone(path[at:]), child)
					return nil, report, fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " -> "))
				}
			}
			// Push in reverse so the first child is visited first.
			for i := len(children) - 1; i >= 0; i-- {
				next := make(core.Path, len(path), len(path)+1)
				copy(next, path)
				stack = append(stack, append(next, children[i]))
			}
		}
	}

	return table, report, nil
}

func materialize(g *dag.Graph, path core.Path) core.FlattenedPathRecord {
	rec := core.FlattenedPathRecord{Levels: make([]core.Level, len(path))}
	for i, code := range path {
		rec.Levels[i] = core.Level{Code: code, Title: nodeRow(g, code).Title}
	}
	leaf := rec.Levels[len(rec.Levels)-1]
	rec.LeafCode = leaf.Code
	rec.LeafTitle = leaf.Title
	return rec
}

func nodeRow(g *dag.Graph, code string) core.TaxonomyRow {
	node, ok := g.GetNode(code)
	if !ok {
		return core.TaxonomyRow{Code: code}
	}
	row, _ := node.Data.(core.TaxonomyRow)
	return row
}
