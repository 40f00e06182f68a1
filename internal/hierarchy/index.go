package hierarchy

import "github.com/uhco-curriculum/lomap/pkg/core"

// Index groups one taxonomy sheet by category so repeated builds over the same
// load do not re-scan the full sheet.
type Index struct {
	rows       []core.TaxonomyRow
	byCategory map[string][]core.TaxonomyRow
	categories []string
}

// NewIndex indexes rows by category, preserving input order within each group.
func NewIndex(rows []core.TaxonomyRow) *Index {
	idx := &Index{
		rows:       rows,
		byCategory: make(map[string][]core.TaxonomyRow),
	}
	for _, row := range rows {
		if _, ok := idx.byCategory[row.Category]; !ok {
			idx.categories = append(idx.categories, row.Category)
		}
		idx.byCategory[row.Category] = append(idx.byCategory[row.Category], row)
	}
	return idx
}

// Rows returns the rows of a category in input order. An empty category returns all rows.
func (idx *Index) Rows(category string) []core.TaxonomyRow {
	if category == "" {
		return idx.rows
	}
	return idx.byCategory[category]
}

// Categories returns the distinct categories in first-seen order.
// Rows without a category are grouped under "".
func (idx *Index) Categories() []string {
	return idx.categories
}

// Len returns the total number of indexed rows.
func (idx *Index) Len() int {
	return len(idx.rows)
}
