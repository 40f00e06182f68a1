package core

import "fmt"

// TaxonomyRow is one entry of a coded taxonomy sheet.
type TaxonomyRow struct {
	// Code is the unique identifier of the entry. Rows without a code are dropped.
	Code string `json:"code"`
	// ParentCode references another row's Code; empty means the row is a root.
	ParentCode string `json:"parent_code,omitempty"`
	// Title is the display text (may be empty)
	Title string `json:"title,omitempty"`
	// IsLeaf is the explicit terminal marker
	IsLeaf bool `json:"is_leaf,omitempty"`
	// Category partitions one sheet into independent sub-hierarchies
	Category string `json:"category,omitempty"`
}

// IsRoot reports whether the row has no parent.
func (r TaxonomyRow) IsRoot() bool {
	return r.ParentCode == ""
}

// Path is an ordered sequence of codes from a root to a leaf (or to the depth cap).
type Path []string

// Leaf returns the last code of the path.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Level is one (code, title) pair of a flattened path.
type Level struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// FlattenedPathRecord is one root-to-leaf path converted into a fixed-column record.
type FlattenedPathRecord struct {
	Levels    []Level `json:"levels"`
	LeafCode  string  `json:"leaf_code"`
	LeafTitle string  `json:"leaf_title"`
}

// Depth returns the number of populated levels.
func (r FlattenedPathRecord) Depth() int {
	return len(r.Levels)
}

// LevelTitle returns the title at the 1-based level, or "" when the path is shallower.
func (r FlattenedPathRecord) LevelTitle(level int) string {
	if level < 1 || level > len(r.Levels) {
		return ""
	}
	return r.Levels[level-1].Title
}

// LevelCode returns the code at the 1-based level, or "" when the path is shallower.
func (r FlattenedPathRecord) LevelCode(level int) string {
	if level < 1 || level > len(r.Levels) {
		return ""
	}
	return r.Levels[level-1].Code
}

// Columns returns the record keyed by its tabular column names
// (Level1_Code, Level1_Title, ..., Leaf_Code, Leaf_Title).
func (r FlattenedPathRecord) Columns() map[string]string {
	cols := make(map[string]string, 2*len(r.Levels)+2)
	for i, lvl := range r.Levels {
		cols[LevelCodeColumn(i+1)] = lvl.Code
		cols[LevelTitleColumn(i+1)] = lvl.Title
	}
	cols[LeafCodeColumn] = r.LeafCode
	cols[LeafTitleColumn] = r.LeafTitle
	return cols
}

// Column names of the flattened table.
const (
	LeafCodeColumn  = "Leaf_Code"
	LeafTitleColumn = "Leaf_Title"
)

// LevelCodeColumn returns the column name of the code at the 1-based level.
func LevelCodeColumn(level int) string {
	return fmt.Sprintf("Level%d_Code", level)
}

// LevelTitleColumn returns the column name of the title at the 1-based level.
func LevelTitleColumn(level int) string {
	return fmt.Sprintf("Level%d_Title", level)
}

// FlatTable is the flattened path table: one record per discovered path,
// in root-then-depth-first discovery order.
type FlatTable struct {
	Records []FlattenedPathRecord `json:"records"`
}

// Len returns the number of records.
func (t *FlatTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// MaxDepth returns the depth of the deepest record.
func (t *FlatTable) MaxDepth() int {
	if t == nil {
		return 0
	}
	depth := 0
	for _, r := range t.Records {
		if r.Depth() > depth {
			depth = r.Depth()
		}
	}
	return depth
}

// Header returns the ordered column names present in the table.
func (t *FlatTable) Header() []string {
	depth := t.MaxDepth()
	if depth == 0 {
		return nil
	}
	header := make([]string, 0, 2*depth+2)
	for i := 1; i <= depth; i++ {
		header = append(header, LevelCodeColumn(i), LevelTitleColumn(i))
	}
	return append(header, LeafCodeColumn, LeafTitleColumn)
}
