package core

import "context"

// MappingFilter narrows a mapping listing. Empty fields match everything.
type MappingFilter struct {
	Year       string
	Semester   string
	CourseName string
}

// Matches reports whether m satisfies the filter.
func (f MappingFilter) Matches(m Mapping) bool {
	if f.Year != "" && m.Year != f.Year {
		return false
	}
	if f.Semester != "" && m.Semester != f.Semester {
		return false
	}
	if f.CourseName != "" && m.CourseName != f.CourseName {
		return false
	}
	return true
}

// MappingStore persists learning objective mappings to a tabular store.
type MappingStore interface {
	// Append adds rows after the existing ones.
	Append(ctx context.Context, rows []Mapping) error
	// List returns stored rows in insertion order.
	List(ctx context.Context, filter MappingFilter) ([]Mapping, error)
	// Replace overwrites all stored rows.
	Replace(ctx context.Context, rows []Mapping) error
	Close() error
}
