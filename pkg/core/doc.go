// Package core defines the shared language of the lomap system.
//
// This package contains:
//   - Taxonomy entities (TaxonomyRow, Path, FlattenedPathRecord, FlatTable)
//   - Selection results produced by progressive hierarchy selection
//   - Learning objective mappings and the MappingStore interface
//   - Reference data loaded alongside the taxonomies (courses, Bloom levels, methods)
//   - Configuration types shared by the CLI and the HTTP server
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
