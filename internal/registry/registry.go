// Package registry holds the configured taxonomies together with the reference data
// they are built from, and resolves taxonomy references to flattened tables and selectors.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/uhco-curriculum/lomap/internal/hierarchy"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

// Source loads reference data, including the rows of the given taxonomy sheet keys.
type Source interface {
	ReadReference(ctx context.Context, taxonomySheets []string) (*core.ReferenceData, error)
}

// TaxonomyRegistry maps taxonomy names to their configuration and loaded rows.
type TaxonomyRegistry struct {
	mu sync.RWMutex

	// byName maps taxonomy names to configs: "nbeo-condition" → config
	byName map[string]core.TaxonomyConfig

	// aliases maps case-folded labels and column prefixes to names:
	//   "nbeo condition" → "nbeo-condition"
	//   "nbeo_condition" → "nbeo-condition"
	aliases map[string]string

	// order keeps registration order for listings
	order []string

	// indexes maps sheet keys to their category index
	indexes map[string]*hierarchy.Index

	ref       *core.ReferenceData
	cache     *hierarchy.Cache
	maxLevels int
	logger    *slog.Logger
}

// New creates a registry with the given taxonomies registered and no data loaded.
func New(taxonomies []core.TaxonomyConfig, maxLevels int, logger *slog.Logger) *TaxonomyRegistry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &TaxonomyRegistry{
		byName:    make(map[string]core.TaxonomyConfig),
		aliases:   make(map[string]string),
		indexes:   make(map[string]*hierarchy.Index),
		cache:     hierarchy.NewCache(logger),
		maxLevels: maxLevels,
		logger:    logger,
	}
	for _, tc := range taxonomies {
		r.Register(tc)
	}
	return r
}

// Register adds a taxonomy under its name, label and column.
// Registering an existing name replaces its config.
func (r *TaxonomyRegistry) Register(tc core.TaxonomyConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[tc.Name]; !ok {
		r.order = append(r.order, tc.Name)
	}
	r.byName[tc.Name] = tc

	for _, alias := range []string{tc.Label, tc.Column} {
		if alias != "" {
			r.aliases[strings.ToLower(alias)] = tc.Name
		}
	}
}

// Resolve finds a taxonomy by name, label or column prefix (case-insensitive for the latter two).
func (r *TaxonomyRegistry) Resolve(ref string) (core.TaxonomyConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if tc, ok := r.byName[ref]; ok {
		return tc, true
	}
	if name, ok := r.aliases[strings.ToLower(strings.TrimSpace(ref))]; ok {
		return r.byName[name], true
	}
	return core.TaxonomyConfig{}, false
}

// All returns the registered taxonomies in registration order.
func (r *TaxonomyRegistry) All() []core.TaxonomyConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.TaxonomyConfig, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Count returns the number of registered taxonomies.
func (r *TaxonomyRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// SheetKeys returns the distinct sheet keys of the registered taxonomies.
func (r *TaxonomyRegistry) SheetKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var keys []string
	for _, name := range r.order {
		key := r.byName[name].Sheet
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// Load replaces the reference data and drops every cached table.
func (r *TaxonomyRegistry) Load(ref *core.ReferenceData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ref = ref
	r.indexes = make(map[string]*hierarchy.Index)
	if ref != nil {
		for key, rows := range ref.Taxonomies {
			r.indexes[key] = hierarchy.NewIndex(rows)
		}
	}
	r.cache.Invalidate()
}

// Reload reads the reference data from src and loads it.
// On error the previously loaded data stays in place.
func (r *TaxonomyRegistry) Reload(ctx context.Context, src Source) error {
	ref, err := src.ReadReference(ctx, r.SheetKeys())
	if err != nil {
		return err
	}
	r.Load(ref)
	r.logger.Info("taxonomies loaded", slog.Int("taxonomies", r.Count()))
	return nil
}

// Reference returns the loaded reference data, or nil before the first load.
func (r *TaxonomyRegistry) Reference() *core.ReferenceData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ref
}

// BloomLevelFor returns the Bloom level stored for a description in the loaded data.
func (r *TaxonomyRegistry) BloomLevelFor(description string) string {
	ref := r.Reference()
	if ref == nil {
		return ""
	}
	return ref.BloomLevelFor(description)
}

// Rows returns the rows of a taxonomy after its category filter.
func (r *TaxonomyRegistry) Rows(ref string) (core.TaxonomyConfig, []core.TaxonomyRow, error) {
	tc, ok := r.Resolve(ref)
	if !ok {
		return tc, nil, fmt.Errorf("taxonomy %q: %w", ref, core.ErrNotFound)
	}

	r.mu.RLock()
	idx, ok := r.indexes[tc.Sheet]
	r.mu.RUnlock()
	if !ok {
		return tc, nil, fmt.Errorf("taxonomy %q: sheet %q not loaded: %w", tc.Name, tc.Sheet, core.ErrNotFound)
	}
	return tc, idx.Rows(tc.Category), nil
}

// Table returns the flattened path table of a taxonomy, built at most once per load.
func (r *TaxonomyRegistry) Table(ref string) (*core.FlatTable, error) {
	return r.TableWith(ref, 0)
}

// TableWith is Table with an explicit depth cap; maxLevels <= 0 uses the registry default.
func (r *TaxonomyRegistry) TableWith(ref string, maxLevels int) (*core.FlatTable, error) {
	tc, rows, err := r.Rows(ref)
	if err != nil {
		return nil, err
	}
	if maxLevels <= 0 {
		maxLevels = r.maxLevels
	}
	// rows are already filtered to the category
	table, err := r.cache.Get(rows, hierarchy.BuildOptions{MaxLevels: maxLevels})
	if err != nil {
		return nil, fmt.Errorf("taxonomy %q: %w", tc.Name, err)
	}
	return table, nil
}

// Selector returns a progressive selector over a taxonomy's table.
func (r *TaxonomyRegistry) Selector(ref string) (*hierarchy.Selector, error) {
	tc, ok := r.Resolve(ref)
	if !ok {
		return nil, fmt.Errorf("taxonomy %q: %w", ref, core.ErrNotFound)
	}
	table, err := r.Table(tc.Name)
	if err != nil {
		return nil, err
	}
	return hierarchy.NewSelector(tc.Label, table), nil
}

// CachedTables returns the number of tables currently memoized.
func (r *TaxonomyRegistry) CachedTables() int {
	return r.cache.Len()
}
