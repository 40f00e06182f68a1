package hierarchy

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

// Cache memoizes Build results keyed by a content hash of the rows and options.
// It is safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	tables map[string]*core.FlatTable
	logger *slog.Logger
}

// NewCache creates an empty cache. A nil logger discards output.
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		tables: make(map[string]*core.FlatTable),
		logger: logger,
	}
}

// Get returns the flattened table for rows and opts, building it on a miss.
// Build errors are not cached.
func (c *Cache) Get(rows []core.TaxonomyRow, opts BuildOptions) (*core.FlatTable, error) {
	key := Key(rows, opts)

	c.mu.RLock()
	table, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		c.logger.Debug("hierarchy cache hit", slog.String("key", key[:12]))
		return table, nil
	}

	table, report, err := BuildWithReport(rows, opts)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("hierarchy built",
		slog.String("key", key[:12]),
		slog.String("category", opts.Category),
		slog.Int("rows", report.Rows),
		slog.Int("paths", table.Len()),
		slog.Int("truncated", report.Truncated))
	if len(report.Duplicates) > 0 {
		c.logger.Warn("duplicate taxonomy codes, first occurrence kept",
			slog.Any("codes", report.Duplicates))
	}
	if len(report.Orphans) > 0 {
		c.logger.Debug("unreachable taxonomy codes", slog.Int("count", len(report.Orphans)))
	}

	c.mu.Lock()
	c.tables[key] = table
	c.mu.Unlock()

	return table, nil
}

// Invalidate drops every cached table. Call it when taxonomies are reloaded.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.tables)
	c.tables = make(map[string]*core.FlatTable)
	c.logger.Debug("hierarchy cache invalidated", slog.Int("entries", n))
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

// Key hashes the row contents in order together with the build options.
func Key(rows []core.TaxonomyRow, opts BuildOptions) string {
	h := sha256.New()
	writeField(h, strconv.Itoa(opts.Levels()))
	writeField(h, opts.Category)
	for _, row := range rows {
		writeField(h, row.Code)
		writeField(h, row.ParentCode)
		writeField(h, row.Title)
		writeField(h, strconv.FormatBool(row.IsLeaf))
		writeField(h, row.Category)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeField length-prefixes s so adjacent fields cannot collide.
func writeField(w io.Writer, s string) {
	_, _ = io.WriteString(w, strconv.Itoa(len(s)))
	_, _ = io.WriteString(w, ":")
	_, _ = io.WriteString(w, s)
}
