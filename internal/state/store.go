// Package state provides a SQLite-backed mapping store with embedded migrations.
// It is the alternative to keeping mappings in the reference workbook.
package state

import (
	"errors"

	"github.com/google/uuid"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

// ErrNotOpened is returned by store operations before Open succeeds.
var ErrNotOpened = errors.New("database not opened")

var _ core.MappingStore = (*SQLiteStore)(nil)

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}
