// Package commands provides CLI command implementations.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/uhco-curriculum/lomap/internal/cli/config"
	"github.com/uhco-curriculum/lomap/internal/cli/output"
	intconfig "github.com/uhco-curriculum/lomap/internal/config"
	"github.com/uhco-curriculum/lomap/internal/registry"
	"github.com/uhco-curriculum/lomap/internal/state"
	"github.com/uhco-curriculum/lomap/internal/workbook"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

// CommandContext holds common dependencies for command execution.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Workbook *workbook.Workbook
	Registry *registry.TaxonomyRegistry
}

// NewCommandContext creates a CommandContext without loading any data.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Workbook: workbook.Open(cfg.Workbook, cfg.Sheets, logger),
		Registry: registry.New(cfg.Taxonomies, cfg.MaxLevels, logger),
	}
}

// LoadTaxonomies reads the reference workbook into the registry.
func (c *CommandContext) LoadTaxonomies(ctx context.Context) error {
	if err := c.Registry.Reload(ctx, c.Workbook); err != nil {
		return fmt.Errorf("failed to load reference workbook: %w", err)
	}
	return nil
}

// OpenStore opens the configured mapping store. The caller must close it.
func (c *CommandContext) OpenStore() (core.MappingStore, error) {
	switch c.Cfg.Store {
	case intconfig.StoreSQLite:
		if dir := filepath.Dir(c.Cfg.StatePath); dir != "." && dir != "" && c.Cfg.StatePath != ":memory:" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		store := state.NewSQLiteStore(c.Logger)
		if err := store.Open(c.Cfg.StatePath); err != nil {
			return nil, err
		}
		if err := store.Migrate(); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return c.Workbook, nil
	}
}

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
