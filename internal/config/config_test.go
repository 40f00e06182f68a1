package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

func TestApplyDefaults(t *testing.T) {
	var cfg core.ProjectConfig
	ApplyDefaults(&cfg)

	assert.Equal(t, DefaultWorkbook, cfg.Workbook)
	assert.Equal(t, StoreWorkbook, cfg.Store)
	assert.Equal(t, DefaultStatePath, cfg.StatePath)
	assert.Equal(t, DefaultMaxLevels, cfg.MaxLevels)
	assert.Equal(t, DefaultSheets(), cfg.Sheets)
	assert.Equal(t, DefaultTaxonomies(), cfg.Taxonomies)
	assert.Len(t, cfg.ACOEStandards, 10)

	// nil is tolerated
	ApplyDefaults(nil)
}

func TestApplyDefaults_KeepsOverrides(t *testing.T) {
	cfg := core.ProjectConfig{
		Workbook:  "custom.xlsx",
		MaxLevels: 3,
		Sheets:    core.SheetConfig{NBEO: "nbeo_2025"},
		Taxonomies: []core.TaxonomyConfig{
			{Name: "local", Column: "Local_Standard"},
		},
	}
	ApplyDefaults(&cfg)

	assert.Equal(t, "custom.xlsx", cfg.Workbook)
	assert.Equal(t, 3, cfg.MaxLevels)
	assert.Equal(t, "nbeo_2025", cfg.Sheets.NBEO)
	assert.Equal(t, "tb_asco", cfg.Sheets.ASCO)
	require.Len(t, cfg.Taxonomies, 1)
	assert.Equal(t, "local", cfg.Taxonomies[0].Label)
	assert.Equal(t, "local", cfg.Taxonomies[0].Sheet)
}

func TestLoadFromDir(t *testing.T) {
	t.Run("no config file", func(t *testing.T) {
		cfg, err := LoadFromDir(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("yaml file", func(t *testing.T) {
		dir := t.TempDir()
		content := `workbook: data/reference.xlsx
max_levels: 4
sheets:
  uhco: tb_uhco_v2
taxonomies:
  - name: uhco
    label: UHCO Standard
    sheet: uhco
    column: UHCO_Standard
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))

		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "data/reference.xlsx", cfg.Workbook)
		assert.Equal(t, 4, cfg.MaxLevels)
		assert.Equal(t, "tb_uhco_v2", cfg.Sheets.UHCO)
		assert.Equal(t, "tb_courses", cfg.Sheets.Courses)
		require.Len(t, cfg.Taxonomies, 1)
		assert.Equal(t, "UHCO Standard", cfg.Taxonomies[0].Label)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileNameAlt), []byte("workbook: [unclosed"), 0o600))

		_, err := LoadFromDir(dir)
		assert.Error(t, err)
	})
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("max_levels: 5\n"), 0o600))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, filepath.Join(root, ConfigFileName), FindConfigFile(root))
	assert.Equal(t, "", FindConfigFile(nested))
}

func TestSheetConfig_TaxonomySheet(t *testing.T) {
	s := DefaultSheets()
	assert.Equal(t, "tb_nbeo", s.TaxonomySheet("nbeo"))
	assert.Equal(t, "tb_asco", s.TaxonomySheet("asco"))
	assert.Equal(t, "tb_uhco", s.TaxonomySheet("uhco"))
	assert.Equal(t, "custom_sheet", s.TaxonomySheet("custom_sheet"))
}
