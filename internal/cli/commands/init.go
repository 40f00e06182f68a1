package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/uhco-curriculum/lomap/internal/cli/output"
	intconfig "github.com/uhco-curriculum/lomap/internal/config"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

const initHeader = `# lomap project configuration.
# Relative paths are resolved against this file's directory.
# Every key can be overridden with LOMAP_<KEY> (nested keys: LOMAP_SERVER__ADDR).
`

// starterConfig is the file written by init.
type starterConfig struct {
	core.ProjectConfig `yaml:",inline"`
	Output             string `yaml:"output"`
	Server             struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var workbookPath string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a lomap.yaml configuration",
		Long: `Create a starter lomap.yaml with the default sheet names, the four standards
taxonomies (NBEO Condition, NBEO Discipline, ASCO, UHCO) and the workbook path.`,
		Example: `  # Initialize in current directory
  lomap init

  # Point at a workbook and overwrite an existing config
  lomap init --workbook data/reference.xlsx --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, workbookPath, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().StringVar(&workbookPath, "workbook", intconfig.DefaultWorkbook, "Reference workbook path written to the config")

	return cmd
}

func runInit(r *output.Renderer, dir, workbookPath string, force bool) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.ConfigFileName)
	}

	data, err := starterYAML(workbookPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	// Read it back so a broken template never reaches the user.
	loaded, err := intconfig.LoadFromDir(dir)
	if err != nil {
		return fmt.Errorf("written config does not load: %w", err)
	}

	r.Success(fmt.Sprintf("Created %s", configPath))
	r.KeyValue("Workbook", loaded.Workbook)
	r.KeyValue("Taxonomies", fmt.Sprintf("%d", len(loaded.Taxonomies)))
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'lomap taxonomy list' to check the workbook loads")
	r.Println("  2. Run 'lomap map' to enter learning objectives")
	return nil
}

func starterYAML(workbookPath string) ([]byte, error) {
	var sc starterConfig
	sc.Workbook = workbookPath
	intconfig.ApplyDefaults(&sc.ProjectConfig)
	sc.ACOEStandards = nil
	sc.Output = "auto"
	sc.Server.Addr = intconfig.DefaultAddr

	var buf bytes.Buffer
	buf.WriteString(initHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
