package core

// TaxonomyConfig describes one selectable taxonomy of the mapping form.
type TaxonomyConfig struct {
	// Name identifies the taxonomy on the command line and in the API (e.g. "nbeo-condition")
	Name string `koanf:"name" yaml:"name" json:"name"`
	// Label is shown to the user (e.g. "NBEO Condition")
	Label string `koanf:"label" yaml:"label" json:"label"`
	// Sheet is the reference key of the source sheet (see SheetConfig)
	Sheet string `koanf:"sheet" yaml:"sheet" json:"sheet"`
	// Category filters the sheet rows; empty uses the whole sheet
	Category string `koanf:"category" yaml:"category,omitempty" json:"category,omitempty"`
	// Column is the mapping column prefix the selection is written under
	Column string `koanf:"column" yaml:"column" json:"column"`
}

// SheetConfig maps reference keys to workbook sheet names.
type SheetConfig struct {
	Courses    string `koanf:"courses" yaml:"courses"`
	BloomLevel string `koanf:"bloomlevel" yaml:"bloomlevel"`
	Activity   string `koanf:"activity" yaml:"activity"`
	Methods    string `koanf:"methods" yaml:"methods"`
	Difficulty string `koanf:"difficulty" yaml:"difficulty"`
	Assessed   string `koanf:"assessed" yaml:"assessed"`
	NBEO       string `koanf:"nbeo" yaml:"nbeo"`
	ASCO       string `koanf:"asco" yaml:"asco"`
	UHCO       string `koanf:"uhco" yaml:"uhco"`
	Mappings   string `koanf:"mappings" yaml:"mappings"`
}

// TaxonomySheet resolves a TaxonomyConfig.Sheet reference key to a sheet name.
// Unknown keys are taken as literal sheet names.
func (s SheetConfig) TaxonomySheet(key string) string {
	switch key {
	case "nbeo":
		return s.NBEO
	case "asco":
		return s.ASCO
	case "uhco":
		return s.UHCO
	default:
		return key
	}
}

// ProjectConfig holds project-level configuration shared by the CLI and the server.
type ProjectConfig struct {
	Workbook      string           `koanf:"workbook" yaml:"workbook"`
	Store         string           `koanf:"store" yaml:"store"`
	StatePath     string           `koanf:"state_path" yaml:"state_path"`
	MaxLevels     int              `koanf:"max_levels" yaml:"max_levels"`
	Sheets        SheetConfig      `koanf:"sheets" yaml:"sheets"`
	Taxonomies    []TaxonomyConfig `koanf:"taxonomies" yaml:"taxonomies"`
	ACOEStandards []string         `koanf:"acoe_standards" yaml:"acoe_standards,omitempty"`
}

// Taxonomy returns the taxonomy configured under name.
func (c *ProjectConfig) Taxonomy(name string) (TaxonomyConfig, bool) {
	for _, t := range c.Taxonomies {
		if t.Name == name {
			return t, true
		}
	}
	return TaxonomyConfig{}, false
}
