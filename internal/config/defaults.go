// Package config provides shared configuration defaults for lomap.
// It is decoupled from CLI concerns so the server and the CLI load the same project settings.
package config

import "github.com/uhco-curriculum/lomap/pkg/core"

// Default configuration values.
const (
	DefaultWorkbook  = "LOreferenceData_final_formfeedversion2.xlsx"
	DefaultStore     = StoreWorkbook
	DefaultStatePath = ".lomap/state.db"
	DefaultMaxLevels = 5
	DefaultAddr      = ":8765"
)

// Mapping store backends.
const (
	StoreWorkbook = "workbook"
	StoreSQLite   = "sqlite"
)

// DefaultSheets returns the sheet names of the reference workbook.
func DefaultSheets() core.SheetConfig {
	return core.SheetConfig{
		Courses:    "tb_courses",
		BloomLevel: "tb_bloomlevel",
		Activity:   "tb_activity",
		Methods:    "tb_methods",
		Difficulty: "tb_difficulty",
		Assessed:   "tb_assessed",
		NBEO:       "tb_nbeo",
		ASCO:       "tb_asco",
		UHCO:       "tb_uhco",
		Mappings:   "tblLO_Mapping",
	}
}

// DefaultTaxonomies returns the four standards hierarchies of the mapping form.
func DefaultTaxonomies() []core.TaxonomyConfig {
	return []core.TaxonomyConfig{
		{Name: "nbeo-condition", Label: "NBEO Condition", Sheet: "nbeo", Category: "Condition", Column: "NBEO_Condition"},
		{Name: "nbeo-discipline", Label: "NBEO Discipline", Sheet: "nbeo", Category: "Discipline", Column: "NBEO_Discipline"},
		{Name: "asco", Label: "ASCO", Sheet: "asco", Column: "ASCO_Standard"},
		{Name: "uhco", Label: "UHCO", Sheet: "uhco", Column: "UHCO_Standard"},
	}
}

// DefaultACOEStandards returns the ACOE accreditation standards offered for assessed objectives.
func DefaultACOEStandards() []string {
	return []string{
		"2.12 By the time of graduation, students must be able to demonstrate basic life support skills for emergencies encountered in independent optometric practice.",
		"2.13 By the time of graduation, students must be able to identify, record, and analyze pertinent history and problems presented by the patient.",
		"2.14 By the time of graduation, students must be able to examine and evaluate the patient to arrive at an appropriate diagnosis.",
		"2.15 By the time of graduation, students must be able to formulate a rational treatment and management plan and understand the implications of various treatment and management options.",
		"2.16 By the time of graduation, students must be able to provide relevant patient education and counseling.",
		"2.17 By the time of graduation, students must be able to use the knowledge of optometry’s role and the roles of other health professions to appropriately assess and address the health care needs of individual patients and the public health aspects related to the populations being served.",
		"2.18 By the time of graduation, students must be able to apply knowledge of interprofessional collaborative care, ethics, and medico-legal aspects for the delivery of optometric care.",
		"2.19 By the time of graduation, students must be able to demonstrate an understanding of research principles and conduct to critically assess the literature.",
		"2.2 By the time of graduation, students must be able to demonstrate effective and culturally sensitive communications, both oral and written, with other professionals and patients.",
		"2.21 By the time of graduation, students must be able to demonstrate an understanding of the basic principles and philosophy of optometric practice management.",
	}
}

// ApplyDefaults fills unset fields of a ProjectConfig.
func ApplyDefaults(c *core.ProjectConfig) {
	if c == nil {
		return
	}
	if c.Workbook == "" {
		c.Workbook = DefaultWorkbook
	}
	if c.Store == "" {
		c.Store = DefaultStore
	}
	if c.StatePath == "" {
		c.StatePath = DefaultStatePath
	}
	if c.MaxLevels <= 0 {
		c.MaxLevels = DefaultMaxLevels
	}
	applySheetDefaults(&c.Sheets)
	if len(c.Taxonomies) == 0 {
		c.Taxonomies = DefaultTaxonomies()
	}
	for i := range c.Taxonomies {
		t := &c.Taxonomies[i]
		if t.Label == "" {
			t.Label = t.Name
		}
		if t.Sheet == "" {
			t.Sheet = t.Name
		}
	}
	if len(c.ACOEStandards) == 0 {
		c.ACOEStandards = DefaultACOEStandards()
	}
}

func applySheetDefaults(s *core.SheetConfig) {
	d := DefaultSheets()
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&s.Courses, d.Courses},
		{&s.BloomLevel, d.BloomLevel},
		{&s.Activity, d.Activity},
		{&s.Methods, d.Methods},
		{&s.Difficulty, d.Difficulty},
		{&s.Assessed, d.Assessed},
		{&s.NBEO, d.NBEO},
		{&s.ASCO, d.ASCO},
		{&s.UHCO, d.UHCO},
		{&s.Mappings, d.Mappings},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}
