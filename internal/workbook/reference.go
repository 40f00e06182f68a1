package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

// ReadReference loads every reference sheet plus the named taxonomy sheets concurrently.
// taxonomySheets holds reference keys ("nbeo", "asco", ...) resolved through the sheet config;
// the result's Taxonomies map is keyed by those same keys.
func (w *Workbook) ReadReference(ctx context.Context, taxonomySheets []string) (*core.ReferenceData, error) {
	if !w.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrWorkbookNotFound, w.path)
	}

	ref := &core.ReferenceData{Taxonomies: make(map[string][]core.TaxonomyRow)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)

	load := func(sheet string, parse func(header []string, data [][]string) error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			header, data, err := w.readSheet(sheet)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return parse(header, data)
		})
	}

	load(w.sheets.Courses, func(header []string, data [][]string) error {
		ref.Courses = parseCourses(header, data)
		return nil
	})
	load(w.sheets.BloomLevel, func(header []string, data [][]string) error {
		ref.BloomLevels = parseBloom(header, data)
		return nil
	})
	load(w.sheets.Activity, func(header []string, data [][]string) error {
		ref.Activities = columnValues(header, data, columnIndex(header, "description"), false)
		return nil
	})
	load(w.sheets.Methods, func(header []string, data [][]string) error {
		ref.Methods = columnValues(header, data, len(header)-1, true)
		return nil
	})
	load(w.sheets.Difficulty, func(header []string, data [][]string) error {
		ref.Difficulties = columnValues(header, data, len(header)-1, true)
		return nil
	})
	load(w.sheets.Assessed, func(header []string, data [][]string) error {
		ref.Assessed = columnValues(header, data, len(header)-1, true)
		return nil
	})

	seen := make(map[string]bool)
	for _, key := range taxonomySheets {
		if seen[key] {
			continue
		}
		seen[key] = true
		sheet := w.sheets.TaxonomySheet(key)
		load(sheet, func(header []string, data [][]string) error {
			rows, err := parseTaxonomy(sheet, header, data, w.logger)
			if err != nil {
				return err
			}
			ref.Taxonomies[key] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	w.logger.Debug("reference data loaded",
		slog.Int("courses", len(ref.Courses)),
		slog.Int("bloom_levels", len(ref.BloomLevels)),
		slog.Int("taxonomies", len(ref.Taxonomies)))
	return ref, nil
}

func parseCourses(header []string, data [][]string) core.Courses {
	yearIdx := columnIndex(header, "year")
	semIdx := columnIndex(header, "semester")
	descIdx := columnIndex(header, "description")
	typeIdx := columnIndex(header, "lecture_or_lab")

	courses := make(core.Courses, 0, len(data))
	for _, r := range data {
		courses = append(courses, core.Course{
			Year:         cleanCode(cell(r, yearIdx)),
			Semester:     cleanCode(cell(r, semIdx)),
			Description:  cell(r, descIdx),
			LectureOrLab: cell(r, typeIdx),
		})
	}
	return courses
}

// parseBloom keeps rows with both a description and a level, in sheet order.
func parseBloom(header []string, data [][]string) []core.BloomLevel {
	descIdx := columnIndex(header, "description")
	levelIdx := columnIndex(header, "level")

	var levels []core.BloomLevel
	for _, r := range data {
		desc, level := cell(r, descIdx), cleanCode(cell(r, levelIdx))
		if desc == "" || level == "" {
			continue
		}
		levels = append(levels, core.BloomLevel{Description: desc, Level: level})
	}
	return levels
}

// columnValues returns the non-empty values of one column in sheet order,
// de-duplicated when unique is set.
func columnValues(header []string, data [][]string, idx int, unique bool) []string {
	if idx < 0 || idx >= len(header) {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range data {
		v := cell(r, idx)
		if v == "" || (unique && seen[v]) {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
