package workbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

var _ core.MappingStore = (*Workbook)(nil)

// mappingTable is the mapping sheet held as column-keyed rows so columns
// this package does not know about survive a rewrite.
type mappingTable struct {
	header []string
	rows   []map[string]string
}

func (t *mappingTable) addColumns(cols []string) {
	present := make(map[string]bool, len(t.header))
	for _, h := range t.header {
		present[h] = true
	}
	for _, c := range cols {
		if !present[c] {
			present[c] = true
			t.header = append(t.header, c)
		}
	}
}

func (t *mappingTable) add(m core.Mapping) {
	t.addColumns(core.MappingHeader(standardColumnsOf(m)))
	t.rows = append(t.rows, m.Values())
}

func standardColumnsOf(m core.Mapping) []string {
	cols := make([]string, 0, len(m.Standards))
	for _, s := range m.Standards {
		cols = append(cols, s.Column)
	}
	return cols
}

// Append adds rows to the mapping sheet, creating the workbook or the sheet if needed.
// The sheet is rewritten in full with existing rows first.
func (w *Workbook) Append(ctx context.Context, rows []core.Mapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.openOrCreate()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	table, err := w.loadMappings(f)
	if err != nil {
		return err
	}
	existing := len(table.rows)
	for _, m := range rows {
		table.add(m)
	}

	if err := w.writeMappings(f, table); err != nil {
		return err
	}
	w.logger.Info("mappings appended",
		slog.String("sheet", w.sheets.Mappings),
		slog.Int("added", len(rows)),
		slog.Int("total", existing+len(rows)))
	return nil
}

// Replace overwrites the mapping sheet with rows.
func (w *Workbook) Replace(ctx context.Context, rows []core.Mapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.openOrCreate()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var stdCols []string
	for _, m := range rows {
		stdCols = append(stdCols, standardColumnsOf(m)...)
	}
	table := &mappingTable{}
	table.addColumns(core.MappingHeader(stdCols))
	for _, m := range rows {
		table.add(m)
	}

	if err := w.writeMappings(f, table); err != nil {
		return err
	}
	w.logger.Info("mappings replaced",
		slog.String("sheet", w.sheets.Mappings),
		slog.Int("total", len(rows)))
	return nil
}

// List returns the saved mappings matching filter, in sheet order.
// A missing workbook or mapping sheet yields no rows.
func (w *Workbook) List(ctx context.Context, filter core.MappingFilter) ([]core.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		if errors.Is(err, ErrWorkbookNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	table, err := w.loadMappings(f)
	if err != nil {
		return nil, err
	}

	stdCols := core.StandardColumns(table.header)
	var out []core.Mapping
	for _, vals := range table.rows {
		m := core.MappingFromValues(vals, stdCols)
		if filter.Matches(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Close implements core.MappingStore. The workbook holds no open handles between calls.
func (w *Workbook) Close() error {
	return nil
}

func (w *Workbook) openOrCreate() (*excelize.File, error) {
	if _, err := os.Stat(w.path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName("Sheet1", w.sheets.Mappings); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create workbook: %w", err)
		}
		w.logger.Debug("creating workbook", slog.String("path", w.path))
		return f, nil
	}
	return w.open()
}

func (w *Workbook) loadMappings(f *excelize.File) (*mappingTable, error) {
	header, data, err := readTable(f, w.sheets.Mappings)
	if errors.Is(err, ErrSheetNotFound) {
		return &mappingTable{}, nil
	}
	if err != nil {
		return nil, err
	}

	table := &mappingTable{header: header}
	for _, r := range data {
		vals := make(map[string]string, len(header))
		for i, h := range header {
			if h != "" {
				vals[h] = r[i]
			}
		}
		table.rows = append(table.rows, vals)
	}
	return table, nil
}

// writeMappings replaces the mapping sheet with table and saves the file.
func (w *Workbook) writeMappings(f *excelize.File, table *mappingTable) error {
	sheet := w.sheets.Mappings

	if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
		if len(f.GetSheetList()) == 1 {
			// A workbook cannot lose its last sheet; clear it by swapping in a fresh one.
			tmp := sheet + "_tmp"
			if _, err := f.NewSheet(tmp); err != nil {
				return fmt.Errorf("failed to rewrite sheet %s: %w", sheet, err)
			}
			if err := f.DeleteSheet(sheet); err != nil {
				return fmt.Errorf("failed to rewrite sheet %s: %w", sheet, err)
			}
			if err := f.SetSheetName(tmp, sheet); err != nil {
				return fmt.Errorf("failed to rewrite sheet %s: %w", sheet, err)
			}
		} else {
			if err := f.DeleteSheet(sheet); err != nil {
				return fmt.Errorf("failed to rewrite sheet %s: %w", sheet, err)
			}
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to rewrite sheet %s: %w", sheet, err)
			}
		}
	} else if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := setRow(f, sheet, 1, table.header); err != nil {
		return err
	}
	for i, vals := range table.rows {
		row := make([]string, len(table.header))
		for j, h := range table.header {
			row[j] = vals[h]
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cellName, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	if err := f.SetSheetRow(sheet, cellName, &out); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
