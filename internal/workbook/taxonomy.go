package workbook

import (
	"fmt"
	"log/slog"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

// Taxonomy sheet columns. Only code is required.
const (
	colCode       = "code"
	colParentCode = "parent_code"
	colTitle      = "title"
	colIsLeaf     = "is_leaf"
	colCategory   = "category"
)

// ReadTaxonomy reads raw taxonomy rows from sheet. Columns are located by header name.
// Codes are kept as rendered: numeric cells already come back without a trailing ".0",
// and a text code like "2.0" is a distinct identifier.
// Rows without a code are kept; the hierarchy builder drops them.
func (w *Workbook) ReadTaxonomy(sheet string) ([]core.TaxonomyRow, error) {
	header, data, err := w.readSheet(sheet)
	if err != nil {
		return nil, err
	}
	return parseTaxonomy(sheet, header, data, w.logger)
}

func parseTaxonomy(sheet string, header []string, data [][]string, logger *slog.Logger) ([]core.TaxonomyRow, error) {
	codeIdx := columnIndex(header, colCode)
	if codeIdx < 0 {
		return nil, fmt.Errorf("sheet %s: missing required column %q", sheet, colCode)
	}
	parentIdx := columnIndex(header, colParentCode)
	titleIdx := columnIndex(header, colTitle)
	leafIdx := columnIndex(header, colIsLeaf)
	categoryIdx := columnIndex(header, colCategory)

	rows := make([]core.TaxonomyRow, 0, len(data))
	for _, r := range data {
		rows = append(rows, core.TaxonomyRow{
			Code:       cell(r, codeIdx),
			ParentCode: cell(r, parentIdx),
			Title:      cell(r, titleIdx),
			IsLeaf:     truthy(cell(r, leafIdx)),
			Category:   cell(r, categoryIdx),
		})
	}

	logger.Debug("taxonomy sheet read",
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)))
	return rows, nil
}
