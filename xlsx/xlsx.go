// Package xlsx reads XLSX (Office Open XML Spreadsheet) workbooks into raw
// grids, one grid per sheet.
//
// Cell values arrive as their displayed strings. Merged areas are not
// interpreted: covered cells simply appear as empty strings, which is the
// form the inference pipeline consumes. Bold, italic and underline styling
// is collected per cell where present so header detection can use it.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/tablesense/model"
)

// Open reads every sheet of the workbook at path into a grid.
func Open(path string) ([]model.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	return grids(f)
}

// OpenReader reads every sheet of a workbook from r into a grid.
func OpenReader(r io.Reader) ([]model.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	return grids(f)
}

func grids(f *excelize.File) ([]model.Grid, error) {
	var out []model.Grid
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		out = append(out, model.Grid{
			Name:       sheet,
			Cells:      rows,
			Formatting: sheetFormatting(f, sheet, rows),
		})
	}
	return out, nil
}

// sheetFormatting collects bold/italic/underline flags for each cell. Style
// lookups are cached by style index since sheets reuse a handful of styles.
// Returns nil when no cell in the sheet carries any of the three flags.
func sheetFormatting(f *excelize.File, sheet string, rows [][]string) [][]*model.CellFormatting {
	cache := make(map[int]*model.CellFormatting)
	found := false

	fmtRows := make([][]*model.CellFormatting, len(rows))
	for i, row := range rows {
		fmtRows[i] = make([]*model.CellFormatting, len(row))
		for j := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			styleID, err := f.GetCellStyle(sheet, axis)
			if err != nil || styleID == 0 {
				continue
			}

			cf, ok := cache[styleID]
			if !ok {
				cf = styleFormatting(f, styleID)
				cache[styleID] = cf
			}
			if cf != nil {
				cell := *cf
				fmtRows[i][j] = &cell
				found = true
			}
		}
	}

	if !found {
		return nil
	}
	return fmtRows
}

func styleFormatting(f *excelize.File, styleID int) *model.CellFormatting {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil || style.Font == nil {
		return nil
	}
	font := style.Font
	if !font.Bold && !font.Italic && font.Underline == "" {
		return nil
	}
	return &model.CellFormatting{
		Bold:      font.Bold,
		Italic:    font.Italic,
		Underline: font.Underline != "",
	}
}
