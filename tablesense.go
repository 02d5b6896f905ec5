// Package tablesense infers table structure from raw cell grids: which row
// is the header, which empty-cell runs are merged regions, and what kind of
// data each cell holds.
//
// Basic usage:
//
//	table, warnings, err := tablesense.FromGrid(rows).Table()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tablesense.FormatWarnings(warnings))
//	}
//
// With options:
//
//	out, _, err := tablesense.Open("report.xlsx").
//	    MergedCells(tablesense.MergeExpand).
//	    MaxRows(100).
//	    RenderString()
//
// For advanced use cases, the lower-level model, structure, and render
// packages are also available.
package tablesense

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsawler/tablesense/csvdoc"
	"github.com/tsawler/tablesense/docx"
	"github.com/tsawler/tablesense/epubdoc"
	"github.com/tsawler/tablesense/format"
	"github.com/tsawler/tablesense/htmldoc"
	"github.com/tsawler/tablesense/model"
	"github.com/tsawler/tablesense/odt"
	"github.com/tsawler/tablesense/pptx"
	"github.com/tsawler/tablesense/xlsx"
)

// FromGrid creates an Extractor for a raw grid of cell values. Rows may be
// ragged; they are taken as-is and never rejected.
//
// Example:
//
//	table, warnings, err := tablesense.FromGrid(rows).Table()
func FromGrid(rows [][]string) *Extractor {
	return &Extractor{
		grid:    model.Grid{Cells: rows},
		options: defaultOptions(),
	}
}

// FromSource creates an Extractor for a grid produced by one of the source
// packages (csvdoc, xlsx, htmldoc, odt, docx, pptx, epubdoc). The grid's
// name and formatting carry through to the extracted table.
//
// Example:
//
//	grids, err := xlsx.Open("report.xlsx")
//	if err != nil {
//	    // handle error
//	}
//	table, warnings, err := tablesense.FromSource(grids[0]).Table()
func FromSource(grid model.Grid) *Extractor {
	return &Extractor{
		grid:    grid,
		options: defaultOptions(),
	}
}

// FromTable creates an Extractor for an already-built table. The pipeline
// operates on a deep copy, so the argument is never modified.
//
// Example:
//
//	processed, warnings, err := tablesense.FromTable(t).Table()
func FromTable(t *model.TableData) *Extractor {
	return &Extractor{
		table:   t,
		options: defaultOptions(),
	}
}

// Open loads the first table found in a file, detecting the format from the
// filename extension and, when that is inconclusive, from the content. Open
// itself never fails: any error is deferred and returned by the first
// terminal operation.
//
// Example:
//
//	table, warnings, err := tablesense.Open("report.xlsx").Table()
func Open(path string) *Extractor {
	e := &Extractor{options: defaultOptions()}
	grids, err := ReadGrids(path)
	if err != nil {
		e.err = err
		return e
	}
	if len(grids) == 0 {
		e.err = fmt.Errorf("no tables found in %s", path)
		return e
	}
	e.grid = grids[0]
	return e
}

// ReadGrids loads every table grid from a file. CSV and TSV files produce
// one grid; workbooks, HTML documents, Office documents, and EPUB
// publications may produce several. Feed individual grids to FromSource to
// extract them.
func ReadGrids(path string) ([]model.Grid, error) {
	detected := format.Detect(path)
	if detected == format.Unknown {
		var err error
		detected, err = sniffFormat(path)
		if err != nil {
			return nil, err
		}
	}

	switch detected {
	case format.CSV:
		grid, err := csvdoc.Open(path)
		if err != nil {
			return nil, err
		}
		return []model.Grid{grid}, nil
	case format.TSV:
		grid, err := csvdoc.OpenTSV(path)
		if err != nil {
			return nil, err
		}
		return []model.Grid{grid}, nil
	case format.XLSX:
		return xlsx.Open(path)
	case format.HTML:
		return htmldoc.Open(path)
	case format.ODT, format.ODS:
		return odt.Open(path)
	case format.DOCX:
		return docx.Open(path)
	case format.PPTX:
		return pptx.Open(path)
	case format.EPUB:
		return epubdoc.Open(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %q", filepath.Ext(path))
	}
}

// sniffFormat inspects file content when the extension is inconclusive.
func sniffFormat(path string) (format.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return format.Unknown, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return format.Unknown, fmt.Errorf("inspecting %s: %w", path, err)
	}
	return format.DetectFromReader(f, info.Size())
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	grids := tablesense.Must(tablesense.ReadGrids("report.xlsx"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTable is a helper that wraps a terminal operation returning
// (T, []Warning, error) and panics if the error is non-nil. It discards
// warnings and returns just the value.
//
// Example:
//
//	table := tablesense.MustTable(tablesense.FromGrid(rows).Table())
func MustTable[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
