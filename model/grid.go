package model

// Grid is raw tabular input as a source produced it, before any structure
// has been inferred. Sources (CSV files, workbook sheets, HTML tables, ODF
// and Word tables) each convert their container format into one or more
// grids; the extraction pipeline consumes grids and produces [TableData].
type Grid struct {
	// Name labels the grid within its source: a sheet name, a table caption,
	// or a filename. May be empty.
	Name string

	// Cells holds raw cell text in row-major order. Rows may be ragged; no
	// padding or normalization is applied by sources.
	Cells [][]string

	// Formatting optionally carries per-cell styling parallel to Cells. A nil
	// outer slice means the source supplies no formatting; individual entries
	// may be nil where a cell is unstyled.
	Formatting [][]*CellFormatting

	// FirstRowHeader records a structural hint from the source, such as an
	// HTML table whose first row is all th elements. Inference does not
	// consult it; callers may use it to skip header detection.
	FirstRowHeader bool
}

// RowCount returns the number of rows in the grid.
func (g *Grid) RowCount() int {
	return len(g.Cells)
}

// IsEmpty reports whether the grid holds no cells at all.
func (g *Grid) IsEmpty() bool {
	for _, row := range g.Cells {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// FormattingAt returns the formatting recorded for the cell at the given
// position, or nil when none was recorded.
func (g *Grid) FormattingAt(row, col int) *CellFormatting {
	if row < 0 || row >= len(g.Formatting) {
		return nil
	}
	if col < 0 || col >= len(g.Formatting[row]) {
		return nil
	}
	return g.Formatting[row][col]
}
