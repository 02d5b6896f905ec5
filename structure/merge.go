package structure

import "github.com/tsawler/tablesense/model"

// MergedRange is a detected merged region. The anchor is the non-empty cell
// at (StartRow, StartCol); every other covered position was empty when the
// range was detected. Ranges span a single axis: horizontal ranges keep
// StartRow == EndRow, vertical ranges keep StartCol == EndCol.
type MergedRange struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// IsHorizontal reports whether the range spans columns within one row.
func (r MergedRange) IsHorizontal() bool {
	return r.StartRow == r.EndRow
}

// IsVertical reports whether the range spans rows within one column.
func (r MergedRange) IsVertical() bool {
	return r.StartCol == r.EndCol
}

// ColSpan returns the number of columns the range covers.
func (r MergedRange) ColSpan() int {
	return r.EndCol - r.StartCol + 1
}

// RowSpan returns the number of rows the range covers.
func (r MergedRange) RowSpan() int {
	return r.EndRow - r.StartRow + 1
}

// MergeDetector finds merged ranges from empty-cell patterns. Detection is
// purely content-based: a run of empty cells next to a non-empty cell is
// attributed to that cell as its anchor. Container merge metadata, when a
// source format has any, is not consulted.
//
// Horizontal and vertical ranges are detected independently and never
// composed into two-dimensional blocks.
type MergeDetector struct{}

// NewMergeDetector creates a merge detector.
func NewMergeDetector() *MergeDetector {
	return &MergeDetector{}
}

// DetectRanges scans the table for merged ranges. Horizontal ranges are
// emitted first in row order, then vertical ranges in column order, so the
// result is deterministic for a given table. The table is not modified.
//
// ColumnCount must be current; run [model.TableData.UpdateStatistics] after
// building the table.
func (d *MergeDetector) DetectRanges(t *model.TableData) []MergedRange {
	if t == nil {
		return nil
	}
	ranges := d.detectHorizontal(t)
	return append(ranges, d.detectVertical(t)...)
}

// detectHorizontal finds, within each row, runs of empty cells immediately
// following a non-empty cell.
func (d *MergeDetector) detectHorizontal(t *model.TableData) []MergedRange {
	var ranges []MergedRange

	for rowIdx := range t.Rows {
		cells := t.Rows[rowIdx].Cells
		start, end := -1, -1

		for colIdx := range cells {
			if cells[colIdx].IsEmpty() {
				if start >= 0 {
					end = colIdx
				} else if colIdx > 0 && !cells[colIdx-1].IsEmpty() {
					// Start a run anchored at the preceding cell.
					start, end = colIdx-1, colIdx
				}
				continue
			}
			if start >= 0 && end > start {
				ranges = append(ranges, MergedRange{
					StartRow: rowIdx,
					StartCol: start,
					EndRow:   rowIdx,
					EndCol:   end,
				})
			}
			start, end = -1, -1
		}

		// Flush a run that reaches the end of the row.
		if start >= 0 && end > start {
			ranges = append(ranges, MergedRange{
				StartRow: rowIdx,
				StartCol: start,
				EndRow:   rowIdx,
				EndCol:   end,
			})
		}
	}

	return ranges
}

// detectVertical finds, within each column, runs of empty cells immediately
// below a non-empty cell. Rows too short to reach the column leave an open
// run untouched.
func (d *MergeDetector) detectVertical(t *model.TableData) []MergedRange {
	var ranges []MergedRange

	for colIdx := 0; colIdx < t.ColumnCount; colIdx++ {
		start, end := -1, -1

		for rowIdx := range t.Rows {
			cells := t.Rows[rowIdx].Cells
			if colIdx >= len(cells) {
				continue
			}
			if cells[colIdx].IsEmpty() {
				if start >= 0 {
					end = rowIdx
				} else if rowIdx > 0 {
					prev := t.GetCell(rowIdx-1, colIdx)
					if prev != nil && !prev.IsEmpty() {
						start, end = rowIdx-1, rowIdx
					}
				}
				continue
			}
			if start >= 0 && end > start {
				ranges = append(ranges, MergedRange{
					StartRow: start,
					StartCol: colIdx,
					EndRow:   end,
					EndCol:   colIdx,
				})
			}
			start, end = -1, -1
		}

		// Flush a run that reaches the bottom of the column.
		if start >= 0 && end > start {
			ranges = append(ranges, MergedRange{
				StartRow: start,
				StartCol: colIdx,
				EndRow:   end,
				EndCol:   colIdx,
			})
		}
	}

	return ranges
}

// MarkRanges annotates the cells covered by each range. The anchor cell
// records the span on the range's axis; every other covered cell is marked
// merged with no span. Content is never altered.
func (d *MergeDetector) MarkRanges(t *model.TableData, ranges []MergedRange) {
	for _, rng := range ranges {
		if rng.IsHorizontal() {
			for col := rng.StartCol; col <= rng.EndCol; col++ {
				cell := t.GetCell(rng.StartRow, col)
				if cell == nil {
					continue
				}
				if col == rng.StartCol {
					cell.SetMerged(rng.ColSpan(), 0)
				} else {
					cell.SetMerged(0, 0)
				}
			}
			continue
		}

		for row := rng.StartRow; row <= rng.EndRow; row++ {
			cell := t.GetCell(row, rng.StartCol)
			if cell == nil {
				continue
			}
			if row == rng.StartRow {
				cell.SetMerged(0, rng.RowSpan())
			} else {
				cell.SetMerged(0, 0)
			}
		}
	}
}

// ExpandRanges marks the ranges, then copies the anchor's content into every
// covered cell. Each range carries its anchor coordinates, so the copied
// content is the true anchor content. Anchors keep their content and spans;
// covered cells stay marked as merged. When ranges overlap on a cell, the
// later range wins, which is deterministic given DetectRanges ordering.
func (d *MergeDetector) ExpandRanges(t *model.TableData, ranges []MergedRange) {
	d.MarkRanges(t, ranges)

	for _, rng := range ranges {
		anchor := t.GetCell(rng.StartRow, rng.StartCol)
		if anchor == nil {
			continue
		}
		content := anchor.Content
		formatted := anchor.FormattedContent

		if rng.IsHorizontal() {
			for col := rng.StartCol + 1; col <= rng.EndCol; col++ {
				if cell := t.GetCell(rng.StartRow, col); cell != nil {
					cell.Content = content
					cell.FormattedContent = formatted
				}
			}
			continue
		}

		for row := rng.StartRow + 1; row <= rng.EndRow; row++ {
			if cell := t.GetCell(row, rng.StartCol); cell != nil {
				cell.Content = content
				cell.FormattedContent = formatted
			}
		}
	}
}
