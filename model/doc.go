// Package model provides the data structures that represent extracted
// tables.
//
// All inference operations ultimately produce these types, making them the
// primary API for consuming results. A table is a list of rows, a row is a
// list of cells, and every cell carries its raw content plus whatever
// structure has been inferred for it so far.
//
// # Tables
//
// The [TableData] type is the root structure:
//
//	table := model.NewTableData()
//	row := model.NewRow(0)
//	row.AddCell(model.NewCell("Name"))
//	row.AddCell(model.NewCell("Age"))
//	table.AddRow(row)
//	table.UpdateStatistics()
//
// RowCount and ColumnCount are maintained statistics rather than derived
// values; UpdateStatistics recomputes them after structural changes.
// ColumnCount is always the maximum cell count over all rows, so ragged
// input is representable without loss.
//
// # Cells
//
// A [TableCell] starts life as either a data cell or an empty cell depending
// on its trimmed content. Inference may later mark it as a header cell or as
// part of a merged range. Merge anchors carry ColSpan/RowSpan; continuation
// cells are typed [CellMerged] with zero spans.
//
// # Formatting
//
// [CellFormatting] captures character-level styling where a producer supplies
// it. It is optional on every cell and never affects emptiness or data-type
// classification.
package model
