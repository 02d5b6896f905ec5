package model

import (
	"strings"
	"unicode/utf8"
)

// TableCell is a single cell within a table row.
type TableCell struct {
	// Content is the raw cell text as produced upstream.
	Content string `json:"content"`
	// FormattedContent is Content with styling markers applied. It is
	// populated only when formatting preservation is requested.
	FormattedContent string `json:"formatted_content,omitempty"`
	// ColSpan and RowSpan are set on merge anchors; zero means the cell
	// does not anchor a merged range on that axis.
	ColSpan int `json:"colspan,omitempty"`
	RowSpan int `json:"rowspan,omitempty"`
	// Alignment is the horizontal alignment, when known.
	Alignment Alignment `json:"alignment,omitempty"`
	// Formatting holds styling supplied by the producer, if any.
	Formatting *CellFormatting `json:"formatting,omitempty"`
	// Type is the structural role of the cell.
	Type CellType `json:"cell_type"`
}

// NewCell creates a cell from raw content. Content that is empty after
// trimming produces an empty-typed cell.
func NewCell(content string) TableCell {
	cellType := CellData
	if strings.TrimSpace(content) == "" {
		cellType = CellEmpty
	}
	return TableCell{
		Content: content,
		Type:    cellType,
	}
}

// EmptyCell creates a cell with no content.
func EmptyCell() TableCell {
	return TableCell{Type: CellEmpty}
}

// NewCellWithFormatting creates a cell carrying styling information.
func NewCellWithFormatting(content string, formatting *CellFormatting) TableCell {
	cell := NewCell(content)
	if formatting.HasFormatting() {
		cell.Formatting = formatting
	}
	return cell
}

// IsEmpty reports whether the cell content is empty after trimming.
func (c *TableCell) IsEmpty() bool {
	return strings.TrimSpace(c.Content) == ""
}

// IsMerged reports whether the cell participates in a merged range.
func (c *TableCell) IsMerged() bool {
	return c.Type == CellMerged
}

// IsHeader reports whether the cell belongs to a header row.
func (c *TableCell) IsHeader() bool {
	return c.Type == CellHeader
}

// SetMerged marks the cell as part of a merged range. Anchors carry the
// span on their axis; covered cells are marked with both spans zero. Span
// values below 1 are stored as zero, meaning no span is recorded.
func (c *TableCell) SetMerged(colSpan, rowSpan int) {
	if colSpan < 1 {
		colSpan = 0
	}
	if rowSpan < 1 {
		rowSpan = 0
	}
	c.ColSpan = colSpan
	c.RowSpan = rowSpan
	c.Type = CellMerged
}

// ContentLength returns the content length in characters rather than
// bytes, so multi-byte text measures by what is displayed.
func (c *TableCell) ContentLength() int {
	return utf8.RuneCountInString(c.Content)
}

// DisplayContent returns the formatted content when present, otherwise the
// raw content.
func (c *TableCell) DisplayContent() string {
	if c.FormattedContent != "" {
		return c.FormattedContent
	}
	return c.Content
}

// TableRow is an ordered collection of cells.
type TableRow struct {
	Cells []TableCell `json:"cells"`
	// IsHeader is true when the row has been identified as the header row.
	IsHeader bool `json:"is_header"`
	// Index is the zero-based position of the row within its table.
	Index int `json:"row_index"`
}

// NewRow creates an empty row at the given index.
func NewRow(index int) TableRow {
	return TableRow{Index: index}
}

// AddCell appends a cell to the row.
func (r *TableRow) AddCell(cell TableCell) {
	r.Cells = append(r.Cells, cell)
}

// CellCount returns the number of cells in the row.
func (r *TableRow) CellCount() int {
	return len(r.Cells)
}

// IsEmpty reports whether the row has no cells or only empty cells.
func (r *TableRow) IsEmpty() bool {
	for i := range r.Cells {
		if !r.Cells[i].IsEmpty() {
			return false
		}
	}
	return true
}

// MarkAsHeader flags the row and all of its cells as header content.
func (r *TableRow) MarkAsHeader() {
	r.IsHeader = true
	for i := range r.Cells {
		r.Cells[i].Type = CellHeader
	}
}

// clone returns a deep copy of the row, including cell formatting.
func (r *TableRow) clone() TableRow {
	row := TableRow{IsHeader: r.IsHeader, Index: r.Index}
	if r.Cells != nil {
		row.Cells = make([]TableCell, len(r.Cells))
		for i := range r.Cells {
			cell := r.Cells[i]
			if cell.Formatting != nil {
				f := *cell.Formatting
				cell.Formatting = &f
			}
			row.Cells[i] = cell
		}
	}
	return row
}

// NonEmptyCells returns the cells whose trimmed content is non-empty.
func (r *TableRow) NonEmptyCells() []TableCell {
	var cells []TableCell
	for i := range r.Cells {
		if !r.Cells[i].IsEmpty() {
			cells = append(cells, r.Cells[i])
		}
	}
	return cells
}

// TableData is a complete table together with its inferred structure.
type TableData struct {
	Rows []TableRow `json:"rows"`
	// Headers holds the detected header values; nil until detection
	// succeeds.
	Headers []string `json:"headers,omitempty"`
	// HasHeader is true when Headers is populated.
	HasHeader bool `json:"has_header"`
	// ColumnCount is the maximum cell count over all rows.
	ColumnCount int `json:"column_count"`
	// RowCount is the number of rows.
	RowCount int `json:"row_count"`
	// TableID optionally identifies the table within its source.
	TableID string `json:"table_id,omitempty"`
	// Title optionally names the table (sheet name, caption).
	Title string `json:"title,omitempty"`
}

// NewTableData creates an empty table.
func NewTableData() *TableData {
	return &TableData{}
}

// AddRow appends a row and maintains the row and column statistics.
func (t *TableData) AddRow(row TableRow) {
	t.Rows = append(t.Rows, row)
	t.RowCount = len(t.Rows)
	if n := row.CellCount(); n > t.ColumnCount {
		t.ColumnCount = n
	}
}

// UpdateStatistics recomputes RowCount and ColumnCount from the rows.
func (t *TableData) UpdateStatistics() {
	t.RowCount = len(t.Rows)
	t.ColumnCount = 0
	for i := range t.Rows {
		if n := t.Rows[i].CellCount(); n > t.ColumnCount {
			t.ColumnCount = n
		}
	}
}

// GetCell returns the cell at the given position, or nil when out of
// bounds. Rows may be ragged, so a column valid in one row can be absent
// in another.
func (t *TableData) GetCell(row, col int) *TableCell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row].Cells) {
		return nil
	}
	return &t.Rows[row].Cells[col]
}

// GetRow returns the row at the given index, or nil when out of bounds.
func (t *TableData) GetRow(index int) *TableRow {
	if index < 0 || index >= len(t.Rows) {
		return nil
	}
	return &t.Rows[index]
}

// GetColumn collects the cells of one column across all rows. Rows too
// short to reach the column contribute nothing.
func (t *TableData) GetColumn(index int) []TableCell {
	var cells []TableCell
	for i := range t.Rows {
		if index >= 0 && index < len(t.Rows[i].Cells) {
			cells = append(cells, t.Rows[i].Cells[index])
		}
	}
	return cells
}

// SetHeaders records the header values and marks the first row as the
// header row.
func (t *TableData) SetHeaders(headers []string) {
	t.Headers = headers
	t.HasHeader = true
	if len(t.Rows) > 0 {
		t.Rows[0].MarkAsHeader()
	}
}

// Clone returns a deep copy of the table. Modifying the copy, its rows, or
// their cell formatting leaves the original untouched.
func (t *TableData) Clone() *TableData {
	clone := &TableData{
		HasHeader:   t.HasHeader,
		ColumnCount: t.ColumnCount,
		RowCount:    t.RowCount,
		TableID:     t.TableID,
		Title:       t.Title,
	}
	if t.Headers != nil {
		clone.Headers = append([]string(nil), t.Headers...)
	}
	if t.Rows != nil {
		clone.Rows = make([]TableRow, len(t.Rows))
		for i := range t.Rows {
			clone.Rows[i] = t.Rows[i].clone()
		}
	}
	return clone
}

// IsEmpty reports whether the table has no rows.
func (t *TableData) IsEmpty() bool {
	return len(t.Rows) == 0
}
