package tablesense

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/tsawler/tablesense/model"
	"github.com/tsawler/tablesense/render"
	"github.com/tsawler/tablesense/structure"
)

// headerMarginBand is how close to the confidence threshold a header
// decision may land before it is flagged as uncertain.
const headerMarginBand = 0.05

// Extractor provides a fluent interface for inferring table structure from
// grids, files, and pre-built tables. Each configuration method returns a
// new Extractor instance, making it safe for concurrent use and allowing
// method chaining.
type Extractor struct {
	// Source (table takes precedence when set)
	grid  model.Grid
	table *model.TableData

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during configuration
	warnings []Warning
}

// clone creates a copy of the Extractor. Each chain method returns a new
// instance, so a configured extractor is never modified in place.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		grid:     e.grid,
		table:    e.table,
		options:  e.options.clone(),
		err:      e.err,
		warnings: append([]Warning(nil), e.warnings...),
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// DetectHeaders controls whether the first row is evaluated as a header
// row. Detection is on by default.
//
// Example:
//
//	table, _, err := tablesense.FromGrid(rows).DetectHeaders(false).Table()
func (e *Extractor) DetectHeaders(enabled bool) *Extractor {
	newExt := e.clone()
	newExt.options.detectHeaders = enabled
	return newExt
}

// PreserveFormatting populates FormattedContent on cells that carry styling
// information, using markers such as **bold** and *italic*.
//
// Example:
//
//	table, _, err := tablesense.Open("report.xlsx").PreserveFormatting().Table()
func (e *Extractor) PreserveFormatting() *Extractor {
	newExt := e.clone()
	newExt.options.preserveFormatting = true
	return newExt
}

// MergedCells selects how detected merged ranges are applied to the table.
// The default is MergePreserve.
//
// Example:
//
//	table, _, err := tablesense.FromGrid(rows).
//	    MergedCells(tablesense.MergeExpand).
//	    Table()
func (e *Extractor) MergedCells(mode MergeMode) *Extractor {
	newExt := e.clone()
	newExt.options.mergedCells = mode
	return newExt
}

// IncludeEmptyCells keeps empty cells in the result instead of dropping
// them after structure inference.
//
// Example:
//
//	table, _, err := tablesense.FromGrid(rows).IncludeEmptyCells().Table()
func (e *Extractor) IncludeEmptyCells() *Extractor {
	newExt := e.clone()
	newExt.options.includeEmptyCells = true
	return newExt
}

// MaxRows limits the number of rows carried into the result. Rows beyond
// the limit are dropped and a warning is recorded. Zero or negative means
// no limit.
//
// Example:
//
//	table, warnings, err := tablesense.Open("big.csv").MaxRows(1000).Table()
func (e *Extractor) MaxRows(n int) *Extractor {
	newExt := e.clone()
	newExt.options.maxRows = n
	return newExt
}

// Mode sets the extraction fidelity. ModeFormatted and ModeFull imply
// formatting preservation; beyond that the mode is a hint carried through
// to output and does not change how structure is inferred.
//
// Example:
//
//	table, _, err := tablesense.Open("report.xlsx").Mode(tablesense.ModeFull).Table()
func (e *Extractor) Mode(m ExtractionMode) *Extractor {
	newExt := e.clone()
	newExt.options.mode = m
	return newExt
}

// TableID sets the identifier recorded on the extracted table. When not
// set, a random UUID is assigned.
//
// Example:
//
//	table, _, err := tablesense.FromGrid(rows).TableID("orders-2024").Table()
func (e *Extractor) TableID(id string) *Extractor {
	newExt := e.clone()
	newExt.options.tableID = id
	return newExt
}

// Title sets the table title, overriding any name provided by the source
// (sheet name, caption, or filename).
//
// Example:
//
//	table, _, err := tablesense.FromGrid(rows).Title("Quarterly Costs").Table()
func (e *Extractor) Title(title string) *Extractor {
	newExt := e.clone()
	newExt.options.title = title
	return newExt
}

// OutputFormat selects the format used by Render and RenderString. The
// default is render.FormatPlainText.
//
// Example:
//
//	out, _, err := tablesense.Open("data.csv").
//	    OutputFormat(render.FormatMarkdown).
//	    RenderString()
func (e *Extractor) OutputFormat(f render.Format) *Extractor {
	newExt := e.clone()
	newExt.options.outputFormat = f
	return newExt
}

// Pretty enables indented output for formats that support it (JSON).
func (e *Extractor) Pretty() *Extractor {
	newExt := e.clone()
	newExt.options.pretty = true
	return newExt
}

// Simple configures minimal extraction: plain cell content with no header
// detection and no merged-cell handling.
//
// Example:
//
//	table, _, err := tablesense.Open("data.csv").Simple().Table()
func (e *Extractor) Simple() *Extractor {
	newExt := e.clone()
	newExt.options.mode = ModeSimple
	newExt.options.detectHeaders = false
	newExt.options.mergedCells = MergeIgnore
	return newExt
}

// Full configures maximum fidelity: header detection, formatting markers,
// empty cells kept, merged ranges preserved, and JSON output.
//
// Example:
//
//	out, _, err := tablesense.Open("report.xlsx").Full().RenderString()
func (e *Extractor) Full() *Extractor {
	newExt := e.clone()
	newExt.options.mode = ModeFull
	newExt.options.detectHeaders = true
	newExt.options.preserveFormatting = true
	newExt.options.includeEmptyCells = true
	newExt.options.mergedCells = MergePreserve
	newExt.options.outputFormat = render.FormatJSON
	return newExt
}

// ============================================================================
// Terminal Operations (run the pipeline and return results)
// ============================================================================

// Table runs structure inference and returns the resulting table.
//
// Returns the table, any warnings encountered during processing, and an
// error if extraction failed. Warnings indicate non-fatal issues (e.g. rows
// dropped by MaxRows) where extraction succeeded but results may be
// imperfect. Malformed input is never an error: ragged or empty grids
// produce a best-effort table.
//
// Example:
//
//	table, warnings, err := tablesense.Open("report.xlsx").Table()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tablesense.FormatWarnings(warnings))
//	}
func (e *Extractor) Table() (*model.TableData, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	warnings := append([]Warning(nil), e.warnings...)

	t := e.buildTable(&warnings)
	t.UpdateStatistics()

	if e.options.detectHeaders {
		e.applyHeaders(t, &warnings)
	}

	e.applyMerges(t)

	if !e.options.includeEmptyCells {
		filterEmptyCells(t)
	}

	t.UpdateStatistics()
	return t, warnings, nil
}

// Headers runs the pipeline and returns the detected header values, or nil
// when no header row was identified.
//
// Example:
//
//	headers, _, err := tablesense.Open("data.csv").Headers()
func (e *Extractor) Headers() ([]string, []Warning, error) {
	t, warnings, err := e.Table()
	if err != nil {
		return nil, warnings, err
	}
	return t.Headers, warnings, nil
}

// Ranges builds the table and returns the merged ranges detected in it,
// without marking or expanding them.
//
// Example:
//
//	ranges, _, err := tablesense.Open("report.xlsx").Ranges()
func (e *Extractor) Ranges() ([]structure.MergedRange, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	warnings := append([]Warning(nil), e.warnings...)
	t := e.buildTable(&warnings)
	t.UpdateStatistics()
	return structure.NewMergeDetector().DetectRanges(t), warnings, nil
}

// Render runs the pipeline and writes the table to w in the configured
// output format.
//
// Example:
//
//	warnings, err := tablesense.Open("data.csv").Render(os.Stdout)
func (e *Extractor) Render(w io.Writer) ([]Warning, error) {
	t, warnings, err := e.Table()
	if err != nil {
		return warnings, err
	}
	return warnings, e.renderer().Render(t, w)
}

// RenderString runs the pipeline and returns the rendered table as a
// string.
//
// Example:
//
//	out, _, err := tablesense.Open("report.xlsx").Full().RenderString()
func (e *Extractor) RenderString() (string, []Warning, error) {
	t, warnings, err := e.Table()
	if err != nil {
		return "", warnings, err
	}
	out, err := e.renderer().RenderString(t)
	if err != nil {
		return "", warnings, err
	}
	return out, warnings, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// buildTable constructs the working table from the configured source.
func (e *Extractor) buildTable(warnings *[]Warning) *model.TableData {
	if e.table != nil {
		t := e.table.Clone()
		e.applyIdentity(t)
		e.truncateRows(t, warnings)
		return t
	}

	t := model.NewTableData()
	e.applyIdentity(t)

	rows := e.grid.Cells
	if e.options.maxRows > 0 && len(rows) > e.options.maxRows {
		*warnings = append(*warnings, Warning{
			Code:    WarnTruncated,
			Message: fmt.Sprintf("table truncated to %d of %d rows", e.options.maxRows, len(rows)),
		})
		rows = rows[:e.options.maxRows]
	}

	if isRagged(rows) {
		*warnings = append(*warnings, Warning{
			Code:    WarnRaggedRows,
			Message: "rows have differing cell counts; columns are sized to the longest row",
		})
	}

	for i, cells := range rows {
		row := model.NewRow(i)
		for j, content := range cells {
			row.AddCell(e.buildCell(i, j, content))
		}
		t.AddRow(row)
	}
	return t
}

// buildCell creates one cell, attaching any formatting the source grid
// provides. Formatting is always attached so header detection can see it;
// FormattedContent is populated only when formatting preservation is on.
func (e *Extractor) buildCell(row, col int, content string) model.TableCell {
	if strings.TrimSpace(content) == "" {
		return model.EmptyCell()
	}

	cf := e.grid.FormattingAt(row, col)
	if cf == nil {
		return model.NewCell(content)
	}

	cell := model.NewCellWithFormatting(content, cf)
	if e.preserveFormatting() {
		cell.FormattedContent = cf.ApplyToText(content)
	}
	return cell
}

// preserveFormatting reports whether styling markers should be applied to
// cell content. ModeFormatted and ModeFull imply preservation.
func (e *Extractor) preserveFormatting() bool {
	return e.options.preserveFormatting || e.options.mode >= ModeFormatted
}

// applyIdentity assigns the table identifier and title. Explicit options
// win; otherwise values already on the table or provided by the source
// grid are kept.
func (e *Extractor) applyIdentity(t *model.TableData) {
	if e.options.tableID != "" {
		t.TableID = e.options.tableID
	} else if t.TableID == "" {
		t.TableID = uuid.NewString()
	}

	if e.options.title != "" {
		t.Title = e.options.title
	} else if t.Title == "" {
		t.Title = e.grid.Name
	}
}

// truncateRows drops rows beyond the MaxRows limit.
func (e *Extractor) truncateRows(t *model.TableData, warnings *[]Warning) {
	if e.options.maxRows <= 0 || len(t.Rows) <= e.options.maxRows {
		return
	}
	*warnings = append(*warnings, Warning{
		Code:    WarnTruncated,
		Message: fmt.Sprintf("table truncated to %d of %d rows", e.options.maxRows, len(t.Rows)),
	})
	t.Rows = t.Rows[:e.options.maxRows]
}

// applyHeaders runs header detection and records the result on the table.
// Tables that already carry headers are left alone, so re-running the
// pipeline never flips an earlier decision. A decision that lands within
// headerMarginBand of the confidence threshold is flagged with a warning.
func (e *Extractor) applyHeaders(t *model.TableData, warnings *[]Warning) {
	if t.HasHeader {
		return
	}

	result := structure.NewHeaderDetector().Detect(t)
	if result.IsHeader {
		headers := make([]string, 0, len(t.Rows[0].Cells))
		for i := range t.Rows[0].Cells {
			headers = append(headers, strings.TrimSpace(t.Rows[0].Cells[i].Content))
		}
		t.SetHeaders(headers)
	}

	threshold := structure.DefaultHeaderConfig().ConfidenceThreshold
	if margin := result.Confidence - threshold; margin >= -headerMarginBand && margin <= headerMarginBand {
		*warnings = append(*warnings, Warning{
			Code: WarnHeaderMargin,
			Message: fmt.Sprintf("header confidence %.2f is within %.2f of the %.2f threshold",
				result.Confidence, headerMarginBand, threshold),
		})
	}
}

// applyMerges runs merged-range detection and applies it per the
// configured mode.
func (e *Extractor) applyMerges(t *model.TableData) {
	if e.options.mergedCells == MergeIgnore {
		return
	}

	detector := structure.NewMergeDetector()
	ranges := detector.DetectRanges(t)
	if len(ranges) == 0 {
		return
	}

	switch e.options.mergedCells {
	case MergePreserve:
		detector.MarkRanges(t, ranges)
	case MergeExpand:
		detector.ExpandRanges(t, ranges)
	}
}

// filterEmptyCells removes empty-typed cells from every row. Header and
// merged cells keep their place even when their content is empty, so
// inferred structure survives the filter.
func filterEmptyCells(t *model.TableData) {
	for i := range t.Rows {
		kept := t.Rows[i].Cells[:0]
		for _, cell := range t.Rows[i].Cells {
			if cell.Type != model.CellEmpty {
				kept = append(kept, cell)
			}
		}
		t.Rows[i].Cells = kept
	}
}

// isRagged reports whether rows have differing cell counts.
func isRagged(rows [][]string) bool {
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) != len(rows[0]) {
			return true
		}
	}
	return false
}

// renderer builds a Renderer for the configured output format.
func (e *Extractor) renderer() *render.Renderer {
	cfg := render.DefaultConfig()
	cfg.Format = e.options.outputFormat
	cfg.Pretty = e.options.pretty
	return render.NewWithConfig(cfg)
}
