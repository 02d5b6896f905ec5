// Command tablesense is the CLI for the tablesense library.
// It extracts tables from delimited, spreadsheet, HTML, Office,
// OpenDocument, and EPUB files, renders them in several output formats,
// and reports the structure inferred in them.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/tsawler/tablesense"
	"github.com/tsawler/tablesense/classify"
	"github.com/tsawler/tablesense/format"
	"github.com/tsawler/tablesense/model"
	"github.com/tsawler/tablesense/render"
	"github.com/tsawler/tablesense/structure"
)

const version = "0.1.0"

// CLI defines the command-line interface for tablesense.
var CLI struct {
	// Global flags
	Verbose bool `short:"v" help:"Enable debug logging"`

	Extract ExtractCmd `cmd:"" help:"Extract tables from a file and render them"`
	Inspect InspectCmd `cmd:"" help:"Report the structure inferred in a file's tables"`
	Formats FormatsCmd `cmd:"" help:"List readable input formats"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ExtractCmd extracts tables from a file and renders them.
type ExtractCmd struct {
	Path string `arg:"" help:"Path to input file" type:"existingfile"`

	Format             string `help:"Output format" enum:"text,csv,tsv,markdown,json,html" default:"text"`
	Mode               string `help:"Extraction fidelity" enum:"simple,structured,formatted,full" default:"structured"`
	DetectHeaders      bool   `help:"Evaluate the first row as a header row" default:"true" negatable:""`
	PreserveFormatting bool   `help:"Apply bold and italic markers to styled cell content"`
	IncludeEmptyCells  bool   `help:"Keep empty cells in the output"`
	MergedCells        string `help:"Merged range handling" enum:"ignore,preserve,expand" default:"preserve"`
	MaxRows            int    `help:"Limit rows per table (0 = no limit)"`
	Table              int    `help:"Extract only the Nth table (1-based, 0 = all)"`
	Out                string `short:"o" help:"Write output to a file instead of stdout" type:"path"`
	Pretty             bool   `help:"Indent JSON output"`
}

func (c *ExtractCmd) Run(logger *slog.Logger) error {
	grids, err := tablesense.ReadGrids(c.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.Path, err)
	}
	if len(grids) == 0 {
		return fmt.Errorf("no tables found in %s", c.Path)
	}
	if err := validTableNumber(c.Table, len(grids), c.Path); err != nil {
		return err
	}
	logger.Debug("file loaded", "path", c.Path, "tables", len(grids))

	var buf bytes.Buffer
	printed := 0
	for i, grid := range grids {
		if c.Table > 0 && i+1 != c.Table {
			continue
		}
		if printed > 0 {
			buf.WriteByte('\n')
		}
		printed++

		warnings, err := c.chain(grid).Render(&buf)
		for _, w := range warnings {
			logger.Warn(w.Message, "code", w.Code, "table", i+1)
		}
		if err != nil {
			// Extraction never takes the whole run down: substitute the
			// fallback line and keep going.
			logger.Warn("extraction failed, substituting fallback", "table", i+1, "error", err)
			fmt.Fprintln(&buf, render.Fallback(grid.RowCount()))
		}
	}

	if c.Out != "" {
		if err := os.WriteFile(c.Out, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Debug("output written", "path", c.Out, "bytes", buf.Len())
		return nil
	}
	fmt.Print(buf.String())
	return nil
}

// chain builds the configured extraction chain for one grid.
func (c *ExtractCmd) chain(grid model.Grid) *tablesense.Extractor {
	e := tablesense.FromSource(grid).
		Mode(parseMode(c.Mode)).
		DetectHeaders(c.DetectHeaders).
		MergedCells(parseMergeMode(c.MergedCells)).
		OutputFormat(parseRenderFormat(c.Format))
	if c.PreserveFormatting {
		e = e.PreserveFormatting()
	}
	if c.IncludeEmptyCells {
		e = e.IncludeEmptyCells()
	}
	if c.MaxRows > 0 {
		e = e.MaxRows(c.MaxRows)
	}
	if c.Pretty {
		e = e.Pretty()
	}
	return e
}

// InspectCmd reports the structure inferred in a file's tables.
type InspectCmd struct {
	Path  string `arg:"" help:"Path to input file" type:"existingfile"`
	Table int    `help:"Inspect only the Nth table (1-based, 0 = all)"`
	JSON  bool   `help:"Output as JSON"`
}

func (c *InspectCmd) Run(logger *slog.Logger) error {
	grids, err := tablesense.ReadGrids(c.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.Path, err)
	}
	if len(grids) == 0 {
		return fmt.Errorf("no tables found in %s", c.Path)
	}
	if err := validTableNumber(c.Table, len(grids), c.Path); err != nil {
		return err
	}

	var reports []tableReport
	for i, grid := range grids {
		if c.Table > 0 && i+1 != c.Table {
			continue
		}
		report, err := inspectGrid(grid, i+1)
		if err != nil {
			logger.Warn("inspection failed", "table", i+1, "error", err)
			continue
		}
		reports = append(reports, report)
	}

	if c.JSON {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Inspecting: %s\n", c.Path)
	fmt.Printf("  Tables: %d\n\n", len(grids))
	for _, r := range reports {
		printReport(r)
	}
	return nil
}

// tableReport is the structure summary inspect produces for one table.
type tableReport struct {
	Table        int            `json:"table"`
	Title        string         `json:"title,omitempty"`
	Rows         int            `json:"rows"`
	Columns      int            `json:"columns"`
	HasHeader    bool           `json:"has_header"`
	Confidence   float64        `json:"confidence"`
	Headers      []string       `json:"headers,omitempty"`
	Signals      []signalReport `json:"signals,omitempty"`
	MergedRanges []rangeReport  `json:"merged_ranges,omitempty"`
	ColumnTypes  []string       `json:"column_types"`
	SourceHint   bool           `json:"source_header_hint,omitempty"`
}

type signalReport struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

type rangeReport struct {
	StartRow int `json:"start_row"`
	StartCol int `json:"start_col"`
	EndRow   int `json:"end_row"`
	EndCol   int `json:"end_col"`
}

// inspectGrid builds the raw table for one grid and reports what the
// detectors find in it. Nothing is marked or filtered, so the report
// reflects the grid as the source produced it.
func inspectGrid(grid model.Grid, number int) (tableReport, error) {
	t, _, err := tablesense.FromSource(grid).Simple().IncludeEmptyCells().Table()
	if err != nil {
		return tableReport{}, err
	}

	headerRes := structure.NewHeaderDetector().Detect(t)
	ranges := structure.NewMergeDetector().DetectRanges(t)

	report := tableReport{
		Table:      number,
		Title:      t.Title,
		Rows:       t.RowCount,
		Columns:    t.ColumnCount,
		HasHeader:  headerRes.IsHeader,
		Confidence: headerRes.Confidence,
		SourceHint: grid.FirstRowHeader,
	}
	if headerRes.IsHeader {
		for i := range t.Rows[0].Cells {
			report.Headers = append(report.Headers, strings.TrimSpace(t.Rows[0].Cells[i].Content))
		}
	}
	for _, s := range headerRes.Signals {
		report.Signals = append(report.Signals, signalReport{Name: s.Name, Score: s.Score, Weight: s.Weight})
	}
	for _, r := range ranges {
		report.MergedRanges = append(report.MergedRanges, rangeReport{
			StartRow: r.StartRow,
			StartCol: r.StartCol,
			EndRow:   r.EndRow,
			EndCol:   r.EndCol,
		})
	}
	for _, dt := range columnTypes(t, headerRes.IsHeader) {
		report.ColumnTypes = append(report.ColumnTypes, dt.String())
	}
	return report, nil
}

// columnTypes classifies each column by the dominant type among its data
// cells. Ties resolve in the classifier's own priority order.
func columnTypes(t *model.TableData, skipFirst bool) []model.DataType {
	classifier := classify.New()
	types := make([]model.DataType, 0, t.ColumnCount)
	for col := 0; col < t.ColumnCount; col++ {
		counts := make(map[model.DataType]int)
		for row := range t.Rows {
			if row == 0 && skipFirst {
				continue
			}
			if cell := t.GetCell(row, col); cell != nil {
				counts[classifier.Detect(cell.Content)]++
			}
		}

		best := model.TypeEmpty
		bestCount := 0
		for _, dt := range []model.DataType{model.TypeNumber, model.TypeDate, model.TypeBoolean, model.TypeText} {
			if counts[dt] > bestCount {
				best = dt
				bestCount = counts[dt]
			}
		}
		types = append(types, best)
	}
	return types
}

func printReport(r tableReport) {
	title := r.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Printf("Table %d: %s\n", r.Table, title)
	fmt.Printf("  Rows: %d\n", r.Rows)
	fmt.Printf("  Columns: %d\n", r.Columns)
	if r.HasHeader {
		fmt.Printf("  Header: yes (confidence %.2f)\n", r.Confidence)
		fmt.Printf("    %s\n", strings.Join(r.Headers, " | "))
	} else {
		fmt.Printf("  Header: no (confidence %.2f)\n", r.Confidence)
	}
	if r.SourceHint {
		fmt.Println("  Source marks the first row as a header")
	}
	if len(r.Signals) > 0 {
		fmt.Println("  Signals:")
		for _, s := range r.Signals {
			fmt.Printf("    %-12s %.2f (weight %.2f)\n", s.Name, s.Score, s.Weight)
		}
	}
	if len(r.MergedRanges) > 0 {
		fmt.Println("  Merged ranges:")
		for _, m := range r.MergedRanges {
			fmt.Printf("    rows %d-%d, cols %d-%d\n", m.StartRow, m.EndRow, m.StartCol, m.EndCol)
		}
	}
	if len(r.ColumnTypes) > 0 {
		fmt.Printf("  Column types: %s\n", strings.Join(r.ColumnTypes, ", "))
	}
	fmt.Println()
}

// FormatsCmd lists readable input formats.
type FormatsCmd struct{}

func (c *FormatsCmd) Run() error {
	fmt.Println("Readable input formats:")
	for _, f := range []format.Format{format.CSV, format.TSV, format.XLSX, format.DOCX, format.PPTX, format.HTML, format.ODT, format.ODS, format.EPUB} {
		fmt.Printf("  %-4s  %s\n", f, f.Extension())
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("tablesense version %s\n", version)
	return nil
}

// Helper functions

// validTableNumber checks a 1-based table selection against the number of
// tables the file produced. Zero and negative select all tables.
func validTableNumber(n, count int, path string) error {
	if n > count {
		return fmt.Errorf("table %d not found: %s has %d table(s)", n, path, count)
	}
	return nil
}

func parseMode(name string) tablesense.ExtractionMode {
	switch name {
	case "simple":
		return tablesense.ModeSimple
	case "formatted":
		return tablesense.ModeFormatted
	case "full":
		return tablesense.ModeFull
	default:
		return tablesense.ModeStructured
	}
}

func parseMergeMode(name string) tablesense.MergeMode {
	switch name {
	case "ignore":
		return tablesense.MergeIgnore
	case "expand":
		return tablesense.MergeExpand
	default:
		return tablesense.MergePreserve
	}
}

func parseRenderFormat(name string) render.Format {
	switch name {
	case "csv":
		return render.FormatCSV
	case "tsv":
		return render.FormatTSV
	case "markdown":
		return render.FormatMarkdown
	case "json":
		return render.FormatJSON
	case "html":
		return render.FormatHTML
	default:
		return render.FormatPlainText
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tablesense"),
		kong.Description("Infer table structure in delimited, spreadsheet, HTML, Office, OpenDocument, and EPUB files."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
