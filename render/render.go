// Package render writes an inferred table to an output format: aligned
// plain text, CSV, TSV, Markdown, JSON, or HTML.
//
// Renderers consume [model.TableData] read-only. Formats meant for human
// eyes (plain text, Markdown, HTML) show formatted content when the table
// carries it; machine formats (CSV, TSV, JSON) always use raw content.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/tsawler/tablesense/internal/textutil"
	"github.com/tsawler/tablesense/model"
)

// Format defines the available output formats
type Format int

const (
	// FormatPlainText renders column-aligned text
	FormatPlainText Format = iota
	// FormatCSV renders comma-separated values
	FormatCSV
	// FormatTSV renders tab-separated values
	FormatTSV
	// FormatMarkdown renders a GitHub-style pipe table
	FormatMarkdown
	// FormatJSON renders the table structure as JSON
	FormatJSON
	// FormatHTML renders an HTML table element
	FormatHTML
)

// String returns a human-readable representation of the format
func (f Format) String() string {
	switch f {
	case FormatPlainText:
		return "text"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatMarkdown:
		return "markdown"
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatPlainText:
		return ".txt"
	case FormatCSV:
		return ".csv"
	case FormatTSV:
		return ".tsv"
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// Config holds configuration options for rendering
type Config struct {
	// Format specifies the output format
	Format Format

	// Pretty enables indented output for JSON
	Pretty bool

	// IncludeHeaderSeparator draws a dash rule under the header row in
	// plain text output. Default: true
	IncludeHeaderSeparator bool

	// NullValue is printed for empty cells in plain text and Markdown
	// output. Default: ""
	NullValue string
}

// DefaultConfig returns sensible defaults for rendering
func DefaultConfig() Config {
	return Config{
		Format:                 FormatPlainText,
		IncludeHeaderSeparator: true,
	}
}

// CSVConfig returns config for CSV output
func CSVConfig() Config {
	config := DefaultConfig()
	config.Format = FormatCSV
	return config
}

// TSVConfig returns config for TSV output
func TSVConfig() Config {
	config := DefaultConfig()
	config.Format = FormatTSV
	return config
}

// MarkdownConfig returns config for Markdown output
func MarkdownConfig() Config {
	config := DefaultConfig()
	config.Format = FormatMarkdown
	return config
}

// Renderer writes tables to an output format
type Renderer struct {
	config Config
}

// New creates a renderer with default configuration
func New() *Renderer {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a renderer with custom configuration
func NewWithConfig(config Config) *Renderer {
	return &Renderer{config: config}
}

// Render writes the table to w in the configured format.
func (r *Renderer) Render(t *model.TableData, w io.Writer) error {
	if t == nil {
		return fmt.Errorf("rendering table: table is nil")
	}
	switch r.config.Format {
	case FormatPlainText:
		return r.renderPlainText(t, w)
	case FormatCSV:
		return r.renderDelimited(t, w, ',')
	case FormatTSV:
		return r.renderDelimited(t, w, '\t')
	case FormatMarkdown:
		return r.renderMarkdown(t, w)
	case FormatJSON:
		return r.renderJSON(t, w)
	case FormatHTML:
		return r.renderHTML(t, w)
	default:
		return fmt.Errorf("unsupported render format: %v", r.config.Format)
	}
}

// RenderString renders the table to a string.
func (r *Renderer) RenderString(t *model.TableData) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(t, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToFile renders the table to a file.
func (r *Renderer) RenderToFile(t *model.TableData, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	return r.Render(t, f)
}

// Fallback returns the stand-in text callers substitute when a table could
// not be extracted from its source.
func Fallback(rowCount int) string {
	return fmt.Sprintf("[Table with %d rows]", rowCount)
}

// displayValue is what human-readable formats print for a cell.
func (r *Renderer) displayValue(cell *model.TableCell) string {
	content := cell.DisplayContent()
	if content == "" {
		return r.config.NullValue
	}
	return content
}

// renderPlainText writes column-aligned text. Column widths are measured in
// display cells so East Asian wide characters line up.
func (r *Renderer) renderPlainText(t *model.TableData, w io.Writer) error {
	if len(t.Rows) == 0 {
		return nil
	}

	widths := make([]int, t.ColumnCount)
	for i := range t.Rows {
		for j := range t.Rows[i].Cells {
			if j >= len(widths) {
				break
			}
			if dw := textutil.DisplayWidth(r.displayValue(&t.Rows[i].Cells[j])); dw > widths[j] {
				widths[j] = dw
			}
		}
	}

	var sb strings.Builder
	for i := range t.Rows {
		for j := 0; j < t.ColumnCount; j++ {
			if j > 0 {
				sb.WriteString(" | ")
			}
			value := r.config.NullValue
			if j < len(t.Rows[i].Cells) {
				value = r.displayValue(&t.Rows[i].Cells[j])
			}
			sb.WriteString(value)
			if pad := widths[j] - textutil.DisplayWidth(value); pad > 0 && j < t.ColumnCount-1 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
		}
		sb.WriteString("\n")

		if i == 0 && t.HasHeader && r.config.IncludeHeaderSeparator {
			total := 0
			for j, width := range widths {
				if j > 0 {
					total += 3
				}
				total += width
			}
			sb.WriteString(strings.Repeat("-", total))
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// renderDelimited writes CSV or TSV. When headers were detected they are
// written from the captured header values, then the data rows follow.
func (r *Renderer) renderDelimited(t *model.TableData, w io.Writer, comma rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = comma

	rows := t.Rows
	if t.HasHeader && t.Headers != nil {
		if err := csvWriter.Write(t.Headers); err != nil {
			return fmt.Errorf("writing header row: %w", err)
		}
		rows = rows[1:]
	}

	record := make([]string, t.ColumnCount)
	for i := range rows {
		for j := 0; j < t.ColumnCount; j++ {
			if j < len(rows[i].Cells) {
				record[j] = rows[i].Cells[j].Content
			} else {
				record[j] = ""
			}
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", rows[i].Index, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// renderMarkdown writes a pipe table. Markdown requires a header line, so
// the first row serves as one whether or not a header was detected.
func (r *Renderer) renderMarkdown(t *model.TableData, w io.Writer) error {
	if len(t.Rows) == 0 || t.ColumnCount == 0 {
		return nil
	}

	var sb strings.Builder
	writeRow := func(row *model.TableRow) {
		for j := 0; j < t.ColumnCount; j++ {
			value := r.config.NullValue
			if j < len(row.Cells) {
				value = r.displayValue(&row.Cells[j])
			}
			sb.WriteString("| ")
			sb.WriteString(escapeMarkdown(value))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(&t.Rows[0])
	for j := 0; j < t.ColumnCount; j++ {
		sb.WriteString("| --- ")
	}
	sb.WriteString("|\n")

	for i := 1; i < len(t.Rows); i++ {
		writeRow(&t.Rows[i])
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", "\\|")
}

// renderJSON encodes the table structure.
func (r *Renderer) renderJSON(t *model.TableData, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if r.config.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(t)
}

// renderHTML writes a table element. Merge anchors carry colspan/rowspan
// attributes; the continuation cells they cover are omitted. Formatting
// flags become semantic tags.
func (r *Renderer) renderHTML(t *model.TableData, w io.Writer) error {
	var sb strings.Builder
	sb.WriteString("<table>\n")

	if t.Title != "" {
		sb.WriteString("  <caption>")
		sb.WriteString(html.EscapeString(t.Title))
		sb.WriteString("</caption>\n")
	}

	rows := t.Rows
	if t.HasHeader && len(rows) > 0 {
		sb.WriteString("  <thead>\n")
		r.writeHTMLRow(&sb, &rows[0], "th")
		sb.WriteString("  </thead>\n")
		rows = rows[1:]
	}

	sb.WriteString("  <tbody>\n")
	for i := range rows {
		r.writeHTMLRow(&sb, &rows[i], "td")
	}
	sb.WriteString("  </tbody>\n")
	sb.WriteString("</table>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *Renderer) writeHTMLRow(sb *strings.Builder, row *model.TableRow, tag string) {
	sb.WriteString("    <tr>")
	for i := range row.Cells {
		cell := &row.Cells[i]
		if isCoveredCell(cell) {
			continue
		}

		sb.WriteString("<")
		sb.WriteString(tag)
		if cell.ColSpan >= 2 {
			fmt.Fprintf(sb, " colspan=\"%d\"", cell.ColSpan)
		}
		if cell.RowSpan >= 2 {
			fmt.Fprintf(sb, " rowspan=\"%d\"", cell.RowSpan)
		}
		sb.WriteString(">")
		sb.WriteString(htmlCellContent(cell))
		sb.WriteString("</")
		sb.WriteString(tag)
		sb.WriteString(">")
	}
	sb.WriteString("</tr>\n")
}

// isCoveredCell reports whether the cell is a merged continuation with no
// span of its own, meaning an anchor's span already accounts for it.
func isCoveredCell(cell *model.TableCell) bool {
	return cell.Type == model.CellMerged && cell.ColSpan == 0 && cell.RowSpan == 0
}

func htmlCellContent(cell *model.TableCell) string {
	content := html.EscapeString(cell.Content)
	if f := cell.Formatting; f != nil {
		if f.Underline {
			content = "<u>" + content + "</u>"
		}
		if f.Italic {
			content = "<em>" + content + "</em>"
		}
		if f.Bold {
			content = "<strong>" + content + "</strong>"
		}
	}
	return content
}
