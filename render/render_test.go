package render

import (
	"strings"
	"testing"

	"github.com/tsawler/tablesense/model"
)

func makeTable(grid [][]string) *model.TableData {
	table := model.NewTableData()
	for i, rowData := range grid {
		row := model.NewRow(i)
		for _, content := range rowData {
			row.AddCell(model.NewCell(content))
		}
		table.AddRow(row)
	}
	table.UpdateStatistics()
	return table
}

func makeHeaderedTable() *model.TableData {
	table := makeTable([][]string{
		{"Name", "Age"},
		{"John", "25"},
		{"Jane", "30"},
	})
	table.SetHeaders([]string{"Name", "Age"})
	return table
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format Format
		want   string
		ext    string
	}{
		{FormatPlainText, "text", ".txt"},
		{FormatCSV, "csv", ".csv"},
		{FormatTSV, "tsv", ".tsv"},
		{FormatMarkdown, "markdown", ".md"},
		{FormatJSON, "json", ".json"},
		{FormatHTML, "html", ".html"},
		{Format(99), "unknown", ".txt"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		if got := tt.format.FileExtension(); got != tt.ext {
			t.Errorf("FileExtension() = %q, want %q", got, tt.ext)
		}
	}
}

func TestRenderCSV(t *testing.T) {
	r := NewWithConfig(CSVConfig())
	got, err := r.RenderString(makeHeaderedTable())
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	want := "Name,Age\nJohn,25\nJane,30\n"
	if got != want {
		t.Errorf("CSV = %q, want %q", got, want)
	}
}

func TestRenderCSVQuoting(t *testing.T) {
	table := makeTable([][]string{
		{"a,b", `say "hi"`},
	})

	r := NewWithConfig(CSVConfig())
	got, err := r.RenderString(table)
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	want := "\"a,b\",\"say \"\"hi\"\"\"\n"
	if got != want {
		t.Errorf("CSV = %q, want %q", got, want)
	}
}

func TestRenderTSV(t *testing.T) {
	r := NewWithConfig(TSVConfig())
	got, err := r.RenderString(makeHeaderedTable())
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	want := "Name\tAge\nJohn\t25\nJane\t30\n"
	if got != want {
		t.Errorf("TSV = %q, want %q", got, want)
	}
}

func TestRenderCSVPadsRaggedRows(t *testing.T) {
	table := makeTable([][]string{
		{"a", "b", "c"},
		{"d"},
	})

	r := NewWithConfig(CSVConfig())
	got, err := r.RenderString(table)
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	want := "a,b,c\nd,,\n"
	if got != want {
		t.Errorf("CSV = %q, want %q", got, want)
	}
}

func TestRenderMarkdown(t *testing.T) {
	r := NewWithConfig(MarkdownConfig())
	got, err := r.RenderString(makeHeaderedTable())
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	want := "| Name | Age |\n| --- | --- |\n| John | 25 |\n| Jane | 30 |\n"
	if got != want {
		t.Errorf("Markdown = %q, want %q", got, want)
	}
}

func TestRenderMarkdownEscapes(t *testing.T) {
	table := makeTable([][]string{
		{"a|b", "two\nlines"},
		{"x", "y"},
	})

	r := NewWithConfig(MarkdownConfig())
	got, err := r.RenderString(table)
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	if !strings.Contains(got, `a\|b`) {
		t.Errorf("Expected escaped pipe in %q", got)
	}
	if !strings.Contains(got, "two lines") {
		t.Errorf("Expected newline replaced with space in %q", got)
	}
}

func TestRenderPlainText(t *testing.T) {
	r := New()
	got, err := r.RenderString(makeHeaderedTable())
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines (header, rule, 2 data), got %d: %q", len(lines), got)
	}
	if lines[0] != "Name | Age" {
		t.Errorf("Header line = %q, want %q", lines[0], "Name | Age")
	}
	if !strings.HasPrefix(lines[1], "---") {
		t.Errorf("Expected dash rule after header, got %q", lines[1])
	}
	if lines[2] != "John | 25 " && lines[2] != "John | 25" {
		t.Errorf("Data line = %q", lines[2])
	}
}

func TestRenderPlainTextWideCharacters(t *testing.T) {
	table := makeTable([][]string{
		{"名前", "age"},
		{"Bob", "25"},
	})

	r := NewWithConfig(Config{Format: FormatPlainText})
	got, err := r.RenderString(table)
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	// 名前 occupies 4 display cells; Bob needs one space of padding to
	// align the second column.
	if !strings.HasPrefix(lines[1], "Bob  | ") {
		t.Errorf("Expected display-width padding, got %q", lines[1])
	}
}

func TestRenderJSON(t *testing.T) {
	r := NewWithConfig(Config{Format: FormatJSON})
	got, err := r.RenderString(makeHeaderedTable())
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	for _, fragment := range []string{
		`"headers":["Name","Age"]`,
		`"has_header":true`,
		`"column_count":2`,
		`"cell_type":"Header"`,
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("JSON missing %q in %s", fragment, got)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	table := makeHeaderedTable()
	table.Title = "People"

	r := NewWithConfig(Config{Format: FormatHTML})
	got, err := r.RenderString(table)
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	for _, fragment := range []string{
		"<caption>People</caption>",
		"<thead>",
		"<th>Name</th>",
		"<td>John</td>",
		"</table>",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("HTML missing %q in %s", fragment, got)
		}
	}
}

func TestRenderHTMLSpans(t *testing.T) {
	table := makeTable([][]string{
		{"Span", "", ""},
		{"A", "B", "C"},
	})
	anchor := table.GetCell(0, 0)
	anchor.SetMerged(3, 0)
	table.GetCell(0, 1).SetMerged(0, 0)
	table.GetCell(0, 2).SetMerged(0, 0)

	r := NewWithConfig(Config{Format: FormatHTML})
	got, err := r.RenderString(table)
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	if !strings.Contains(got, `<td colspan="3">Span</td>`) {
		t.Errorf("Expected colspan on anchor in %s", got)
	}
	if strings.Count(got, "<td") != 4 {
		t.Errorf("Expected covered cells omitted, got %s", got)
	}
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	table := makeTable([][]string{{"<b>&"}})

	r := NewWithConfig(Config{Format: FormatHTML})
	got, err := r.RenderString(table)
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	if !strings.Contains(got, "&lt;b&gt;&amp;") {
		t.Errorf("Expected escaped content in %s", got)
	}
}

func TestRenderHTMLFormatting(t *testing.T) {
	table := model.NewTableData()
	row := model.NewRow(0)
	row.AddCell(model.NewCellWithFormatting("Total", &model.CellFormatting{Bold: true}))
	table.AddRow(row)
	table.UpdateStatistics()

	r := NewWithConfig(Config{Format: FormatHTML})
	got, err := r.RenderString(table)
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}

	if !strings.Contains(got, "<strong>Total</strong>") {
		t.Errorf("Expected bold formatting tag in %s", got)
	}
}

func TestRenderNilTable(t *testing.T) {
	r := New()
	if err := r.Render(nil, &strings.Builder{}); err == nil {
		t.Error("Expected error rendering nil table")
	}
}

func TestRenderEmptyTable(t *testing.T) {
	r := New()
	got, err := r.RenderString(model.NewTableData())
	if err != nil {
		t.Fatalf("RenderString() error: %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty output, got %q", got)
	}
}

func TestFallback(t *testing.T) {
	if got := Fallback(7); got != "[Table with 7 rows]" {
		t.Errorf("Fallback(7) = %q, want %q", got, "[Table with 7 rows]")
	}
}
