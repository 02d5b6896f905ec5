// Package docx reads the tables of a WordprocessingML (.docx) document
// into raw grids, one grid per w:tbl element in document order.
//
// gridSpan properties are expanded into empty continuation cells and the
// content of vMerge continuation cells is discarded, so every grid is
// plain row-major text and the inference pipeline re-detects the merged
// areas from the empty runs. Bold, italic, and underline run properties
// populate per-cell formatting for header detection.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tsawler/tablesense/model"
)

// Word caps tables at 63 columns, so a gridSpan beyond that is a corrupt
// attribute rather than data.
const maxSpan = 63

// Open reads the document at path and returns one grid per table.
func Open(path string) ([]model.Grid, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	return readArchive(&zr.Reader)
}

// OpenReader reads a document from r, which must contain the complete
// ZIP archive.
func OpenReader(r io.ReaderAt, size int64) ([]model.Grid, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return readArchive(zr)
}

func readArchive(zr *zip.Reader) ([]model.Grid, error) {
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening document.xml: %w", err)
		}
		defer rc.Close()

		return parseDocument(rc)
	}
	return nil, fmt.Errorf("word/document.xml not found in archive")
}

func parseDocument(r io.Reader) ([]model.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document.xml: %w", err)
	}

	var doc documentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document.xml: %w", err)
	}
	if doc.Body == nil {
		return nil, nil
	}

	var grids []model.Grid
	for _, tbl := range doc.Body.Tables {
		grids = append(grids, collectGrids(tbl)...)
	}
	return grids, nil
}

// collectGrids converts one table element followed by any tables nested
// inside its cells.
func collectGrids(tbl tableXML) []model.Grid {
	grids := []model.Grid{parseTable(tbl)}
	for _, row := range tbl.Rows {
		for _, cell := range row.Cells {
			for _, nested := range cell.Tables {
				grids = append(grids, collectGrids(nested)...)
			}
		}
	}
	return grids
}

func parseTable(tbl tableXML) model.Grid {
	g := model.Grid{Name: tbl.Properties.Caption.Val}

	hasFormatting := false
	for _, row := range tbl.Rows {
		var texts []string
		var fmts []*model.CellFormatting

		for _, cell := range row.Cells {
			width := spanCount(cell.Properties.GridSpan.Val)

			// A vMerge property without val="restart" continues the merge
			// started above; the visible content belongs to the anchor.
			if vm := cell.Properties.VMerge; vm.XMLName.Local != "" && vm.Val != "restart" {
				for k := 0; k < width; k++ {
					texts = append(texts, "")
					fmts = append(fmts, nil)
				}
				continue
			}

			cf := cellFormatting(cell)
			if cf != nil {
				hasFormatting = true
			}
			texts = append(texts, cellText(cell))
			fmts = append(fmts, cf)
			for k := 1; k < width; k++ {
				texts = append(texts, "")
				fmts = append(fmts, nil)
			}
		}

		if len(texts) == 0 {
			continue
		}
		if len(g.Cells) == 0 {
			g.FirstRowHeader = row.Properties.Header.XMLName.Local != ""
		}
		g.Cells = append(g.Cells, texts)
		g.Formatting = append(g.Formatting, fmts)
	}

	if !hasFormatting {
		g.Formatting = nil
	}
	return g
}

func spanCount(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxSpan {
		return maxSpan
	}
	return n
}

// cellText joins the cell's paragraph texts with newlines. Nested tables
// are not part of the cell text; they become grids of their own.
func cellText(cell tableCellXML) string {
	parts := make([]string, 0, len(cell.Paragraphs))
	for _, p := range cell.Paragraphs {
		if text := paragraphText(p); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

func paragraphText(p paragraphXML) string {
	var b strings.Builder
	for _, run := range p.Runs {
		writeRunText(&b, run)
	}
	for _, link := range p.Hyperlinks {
		for _, run := range link.Runs {
			writeRunText(&b, run)
		}
	}
	return strings.TrimSpace(b.String())
}

func writeRunText(b *strings.Builder, run runXML) {
	for _, t := range run.Text {
		b.WriteString(t.Value)
	}
	for range run.Tabs {
		b.WriteString("\t")
	}
	for range run.Breaks {
		b.WriteString("\n")
	}
}

// cellFormatting derives styling flags from the cell's run properties,
// returning nil when no run carries any.
func cellFormatting(cell tableCellXML) *model.CellFormatting {
	var cf model.CellFormatting
	for _, p := range cell.Paragraphs {
		for _, run := range p.Runs {
			if boolProp(run.Properties.Bold) {
				cf.Bold = true
			}
			if boolProp(run.Properties.Italic) {
				cf.Italic = true
			}
			if u := run.Properties.Underline.Val; u != "" && u != "none" {
				cf.Underline = true
			}
		}
	}
	if !cf.Bold && !cf.Italic && !cf.Underline {
		return nil
	}
	return &cf
}

// boolProp reports whether an on/off run property is present and not
// explicitly disabled.
func boolProp(b boolXML) bool {
	return b.XMLName.Local != "" && b.Val != "false" && b.Val != "0"
}

// documentXML is the subset of word/document.xml needed to read tables.
// Tags match local element names, so the w: namespace prefix is ignored.
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

type bodyXML struct {
	Tables []tableXML `xml:"tbl"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Properties tablePropsXML `xml:"tblPr"`
	Rows       []tableRowXML `xml:"tr"`
}

type tablePropsXML struct {
	Caption captionXML `xml:"tblCaption"`
}

type captionXML struct {
	Val string `xml:"val,attr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Properties rowPropsXML    `xml:"trPr"`
	Cells      []tableCellXML `xml:"tc"`
}

// rowPropsXML carries row properties. tblHeader marks the rows Word
// repeats at the top of every page.
type rowPropsXML struct {
	Header boolXML `xml:"tblHeader"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Properties cellPropsXML   `xml:"tcPr"`
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

type cellPropsXML struct {
	GridSpan gridSpanXML `xml:"gridSpan"`
	VMerge   vMergeXML   `xml:"vMerge"`
}

type gridSpanXML struct {
	Val string `xml:"val,attr"`
}

// vMergeXML carries vertical merge state: val "restart" opens a merge,
// any other presence continues the one above.
type vMergeXML struct {
	XMLName xml.Name `xml:"vMerge"`
	Val     string   `xml:"val,attr"`
}

// paragraphXML represents a paragraph (<w:p>).
type paragraphXML struct {
	Runs       []runXML       `xml:"r"`
	Hyperlinks []hyperlinkXML `xml:"hyperlink"`
}

type hyperlinkXML struct {
	Runs []runXML `xml:"r"`
}

// runXML represents a text run (<w:r>).
type runXML struct {
	Properties runPropsXML `xml:"rPr"`
	Text       []textXML   `xml:"t"`
	Tabs       []tabXML    `xml:"tab"`
	Breaks     []breakXML  `xml:"br"`
}

type runPropsXML struct {
	Bold      boolXML      `xml:"b"`
	Italic    boolXML      `xml:"i"`
	Underline underlineXML `xml:"u"`
}

// boolXML represents an on/off property element whose presence enables
// the property unless val disables it.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

type underlineXML struct {
	Val string `xml:"val,attr"`
}

type textXML struct {
	Value string `xml:",chardata"`
}

type tabXML struct{}

type breakXML struct{}
