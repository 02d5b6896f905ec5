// Package htmldoc reads HTML documents into raw grids, one per table
// element.
//
// rowspan and colspan attributes are expanded into empty continuation cells
// so every grid is plain row-major text; the inference pipeline re-detects
// the merged areas from those empty runs. Inline emphasis elements populate
// per-cell formatting for header detection.
package htmldoc

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/tablesense/model"
)

// Browsers clamp spans rather than honoring arbitrary attribute values;
// matching that keeps a stray colspan="99999" from ballooning the grid.
const maxSpan = 1000

// Open reads the HTML file at path and returns one grid per table element.
func Open(path string) ([]model.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads HTML from r and returns one grid per table element. Nested
// tables become separate grids; their content is excluded from the cell
// text of the enclosing table.
func Parse(r io.Reader) ([]model.Grid, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var grids []model.Grid
	for _, tbl := range findTables(doc) {
		grids = append(grids, parseTable(tbl))
	}
	return grids, nil
}

// findTables returns all table elements in document order, including tables
// nested inside other tables.
func findTables(n *html.Node) []*html.Node {
	var tables []*html.Node
	if n.Type == html.ElementNode && n.Data == "table" {
		tables = append(tables, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		tables = append(tables, findTables(c)...)
	}
	return tables
}

// carry tracks a rowspan that extends into rows below its anchor.
type carry struct {
	width     int
	remaining int
}

func parseTable(tableNode *html.Node) model.Grid {
	g := model.Grid{Name: captionText(tableNode)}

	rows := collectRows(tableNode)
	carried := make(map[int]carry)
	firstRow := true
	hasFormatting := false

	for _, rn := range rows {
		var texts []string
		var fmts []*model.CellFormatting
		col := 0
		newCarried := make(map[int]carry)

		place := func(text string, cf *model.CellFormatting, width int) {
			texts = append(texts, text)
			fmts = append(fmts, cf)
			for k := 1; k < width; k++ {
				texts = append(texts, "")
				fmts = append(fmts, nil)
			}
			col += width
		}
		// Materialize cells covered by rowspans from earlier rows. Column
		// position only advances, so each carried span fires at most once
		// per row.
		fillCarried := func() {
			for {
				p, ok := carried[col]
				if !ok {
					break
				}
				place("", nil, p.width)
			}
		}

		allTH := true
		for c := rn.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
				continue
			}
			fillCarried()

			colspan := spanAttr(c, "colspan")
			rowspan := spanAttr(c, "rowspan")
			cf := cellFormatting(c)
			if cf != nil {
				hasFormatting = true
			}

			startCol := col
			place(cellText(c), cf, colspan)
			if rowspan > 1 {
				newCarried[startCol] = carry{width: colspan, remaining: rowspan - 1}
			}
			if c.Data != "th" {
				allTH = false
			}
		}
		fillCarried()

		for colIdx, p := range carried {
			p.remaining--
			if p.remaining <= 0 {
				delete(carried, colIdx)
			} else {
				carried[colIdx] = p
			}
		}
		for colIdx, p := range newCarried {
			carried[colIdx] = p
		}

		if len(texts) == 0 {
			continue
		}
		if firstRow {
			g.FirstRowHeader = allTH
			firstRow = false
		}
		g.Cells = append(g.Cells, texts)
		g.Formatting = append(g.Formatting, fmts)
	}

	if !hasFormatting {
		g.Formatting = nil
	}
	return g
}

// collectRows gathers the tr elements belonging directly to this table:
// direct children plus those inside thead, tbody and tfoot sections, in
// document order. Rows of nested tables are never direct children, so they
// are naturally excluded.
func collectRows(tableNode *html.Node) []*html.Node {
	var rows []*html.Node
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type == html.ElementNode && tr.Data == "tr" {
					rows = append(rows, tr)
				}
			}
		case "tr":
			rows = append(rows, c)
		}
	}
	return rows
}

func captionText(tableNode *html.Node) string {
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "caption" {
			return cellText(c)
		}
	}
	return ""
}

func spanAttr(n *html.Node, name string) int {
	for _, attr := range n.Attr {
		if attr.Key != name {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(attr.Val))
		if err != nil || v < 1 {
			return 1
		}
		if v > maxSpan {
			return maxSpan
		}
		return v
	}
	return 1
}

// cellText extracts the text of a cell with all whitespace runs collapsed
// to single spaces. Nested tables and non-content elements are skipped.
func cellText(n *html.Node) string {
	var b strings.Builder
	collectText(n, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			switch c.Data {
			case "table", "script", "style", "noscript", "template":
				continue
			case "br":
				b.WriteString(" ")
			}
			collectText(c, b)
		}
	}
}

// cellFormatting derives styling flags from emphasis elements inside a
// cell. Returns nil when the cell contains none.
func cellFormatting(n *html.Node) *model.CellFormatting {
	var cf model.CellFormatting
	scanEmphasis(n, &cf)
	if !cf.Bold && !cf.Italic && !cf.Underline {
		return nil
	}
	return &cf
}

func scanEmphasis(n *html.Node, cf *model.CellFormatting) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "table":
			continue
		case "b", "strong":
			cf.Bold = true
		case "i", "em":
			cf.Italic = true
		case "u":
			cf.Underline = true
		}
		scanEmphasis(c, cf)
	}
}
