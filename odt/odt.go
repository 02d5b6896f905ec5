// Package odt reads OpenDocument files into raw grids, one per table.
//
// Text documents (.odt) and spreadsheets (.ods) share the same table markup
// in content.xml, so both go through the same path. Covered positions inside
// merged areas arrive as covered-table-cell elements and become empty
// continuation cells; the inference pipeline re-detects the merges from
// those. Trailing empty cells are trimmed from each row, matching what
// spreadsheet readers return, since LibreOffice pads rows out to the full
// sheet capacity with repeated empty cells.
package odt

import (
	"archive/zip"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/tsawler/tablesense/model"
)

// Repeat counts beyond this are padding, not data.
const maxRepeat = 1000

// Open reads the OpenDocument file at path and returns one grid per table.
func Open(path string) ([]model.Grid, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	return readArchive(&zr.Reader)
}

// OpenReader reads an OpenDocument file from r, which must contain the
// complete ZIP archive.
func OpenReader(r io.ReaderAt, size int64) ([]model.Grid, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return readArchive(zr)
}

func readArchive(zr *zip.Reader) ([]model.Grid, error) {
	for _, f := range zr.File {
		if f.Name != "content.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening content.xml: %w", err)
		}
		defer rc.Close()
		return parseContent(rc)
	}
	return nil, fmt.Errorf("content.xml not found in archive")
}

func parseContent(r io.Reader) ([]model.Grid, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing content.xml: %w", err)
	}

	// Match by local name so the document's namespace prefixes don't matter.
	tables, err := xmlquery.QueryAll(doc, "//*[local-name()='table']")
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}

	var grids []model.Grid
	for _, tbl := range tables {
		grids = append(grids, parseTable(tbl))
	}
	return grids, nil
}

func parseTable(tbl *xmlquery.Node) model.Grid {
	g := model.Grid{Name: attrValue(tbl, "name")}

	first := true
	addRow := func(row *xmlquery.Node, fromHeader bool) {
		cells := parseRow(row)
		if len(cells) == 0 {
			return
		}
		if first {
			g.FirstRowHeader = fromHeader
			first = false
		}
		g.Cells = append(g.Cells, cells)
	}

	for c := tbl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "table-header-rows", "table-rows":
			fromHeader := c.Data == "table-header-rows"
			for row := c.FirstChild; row != nil; row = row.NextSibling {
				if row.Type == xmlquery.ElementNode && row.Data == "table-row" {
					addRow(row, fromHeader)
				}
			}
		case "table-row":
			addRow(c, false)
		}
	}
	return g
}

func parseRow(row *xmlquery.Node) []string {
	var cells []string
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}

		var text string
		switch c.Data {
		case "table-cell":
			text = cellText(c)
		case "covered-table-cell":
			text = ""
		default:
			continue
		}

		repeat := repeatCount(c)
		for i := 0; i < repeat; i++ {
			cells = append(cells, text)
		}
	}

	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// cellText joins the cell's paragraphs with newlines. Spans and other
// inline markup flatten to their text.
func cellText(cell *xmlquery.Node) string {
	paragraphs := xmlquery.Find(cell, "descendant::*[local-name()='p' or local-name()='h']")
	if len(paragraphs) == 0 {
		return strings.TrimSpace(cell.InnerText())
	}

	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		parts = append(parts, strings.TrimSpace(p.InnerText()))
	}
	return strings.Join(parts, "\n")
}

func repeatCount(cell *xmlquery.Node) int {
	v := attrValue(cell, "number-columns-repeated")
	if v == "" {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxRepeat {
		return maxRepeat
	}
	return n
}

func attrValue(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
