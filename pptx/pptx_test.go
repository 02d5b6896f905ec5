package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/tablesense/model"
)

const slideHeader = `<?xml version="1.0" encoding="UTF-8"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
	xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<p:cSld><p:spTree>`

const slideFooter = `</p:spTree></p:cSld></p:sld>`

// makeArchive builds an in-memory ZIP archive from name/content pairs.
func makeArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

// makeDeck builds a minimal .pptx archive with one part per slide body, in
// the given order.
func makeDeck(t *testing.T, slides ...string) []byte {
	t.Helper()
	files := make(map[string]string, len(slides)+2)

	var ids, rels strings.Builder
	for i, body := range slides {
		n := i + 1
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, n, n)
		files[fmt.Sprintf("ppt/slides/slide%d.xml", n)] = slideHeader + body + slideFooter
	}

	files["ppt/presentation.xml"] = `<?xml version="1.0" encoding="UTF-8"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
	xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<p:sldIdLst>` + ids.String() + `</p:sldIdLst></p:presentation>`

	files["ppt/_rels/presentation.xml.rels"] = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		rels.String() + `</Relationships>`

	return makeArchive(t, files)
}

func parseDeck(t *testing.T, slides ...string) []model.Grid {
	t.Helper()
	data := makeDeck(t, slides...)
	grids, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	return grids
}

func frame(name, table string) string {
	return `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="4" name="` + name + `"/></p:nvGraphicFramePr>` +
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">` +
		table + `</a:graphicData></a:graphic></p:graphicFrame>`
}

func table(props string, rows ...string) string {
	return `<a:tbl><a:tblPr` + props + `/><a:tblGrid/>` + strings.Join(rows, "") + `</a:tbl>`
}

func row(cells ...string) string {
	return `<a:tr h="370840">` + strings.Join(cells, "") + `</a:tr>`
}

func cell(text string) string {
	return `<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></a:txBody></a:tc>`
}

func TestParseSimpleTable(t *testing.T) {
	grids := parseDeck(t, frame("People", table("",
		row(cell("Name"), cell("Age")),
		row(cell("John"), cell("25")),
	)))

	if len(grids) != 1 {
		t.Fatalf("Expected 1 grid, got %d", len(grids))
	}
	if grids[0].Name != "People" {
		t.Errorf("grid name = %q, want %q", grids[0].Name, "People")
	}

	want := [][]string{{"Name", "Age"}, {"John", "25"}}
	if !reflect.DeepEqual(grids[0].Cells, want) {
		t.Errorf("got %v, want %v", grids[0].Cells, want)
	}
}

func TestParseMergedCells(t *testing.T) {
	grids := parseDeck(t, frame("Merged", table("",
		row(`<a:tc gridSpan="2"><a:txBody><a:p><a:r><a:t>Span</a:t></a:r></a:p></a:txBody></a:tc>`,
			`<a:tc hMerge="1"><a:txBody><a:p/></a:txBody></a:tc>`,
			cell("End")),
		row(`<a:tc rowSpan="2"><a:txBody><a:p><a:r><a:t>Tall</a:t></a:r></a:p></a:txBody></a:tc>`,
			cell("B"), cell("C")),
		row(`<a:tc vMerge="1"><a:txBody><a:p><a:r><a:t>stale</a:t></a:r></a:p></a:txBody></a:tc>`,
			cell("D"), cell("E")),
	)))

	want := [][]string{
		{"Span", "", "End"},
		{"Tall", "B", "C"},
		{"", "D", "E"},
	}
	if !reflect.DeepEqual(grids[0].Cells, want) {
		t.Errorf("got %v, want %v", grids[0].Cells, want)
	}
}

func TestParseFirstRowFlag(t *testing.T) {
	grids := parseDeck(t, frame("A", table(` firstRow="1"`,
		row(cell("Name")),
		row(cell("John")),
	))+frame("B", table("",
		row(cell("x")),
	)))

	if len(grids) != 2 {
		t.Fatalf("Expected 2 grids, got %d", len(grids))
	}
	if !grids[0].FirstRowHeader {
		t.Error("Expected FirstRowHeader for firstRow table")
	}
	if grids[1].FirstRowHeader {
		t.Error("Expected no FirstRowHeader without firstRow")
	}
}

func TestParseFormatting(t *testing.T) {
	grids := parseDeck(t, frame("Styled", table("",
		row(`<a:tc><a:txBody><a:p><a:r><a:rPr b="1"/><a:t>Name</a:t></a:r></a:p></a:txBody></a:tc>`,
			cell("Age")),
	)))

	g := grids[0]
	if g.Formatting == nil {
		t.Fatal("Expected formatting for bold cell")
	}
	if f := g.Formatting[0][0]; f == nil || !f.Bold {
		t.Errorf("bold cell formatting = %+v, want bold", f)
	}
	if f := g.Formatting[0][1]; f != nil {
		t.Errorf("plain cell formatting = %+v, want nil", f)
	}
}

func TestParseNoFormatting(t *testing.T) {
	grids := parseDeck(t, frame("Plain", table("", row(cell("a"), cell("b")))))

	if grids[0].Formatting != nil {
		t.Errorf("Formatting = %+v, want nil for unstyled table", grids[0].Formatting)
	}
}

func TestParseMultiParagraphCell(t *testing.T) {
	grids := parseDeck(t, frame("Para", table("", row(
		`<a:tc><a:txBody><a:p><a:r><a:t>Line1</a:t></a:r></a:p><a:p><a:r><a:t>Line2</a:t></a:r></a:p></a:txBody></a:tc>`,
	))))

	if got := grids[0].Cells[0][0]; got != "Line1\nLine2" {
		t.Errorf("got %q, want %q", got, "Line1\nLine2")
	}
}

func TestParseFieldText(t *testing.T) {
	grids := parseDeck(t, frame("Fields", table("", row(
		`<a:tc><a:txBody><a:p><a:fld id="{1}" type="slidenum"><a:t>7</a:t></a:fld></a:p></a:txBody></a:tc>`,
	))))

	if got := grids[0].Cells[0][0]; got != "7" {
		t.Errorf("got %q, want %q", got, "7")
	}
}

func TestParseEmptyCellBody(t *testing.T) {
	grids := parseDeck(t, frame("Empty", table("", row(`<a:tc/>`, cell("x")))))

	want := [][]string{{"", "x"}}
	if !reflect.DeepEqual(grids[0].Cells, want) {
		t.Errorf("got %v, want %v", grids[0].Cells, want)
	}
}

func TestParseGroupedTable(t *testing.T) {
	grids := parseDeck(t, `<p:grpSp><p:nvGrpSpPr/>`+frame("Inner", table("", row(cell("grouped"))))+`</p:grpSp>`)

	if len(grids) != 1 {
		t.Fatalf("Expected 1 grid, got %d", len(grids))
	}
	if got := grids[0].Cells[0][0]; got != "grouped" {
		t.Errorf("got %q, want %q", got, "grouped")
	}
}

func TestParseSlideOrder(t *testing.T) {
	// sldIdLst lists rId2 before rId1, so slide2's table must come first
	// even though slide1 sorts first by filename.
	files := map[string]string{
		"ppt/presentation.xml": `<p:presentation
			xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
			xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
			<p:sldIdLst><p:sldId id="257" r:id="rId2"/><p:sldId id="256" r:id="rId1"/></p:sldIdLst>
			</p:presentation>`,
		"ppt/_rels/presentation.xml.rels": `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
			<Relationship Id="rId1" Type="t" Target="slides/slide1.xml"/>
			<Relationship Id="rId2" Type="t" Target="slides/slide2.xml"/>
			</Relationships>`,
		"ppt/slides/slide1.xml": slideHeader + frame("First", table("", row(cell("one")))) + slideFooter,
		"ppt/slides/slide2.xml": slideHeader + frame("Second", table("", row(cell("two")))) + slideFooter,
	}
	data := makeArchive(t, files)

	grids, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	if len(grids) != 2 {
		t.Fatalf("Expected 2 grids, got %d", len(grids))
	}
	if grids[0].Name != "Second" || grids[1].Name != "First" {
		t.Errorf("grid order = %q, %q; want Second, First", grids[0].Name, grids[1].Name)
	}
}

func TestParseNoTables(t *testing.T) {
	grids := parseDeck(t, `<p:sp><p:txBody><a:p><a:r><a:t>just text</a:t></a:r></a:p></p:txBody></p:sp>`)

	if len(grids) != 0 {
		t.Errorf("Expected no grids, got %d", len(grids))
	}
}

func TestMissingPresentation(t *testing.T) {
	data := makeArchive(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
	})
	if _, err := OpenReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("Expected error for archive without presentation.xml")
	}
}

func TestOpenFile(t *testing.T) {
	data := makeDeck(t, frame("T", table("", row(cell("hello")))))

	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}

	grids, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(grids) != 1 || grids[0].Cells[0][0] != "hello" {
		t.Errorf("unexpected grids: %+v", grids)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.pptx")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestParseNotZIP(t *testing.T) {
	data := []byte("plain text, not an archive")
	if _, err := OpenReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("Expected error for non-ZIP input")
	}
}
