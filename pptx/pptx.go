// Package pptx reads the tables of a PresentationML (.pptx) deck into raw
// grids, one grid per table graphic frame, in slide order.
//
// DrawingML writes every covered cell of a merged area explicitly, flagged
// with hMerge or vMerge. Their content is discarded so merged areas reach
// the inference pipeline as the same empty-cell runs every other source
// produces. Bold, italic, and underline run properties populate per-cell
// formatting.
package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/tsawler/tablesense/model"
)

// Open reads the deck at pathname and returns one grid per table.
func Open(pathname string) ([]model.Grid, error) {
	zr, err := zip.OpenReader(pathname)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	return readArchive(&zr.Reader)
}

// OpenReader reads a deck from r, which must contain the complete ZIP
// archive.
func OpenReader(r io.ReaderAt, size int64) ([]model.Grid, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return readArchive(zr)
}

func readArchive(zr *zip.Reader) ([]model.Grid, error) {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	order, err := slideOrder(files)
	if err != nil {
		return nil, err
	}

	var grids []model.Grid
	for _, name := range order {
		f, ok := files[name]
		if !ok {
			continue
		}
		var slide slideXML
		if err := decodeXML(f, &slide); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		grids = append(grids, treeGrids(slide.Content.ShapeTree)...)
	}
	return grids, nil
}

// slideOrder resolves the presentation's slide sequence through its
// relationship targets: the sldIdLst entries reference slide parts by
// relationship ID rather than by filename.
func slideOrder(files map[string]*zip.File) ([]string, error) {
	pres, ok := files["ppt/presentation.xml"]
	if !ok {
		return nil, fmt.Errorf("ppt/presentation.xml not found in archive")
	}
	var p presentationXML
	if err := decodeXML(pres, &p); err != nil {
		return nil, fmt.Errorf("parsing presentation.xml: %w", err)
	}

	rels, ok := files["ppt/_rels/presentation.xml.rels"]
	if !ok {
		return nil, fmt.Errorf("presentation relationships not found in archive")
	}
	var r relationshipsXML
	if err := decodeXML(rels, &r); err != nil {
		return nil, fmt.Errorf("parsing presentation relationships: %w", err)
	}

	targets := make(map[string]string, len(r.Relationships))
	for _, rel := range r.Relationships {
		targets[rel.ID] = rel.Target
	}

	var order []string
	if p.SlideIDs != nil {
		for _, id := range p.SlideIDs.IDs {
			if target, ok := targets[id.RID]; ok {
				order = append(order, path.Join("ppt", target))
			}
		}
	}
	return order, nil
}

func decodeXML(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

// treeGrids collects the tables of a shape tree, descending into shape
// groups.
func treeGrids(tree shapeTreeXML) []model.Grid {
	var grids []model.Grid
	for _, frame := range tree.Frames {
		if frame.Graphic.Data.Table == nil {
			continue
		}
		grids = append(grids, parseTable(frame.NonVisual.Properties.Name, *frame.Graphic.Data.Table))
	}
	for _, group := range tree.Groups {
		grids = append(grids, treeGrids(shapeTreeXML{Frames: group.Frames, Groups: group.Groups})...)
	}
	return grids
}

func parseTable(name string, tbl tableXML) model.Grid {
	g := model.Grid{
		Name:           name,
		FirstRowHeader: flagSet(tbl.Properties.FirstRow),
	}

	hasFormatting := false
	for _, row := range tbl.Rows {
		var texts []string
		var fmts []*model.CellFormatting

		for _, cell := range row.Cells {
			// Covered positions of a merged area carry hMerge or vMerge;
			// the visible content lives in the anchor cell.
			if flagSet(cell.HMerge) || flagSet(cell.VMerge) {
				texts = append(texts, "")
				fmts = append(fmts, nil)
				continue
			}

			cf := cellFormatting(cell)
			if cf != nil {
				hasFormatting = true
			}
			texts = append(texts, cellText(cell))
			fmts = append(fmts, cf)
		}

		if len(texts) == 0 {
			continue
		}
		g.Cells = append(g.Cells, texts)
		g.Formatting = append(g.Formatting, fmts)
	}

	if !hasFormatting {
		g.Formatting = nil
	}
	return g
}

// flagSet reports whether an ST_Boolean attribute value is on.
func flagSet(v string) bool {
	return v == "1" || v == "true"
}

// cellText joins the cell's paragraph texts with newlines.
func cellText(cell tableCellXML) string {
	if cell.Body == nil {
		return ""
	}
	parts := make([]string, 0, len(cell.Body.Paragraphs))
	for _, p := range cell.Body.Paragraphs {
		if text := paragraphText(p); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

func paragraphText(p paragraphXML) string {
	var b strings.Builder
	for _, run := range p.Runs {
		b.WriteString(run.Text)
	}
	for _, fld := range p.Fields {
		b.WriteString(fld.Text)
	}
	return strings.TrimSpace(b.String())
}

// cellFormatting derives styling flags from the cell's run properties,
// returning nil when no run carries any.
func cellFormatting(cell tableCellXML) *model.CellFormatting {
	if cell.Body == nil {
		return nil
	}
	var cf model.CellFormatting
	for _, p := range cell.Body.Paragraphs {
		for _, run := range p.Runs {
			if flagSet(run.Properties.Bold) {
				cf.Bold = true
			}
			if flagSet(run.Properties.Italic) {
				cf.Italic = true
			}
			if u := run.Properties.Underline; u != "" && u != "none" {
				cf.Underline = true
			}
		}
	}
	if !cf.Bold && !cf.Italic && !cf.Underline {
		return nil
	}
	return &cf
}

// presentationXML is the subset of ppt/presentation.xml needed to order
// slides. Tags match local element names, so namespace prefixes are
// ignored.
type presentationXML struct {
	XMLName  xml.Name        `xml:"presentation"`
	SlideIDs *slideIDListXML `xml:"sldIdLst"`
}

type slideIDListXML struct {
	IDs []slideIDXML `xml:"sldId"`
}

type slideIDXML struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// relationshipsXML represents a .rels part.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

// slideXML is the subset of a ppt/slides/slide*.xml part needed to read
// tables.
type slideXML struct {
	XMLName xml.Name        `xml:"sld"`
	Content slideContentXML `xml:"cSld"`
}

type slideContentXML struct {
	ShapeTree shapeTreeXML `xml:"spTree"`
}

type shapeTreeXML struct {
	Frames []graphicFrameXML `xml:"graphicFrame"`
	Groups []shapeGroupXML   `xml:"grpSp"`
}

type shapeGroupXML struct {
	Frames []graphicFrameXML `xml:"graphicFrame"`
	Groups []shapeGroupXML   `xml:"grpSp"`
}

// graphicFrameXML hosts non-shape graphics; tables arrive inside its
// graphicData element.
type graphicFrameXML struct {
	NonVisual framePropsXML `xml:"nvGraphicFramePr"`
	Graphic   graphicXML    `xml:"graphic"`
}

type framePropsXML struct {
	Properties drawingPropsXML `xml:"cNvPr"`
}

type drawingPropsXML struct {
	Name string `xml:"name,attr"`
}

type graphicXML struct {
	Data graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	Table *tableXML `xml:"tbl"`
}

// tableXML represents a table (<a:tbl>).
type tableXML struct {
	Properties tablePropsXML `xml:"tblPr"`
	Rows       []tableRowXML `xml:"tr"`
}

// tablePropsXML carries table styling options. firstRow marks the first
// row as a styled header row.
type tablePropsXML struct {
	FirstRow string `xml:"firstRow,attr"`
}

type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<a:tc>).
type tableCellXML struct {
	Body   *textBodyXML `xml:"txBody"`
	HMerge string       `xml:"hMerge,attr"`
	VMerge string       `xml:"vMerge,attr"`
}

type textBodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
}

// paragraphXML represents a paragraph (<a:p>).
type paragraphXML struct {
	Runs   []runXML   `xml:"r"`
	Fields []fieldXML `xml:"fld"`
}

// runXML represents a text run (<a:r>).
type runXML struct {
	Properties runPropsXML `xml:"rPr"`
	Text       string      `xml:"t"`
}

// runPropsXML carries run properties as ST_Boolean attributes, unlike the
// element-based properties WordprocessingML uses.
type runPropsXML struct {
	Bold      string `xml:"b,attr"`
	Italic    string `xml:"i,attr"`
	Underline string `xml:"u,attr"`
}

// fieldXML represents a generated text field such as a slide number.
type fieldXML struct {
	Text string `xml:"t"`
}
