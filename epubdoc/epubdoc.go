// Package epubdoc reads the tables of an EPUB publication into raw grids.
// Content documents are visited in spine order and their tables are parsed
// by the htmldoc package, so rowspan and colspan markup is normalized the
// same way as any other HTML input.
package epubdoc

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/tsawler/tablesense/htmldoc"
	"github.com/tsawler/tablesense/model"
)

var (
	// ErrNoContainer marks an archive without META-INF/container.xml.
	ErrNoContainer = errors.New("epub: missing META-INF/container.xml")
	// ErrNoRootfile marks a container.xml that names no package document.
	ErrNoRootfile = errors.New("epub: no rootfile found in container.xml")
	// ErrNoPackage marks a publication whose package document is absent.
	ErrNoPackage = errors.New("epub: missing package document")
	// ErrEncrypted marks a publication whose content documents are
	// DRM-protected.
	ErrEncrypted = errors.New("epub: encrypted content cannot be read")
)

// Open reads the publication at pathname and returns every table grid
// found in its content documents.
func Open(pathname string) ([]model.Grid, error) {
	zr, err := zip.OpenReader(pathname)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	defer zr.Close()

	return readArchive(&zr.Reader)
}

// OpenReader reads a publication from r, which must contain the complete
// ZIP archive.
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

	if err := checkEncryption(files); err != nil {
		return nil, err
	}

	opfPath, err := packagePath(files)
	if err != nil {
		return nil, err
	}

	docs, err := contentDocuments(files, opfPath)
	if err != nil {
		return nil, err
	}

	var grids []model.Grid
	for _, name := range docs {
		f, ok := files[name]
		if !ok {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		parsed, err := htmldoc.Parse(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		grids = append(grids, parsed...)
	}
	return grids, nil
}

// checkEncryption rejects publications whose content documents are listed
// in META-INF/encryption.xml. Font obfuscation entries reference font
// files, not content documents, and pass through.
func checkEncryption(files map[string]*zip.File) error {
	if _, ok := files["META-INF/rights.xml"]; ok {
		return ErrEncrypted
	}
	f, ok := files["META-INF/encryption.xml"]
	if !ok {
		return nil
	}

	var enc encryptionXML
	if err := decodeXML(f, &enc); err != nil {
		return ErrEncrypted
	}
	for _, d := range enc.Data {
		uri := strings.ToLower(d.CipherData.Reference.URI)
		switch path.Ext(uri) {
		case ".xhtml", ".html", ".htm", ".xml":
			return ErrEncrypted
		}
	}
	return nil
}

// packagePath resolves the package document location from
// META-INF/container.xml.
func packagePath(files map[string]*zip.File) (string, error) {
	f, ok := files["META-INF/container.xml"]
	if !ok {
		return "", ErrNoContainer
	}

	var c containerXML
	if err := decodeXML(f, &c); err != nil {
		return "", fmt.Errorf("parsing container.xml: %w", err)
	}

	for _, rf := range c.Rootfiles.Rootfiles {
		if rf.MediaType == "application/oebps-package+xml" && rf.FullPath != "" {
			return rf.FullPath, nil
		}
	}
	if len(c.Rootfiles.Rootfiles) > 0 && c.Rootfiles.Rootfiles[0].FullPath != "" {
		return c.Rootfiles.Rootfiles[0].FullPath, nil
	}
	return "", ErrNoRootfile
}

// contentDocuments returns the archive paths of the spine's HTML content
// documents, in reading order. Manifest hrefs are relative to the package
// document.
func contentDocuments(files map[string]*zip.File, opfPath string) ([]string, error) {
	f, ok := files[opfPath]
	if !ok {
		return nil, ErrNoPackage
	}

	var pkg packageXML
	if err := decodeXML(f, &pkg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", opfPath, err)
	}

	items := make(map[string]manifestItemXML, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		items[item.ID] = item
	}

	base := path.Dir(opfPath)
	var docs []string
	for _, ref := range pkg.Spine.Refs {
		item, ok := items[ref.IDRef]
		if !ok || !isContentType(item.MediaType) {
			continue
		}
		docs = append(docs, path.Join(base, item.Href))
	}
	return docs, nil
}

func isContentType(mediaType string) bool {
	return mediaType == "application/xhtml+xml" || mediaType == "text/html"
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

// containerXML represents META-INF/container.xml.
type containerXML struct {
	XMLName   xml.Name     `xml:"container"`
	Rootfiles rootfilesXML `xml:"rootfiles"`
}

type rootfilesXML struct {
	Rootfiles []rootfileXML `xml:"rootfile"`
}

type rootfileXML struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// packageXML is the subset of the OPF package document needed to walk the
// spine.
type packageXML struct {
	XMLName  xml.Name    `xml:"package"`
	Manifest manifestXML `xml:"manifest"`
	Spine    spineXML    `xml:"spine"`
}

type manifestXML struct {
	Items []manifestItemXML `xml:"item"`
}

type manifestItemXML struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type spineXML struct {
	Refs []spineRefXML `xml:"itemref"`
}

type spineRefXML struct {
	IDRef string `xml:"idref,attr"`
}

// encryptionXML represents META-INF/encryption.xml.
type encryptionXML struct {
	XMLName xml.Name           `xml:"encryption"`
	Data    []encryptedDataXML `xml:"EncryptedData"`
}

type encryptedDataXML struct {
	CipherData cipherDataXML `xml:"CipherData"`
}

type cipherDataXML struct {
	Reference cipherReferenceXML `xml:"CipherReference"`
}

type cipherReferenceXML struct {
	URI string `xml:"URI,attr"`
}
