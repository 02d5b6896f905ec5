// Package format provides source file format detection for the tablesense
// library.
package format

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported table source format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// CSV indicates comma-separated values.
	CSV
	// TSV indicates tab-separated values.
	TSV
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// HTML indicates an HTML document.
	HTML
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// ODS indicates an OpenDocument Spreadsheet (.ods) document.
	ODS
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// PPTX indicates a Microsoft PowerPoint (.pptx) presentation.
	PPTX
	// EPUB indicates an EPUB (.epub) publication.
	EPUB
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case CSV:
		return "CSV"
	case TSV:
		return "TSV"
	case XLSX:
		return "XLSX"
	case HTML:
		return "HTML"
	case ODT:
		return "ODT"
	case ODS:
		return "ODS"
	case DOCX:
		return "DOCX"
	case PPTX:
		return "PPTX"
	case EPUB:
		return "EPUB"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case CSV:
		return ".csv"
	case TSV:
		return ".tsv"
	case XLSX:
		return ".xlsx"
	case HTML:
		return ".html"
	case ODT:
		return ".odt"
	case ODS:
		return ".ods"
	case DOCX:
		return ".docx"
	case PPTX:
		return ".pptx"
	case EPUB:
		return ".epub"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return CSV
	case ".tsv", ".tab":
		return TSV
	case ".xlsx":
		return XLSX
	case ".html", ".htm":
		return HTML
	case ".odt":
		return ODT
	case ".ods":
		return ODS
	case ".docx":
		return DOCX
	case ".pptx":
		return PPTX
	case ".epub":
		return EPUB
	default:
		return Unknown
	}
}

// DetectFromMagic checks file magic bytes to determine format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from magic bytes
// alone; plain-text formats such as CSV and TSV have no magic and fall
// back to extension-based detection.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// ZIP magic (XLSX and OpenDocument files are ZIP archives): PK\x03\x04
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		// Could be XLSX, ODT, ODS, or another ZIP-based format.
		// Return Unknown here - caller should use DetectFromReader for ZIP files
		return Unknown
	}

	if detectHTMLMagic(data) {
		return HTML
	}

	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	// Trim leading whitespace
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		return false
	}
	data = data[start:]

	// Check for common HTML signatures (case-insensitive for DOCTYPE)
	upper := strings.ToUpper(string(data))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper[:min(500, len(upper))], "<HTML") {
		return true
	}

	return false
}

// DetectFromReader inspects the content to determine format.
// This is more reliable than extension-based detection and can
// distinguish between the ZIP-based formats (XLSX, DOCX, PPTX, ODT, ODS,
// EPUB).
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	// Read magic bytes first (need more for HTML detection)
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	// Check for ZIP-based format
	if len(magic) >= 4 && magic[0] == 0x50 && magic[1] == 0x4B && magic[2] == 0x03 && magic[3] == 0x04 {
		// It's a ZIP archive - check contents to determine specific format
		return detectZIPFormat(r, size)
	}

	if detectHTMLMagic(magic) {
		return HTML, nil
	}

	return Unknown, nil
}

// detectZIPFormat inspects a ZIP archive to determine which ZIP-based
// format it holds.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	// Check for formats that declare a mimetype file at the start of the
	// archive (OpenDocument and EPUB)
	for _, f := range zr.File {
		if f.Name == "mimetype" {
			rc, err := f.Open()
			if err == nil {
				data := make([]byte, 256)
				n, _ := rc.Read(data)
				rc.Close()
				mimeType := string(data[:n])
				if strings.Contains(mimeType, "application/vnd.oasis.opendocument.text") {
					return ODT, nil
				}
				if strings.Contains(mimeType, "application/vnd.oasis.opendocument.spreadsheet") {
					return ODS, nil
				}
				if strings.Contains(mimeType, "application/epub+zip") {
					return EPUB, nil
				}
			}
		}
	}

	// Check for Office Open XML markers
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			// This is an OOXML file - check for specific format markers
			continue
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		}
	}

	return Unknown, nil
}
