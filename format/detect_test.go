package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{CSV, "CSV"},
		{TSV, "TSV"},
		{XLSX, "XLSX"},
		{HTML, "HTML"},
		{ODT, "ODT"},
		{ODS, "ODS"},
		{DOCX, "DOCX"},
		{PPTX, "PPTX"},
		{EPUB, "EPUB"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{CSV, ".csv"},
		{TSV, ".tsv"},
		{XLSX, ".xlsx"},
		{HTML, ".html"},
		{ODT, ".odt"},
		{ODS, ".ods"},
		{DOCX, ".docx"},
		{PPTX, ".pptx"},
		{EPUB, ".epub"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"table.csv", CSV},
		{"table.CSV", CSV},
		{"table.Csv", CSV},
		{"table.tsv", TSV},
		{"table.TSV", TSV},
		{"table.tab", TSV},
		{"workbook.xlsx", XLSX},
		{"workbook.XLSX", XLSX},
		{"page.html", HTML},
		{"page.HTML", HTML},
		{"page.htm", HTML},
		{"document.odt", ODT},
		{"document.ODT", ODT},
		{"sheet.ods", ODS},
		{"sheet.ODS", ODS},
		{"report.docx", DOCX},
		{"report.DOCX", DOCX},
		{"deck.pptx", PPTX},
		{"book.epub", EPUB},
		{"document.txt", Unknown},
		{"document", Unknown},
		{"", Unknown},
		{"/path/to/table.csv", CSV},
		{"/path/to/workbook.xlsx", XLSX},
		{"/path/to/page.html", HTML},
		{"/path/to/document.odt", ODT},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{
			name: "ZIP magic bytes (XLSX/ODT/ODS)",
			data: []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00, 0x00, 0x00},
			want: Unknown, // ZIP needs further inspection
		},
		{
			name: "HTML with DOCTYPE",
			data: []byte("<!DOCTYPE html>\n<html>"),
			want: HTML,
		},
		{
			name: "HTML with html tag",
			data: []byte("<html><head>"),
			want: HTML,
		},
		{
			name: "HTML with whitespace before DOCTYPE",
			data: []byte("  \n  <!DOCTYPE HTML PUBLIC"),
			want: HTML,
		},
		{
			name: "empty data",
			data: []byte{},
			want: Unknown,
		},
		{
			name: "short data",
			data: []byte{0x50, 0x4B},
			want: Unknown,
		},
		{
			name: "random data",
			data: []byte{0x01, 0x02, 0x03, 0x04, 0x05},
			want: Unknown,
		},
		{
			name: "plain text",
			data: []byte("name,age\nJohn,25"),
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic(tt.data); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

// makeZIP builds an in-memory ZIP archive from name/content pairs.
func makeZIP(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %q: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing zip entry %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFromReader_ODT(t *testing.T) {
	data := makeZIP(t, map[string]string{
		"mimetype":    "application/vnd.oasis.opendocument.text",
		"content.xml": "<office:document-content/>",
	})

	format, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != ODT {
		t.Errorf("DetectFromReader() = %v, want ODT", format)
	}
}

func TestDetectFromReader_ODS(t *testing.T) {
	data := makeZIP(t, map[string]string{
		"mimetype":    "application/vnd.oasis.opendocument.spreadsheet",
		"content.xml": "<office:document-content/>",
	})

	format, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != ODS {
		t.Errorf("DetectFromReader() = %v, want ODS", format)
	}
}

func TestDetectFromReader_XLSX(t *testing.T) {
	data := makeZIP(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"xl/workbook.xml":     "<workbook/>",
	})

	format, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != XLSX {
		t.Errorf("DetectFromReader() = %v, want XLSX", format)
	}
}

func TestDetectFromReader_DOCX(t *testing.T) {
	data := makeZIP(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   "<w:document/>",
	})

	format, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != DOCX {
		t.Errorf("DetectFromReader() = %v, want DOCX", format)
	}
}

func TestDetectFromReader_PPTX(t *testing.T) {
	data := makeZIP(t, map[string]string{
		"[Content_Types].xml":  "<Types/>",
		"ppt/presentation.xml": "<p:presentation/>",
	})

	format, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != PPTX {
		t.Errorf("DetectFromReader() = %v, want PPTX", format)
	}
}

func TestDetectFromReader_EPUB(t *testing.T) {
	data := makeZIP(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": "<container/>",
	})

	format, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != EPUB {
		t.Errorf("DetectFromReader() = %v, want EPUB", format)
	}
}

func TestDetectFromReader_HTML(t *testing.T) {
	data := []byte("<!DOCTYPE html>\n<html><head><title>Test</title></head><body></body></html>")

	format, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != HTML {
		t.Errorf("DetectFromReader() = %v, want HTML", format)
	}
}

func TestDetectFromReader_Unknown(t *testing.T) {
	data := []byte("Hello, World! This is plain text.")

	format, err := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if format != Unknown {
		t.Errorf("DetectFromReader() = %v, want Unknown", format)
	}
}
