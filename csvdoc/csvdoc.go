// Package csvdoc reads delimiter-separated text files into raw grids.
//
// The package deliberately parses laxly: quotes are handled permissively and
// rows may have differing field counts, since real-world exports are rarely
// strict. Structural interpretation of the resulting grid is left entirely to
// the inference pipeline.
package csvdoc

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/tablesense/model"
)

// Read parses comma-separated content from r into rows of cell text.
func Read(r io.Reader) ([][]string, error) {
	return ReadDelimited(r, ',')
}

// ReadDelimited parses content from r using the given field delimiter. Rows
// keep whatever field count they arrive with. A leading UTF-8 byte order
// mark, which spreadsheet exports commonly prepend, is stripped.
func ReadDelimited(r io.Reader, comma rune) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(stripBOM(data)))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing delimited content: %w", err)
	}
	return records, nil
}

// Open reads the file at path into a grid, guessing the field delimiter from
// the first line. Files with a .tsv or .tab extension are always read as
// tab-separated. The grid is named after the file, without its extension.
func Open(path string) (model.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Grid{}, fmt.Errorf("reading file: %w", err)
	}

	comma := ','
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		comma = '\t'
	default:
		comma = sniffDelimiter(stripBOM(data))
	}

	cells, err := ReadDelimited(bytes.NewReader(data), comma)
	if err != nil {
		return model.Grid{}, err
	}
	return model.Grid{Name: gridName(path), Cells: cells}, nil
}

// OpenTSV reads the file at path as tab-separated content regardless of its
// extension.
func OpenTSV(path string) (model.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Grid{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	cells, err := ReadDelimited(f, '\t')
	if err != nil {
		return model.Grid{}, err
	}
	return model.Grid{Name: gridName(path), Cells: cells}, nil
}

// sniffDelimiter guesses the field delimiter from the first line of data.
// The candidate with the highest count wins; tabs are checked before
// semicolons and commas so they take ties, and a line with no candidate at
// all falls back to comma.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	best := ','
	bestCount := 0
	for _, cand := range []rune{'\t', ';', ','} {
		if n := bytes.Count(line, []byte(string(cand))); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}

func gridName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}
