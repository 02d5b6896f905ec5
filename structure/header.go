// Package structure infers table structure from cell content: whether the
// first row is a header row, and which runs of empty cells represent merged
// ranges attributed to an adjacent anchor cell.
package structure

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/montanaflynn/stats"

	"github.com/tsawler/tablesense/classify"
	"github.com/tsawler/tablesense/model"
)

// HeaderConfig holds configuration for header detection
type HeaderConfig struct {
	// ConfidenceThreshold is the score a first row must exceed to be
	// declared a header. Default: 0.6
	ConfidenceThreshold float64

	// FormattingWeight scores formatting differences between the first
	// row and the data rows. Default: 0.30
	FormattingWeight float64

	// ContentWeight scores header-like content in the first row.
	// Default: 0.25
	ContentWeight float64

	// ConsistencyWeight scores per-column data type agreement in the
	// data rows. Default: 0.20
	ConsistencyWeight float64

	// LengthWeight scores the short-labels-over-long-values pattern.
	// Default: 0.15
	LengthWeight float64

	// UniquenessWeight scores distinctness of first-row values.
	// Default: 0.10
	UniquenessWeight float64

	// FormattingSampleRows is how many data rows the formatting signal
	// compares against. Default: 3
	FormattingSampleRows int

	// ConsistencySampleRows is how many data rows are classified per
	// column for the consistency signal. Default: 5
	ConsistencySampleRows int

	// LengthSampleRows is how many data rows contribute to the average
	// data cell length. Default: 3
	LengthSampleRows int

	// Keywords are substrings that mark a cell as a likely column label.
	// Matched case-insensitively against trimmed cell content.
	Keywords []string
}

// DefaultHeaderConfig returns sensible default configuration
func DefaultHeaderConfig() HeaderConfig {
	return HeaderConfig{
		ConfidenceThreshold:   0.6,
		FormattingWeight:      0.30,
		ContentWeight:         0.25,
		ConsistencyWeight:     0.20,
		LengthWeight:          0.15,
		UniquenessWeight:      0.10,
		FormattingSampleRows:  3,
		ConsistencySampleRows: 5,
		LengthSampleRows:      3,
		Keywords: []string{
			"name", "id", "title", "date", "time", "type",
			"status", "amount", "count", "number", "code", "description",
		},
	}
}

// SignalScore is the outcome of one header detection signal.
type SignalScore struct {
	// Name identifies the signal.
	Name string

	// Score is the signal's normalized value in [0, 1].
	Score float64

	// Weight is the weight the signal carried in the combined confidence.
	Weight float64
}

// HeaderResult is the outcome of header detection on a table.
type HeaderResult struct {
	// IsHeader is true when the confidence exceeded the threshold.
	IsHeader bool

	// Confidence is the combined weighted score in [0, 1].
	Confidence float64

	// Signals lists the signals that could be computed for this table.
	// Signals whose required sample is absent (for example the formatting
	// signal on a table with no formatting data) are omitted and their
	// weight excluded from the confidence denominator.
	Signals []SignalScore
}

// HeaderDetector decides whether the first row of a table is a header row.
//
// No single signal is reliable on real-world tables: formatting is often
// lost on import and content keywords are locale-dependent. The detector
// combines five weighted signals and compares the normalized sum against a
// threshold.
type HeaderDetector struct {
	config     HeaderConfig
	classifier *classify.Classifier
}

// NewHeaderDetector creates a header detector with default configuration
func NewHeaderDetector() *HeaderDetector {
	return NewHeaderDetectorWithConfig(DefaultHeaderConfig())
}

// NewHeaderDetectorWithConfig creates a header detector with custom configuration
func NewHeaderDetectorWithConfig(config HeaderConfig) *HeaderDetector {
	return &HeaderDetector{
		config:     config,
		classifier: classify.New(),
	}
}

// Detect scores the first row of the table. It does not modify the table;
// callers apply the result with [model.TableData.SetHeaders]. Tables with no
// rows, or an empty first row, are never headers.
func (d *HeaderDetector) Detect(t *model.TableData) HeaderResult {
	var result HeaderResult
	if t == nil || len(t.Rows) == 0 {
		return result
	}
	firstRow := &t.Rows[0]
	if len(firstRow.Cells) == 0 {
		return result
	}
	dataRows := t.Rows[1:]

	var sum, weightSum float64
	apply := func(name string, weight, score float64, ok bool) {
		if !ok {
			return
		}
		result.Signals = append(result.Signals, SignalScore{Name: name, Score: score, Weight: weight})
		sum += score * weight
		weightSum += weight
	}

	score, ok := d.formattingDifference(firstRow, dataRows)
	apply("formatting", d.config.FormattingWeight, score, ok)

	score, ok = d.contentPattern(firstRow)
	apply("content", d.config.ContentWeight, score, ok)

	score, ok = d.dataTypeConsistency(dataRows)
	apply("consistency", d.config.ConsistencyWeight, score, ok)

	score, ok = d.lengthPattern(firstRow, dataRows)
	apply("length", d.config.LengthWeight, score, ok)

	score, ok = d.uniqueness(firstRow)
	apply("uniqueness", d.config.UniquenessWeight, score, ok)

	if weightSum > 0 {
		result.Confidence = sum / weightSum
	}
	result.IsHeader = result.Confidence > d.config.ConfidenceThreshold
	return result
}

// formattingDifference compares formatting between first-row cells and the
// cells below them. Headers tend to be bold or styled while data rows are
// plain, so each column-wise comparison where formatting presence differs,
// or where the first-row cell is bold and the data cell is not, counts as
// evidence.
func (d *HeaderDetector) formattingDifference(firstRow *model.TableRow, dataRows []model.TableRow) (float64, bool) {
	if len(dataRows) == 0 {
		return 0, false
	}
	sample := dataRows
	if len(sample) > d.config.FormattingSampleRows {
		sample = sample[:d.config.FormattingSampleRows]
	}

	hasFormattingData := false
	diffs := 0
	comparisons := 0

	for col := range firstRow.Cells {
		firstCell := &firstRow.Cells[col]
		firstHas := firstCell.Formatting.HasFormatting()

		for r := range sample {
			if col >= len(sample[r].Cells) {
				continue
			}
			dataCell := &sample[r].Cells[col]
			dataHas := dataCell.Formatting.HasFormatting()

			if firstHas || dataHas {
				hasFormattingData = true
			}
			comparisons++

			if firstHas != dataHas {
				diffs++
				continue
			}
			if firstCell.Formatting != nil && dataCell.Formatting != nil &&
				firstCell.Formatting.Bold && !dataCell.Formatting.Bold {
				diffs++
			}
		}
	}

	if !hasFormattingData || comparisons == 0 {
		return 0, false
	}
	return float64(diffs) / float64(comparisons), true
}

// contentPattern scores how many first-row cells look like column labels:
// a known keyword, a short mostly non-numeric label, or a capitalized word.
func (d *HeaderDetector) contentPattern(firstRow *model.TableRow) (float64, bool) {
	total := len(firstRow.Cells)
	if total == 0 {
		return 0, false
	}

	matches := 0
	for i := range firstRow.Cells {
		trimmed := strings.TrimSpace(firstRow.Cells[i].Content)
		lower := strings.ToLower(trimmed)

		if d.containsKeyword(lower) || isShortLabel(lower) || hasCapitalizedWord(trimmed) {
			matches++
		}
	}

	return float64(matches) / float64(total), true
}

func (d *HeaderDetector) containsKeyword(lower string) bool {
	for _, keyword := range d.config.Keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// isShortLabel reports whether text has label-like length (3 to 29 bytes)
// and at most 3 digits.
func isShortLabel(text string) bool {
	if len(text) <= 2 || len(text) >= 30 {
		return false
	}
	digits := 0
	for _, r := range text {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits <= 3
}

func hasCapitalizedWord(text string) bool {
	for _, word := range strings.Fields(text) {
		r, _ := utf8.DecodeRuneInString(word)
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// dataTypeConsistency classifies a sample of data cells per column and
// scores how strongly each column agrees on a single type. Data rows under
// a real header are typically homogeneous per column.
func (d *HeaderDetector) dataTypeConsistency(dataRows []model.TableRow) (float64, bool) {
	if len(dataRows) == 0 {
		return 0, false
	}

	maxCols := 0
	for i := range dataRows {
		if n := len(dataRows[i].Cells); n > maxCols {
			maxCols = n
		}
	}

	var columnScores []float64
	for col := 0; col < maxCols; col++ {
		counts := make(map[model.DataType]int)
		classified := 0

		for r := 0; r < len(dataRows) && r < d.config.ConsistencySampleRows; r++ {
			if col >= len(dataRows[r].Cells) {
				continue
			}
			counts[d.classifier.Detect(dataRows[r].Cells[col].Content)]++
			classified++
		}

		if classified == 0 {
			continue
		}
		majority := 0
		for _, n := range counts {
			if n > majority {
				majority = n
			}
		}
		columnScores = append(columnScores, float64(majority)/float64(classified))
	}

	if len(columnScores) == 0 {
		return 0, false
	}
	mean, err := stats.Mean(columnScores)
	if err != nil {
		return 0, false
	}
	return mean, true
}

// lengthPattern scores the tendency of headers to be shorter than the data
// below them. Lengths are measured in characters.
func (d *HeaderDetector) lengthPattern(firstRow *model.TableRow, dataRows []model.TableRow) (float64, bool) {
	if len(dataRows) == 0 || len(firstRow.Cells) == 0 {
		return 0, false
	}

	firstLengths := make([]float64, 0, len(firstRow.Cells))
	for i := range firstRow.Cells {
		firstLengths = append(firstLengths, float64(firstRow.Cells[i].ContentLength()))
	}
	firstAvg, err := stats.Mean(firstLengths)
	if err != nil {
		return 0, false
	}

	var rowAverages []float64
	for r := 0; r < len(dataRows) && r < d.config.LengthSampleRows; r++ {
		cells := dataRows[r].Cells
		if len(cells) == 0 {
			continue
		}
		lengths := make([]float64, 0, len(cells))
		for i := range cells {
			lengths = append(lengths, float64(cells[i].ContentLength()))
		}
		rowAvg, err := stats.Mean(lengths)
		if err != nil {
			continue
		}
		rowAverages = append(rowAverages, rowAvg)
	}

	if len(rowAverages) > 0 {
		dataAvg, err := stats.Mean(rowAverages)
		if err == nil && firstAvg > 0 && firstAvg < 50 && dataAvg >= firstAvg*1.2 {
			return 0.8, true
		}
	}

	if firstAvg > 0 && firstAvg < 30 {
		return 0.4, true
	}
	return 0, true
}

// uniqueness scores how distinct the non-empty first-row values are.
// Column labels repeat far less often than data values do.
func (d *HeaderDetector) uniqueness(firstRow *model.TableRow) (float64, bool) {
	seen := make(map[string]struct{})
	nonEmpty := 0

	for i := range firstRow.Cells {
		value := strings.ToLower(strings.TrimSpace(firstRow.Cells[i].Content))
		if value == "" {
			continue
		}
		nonEmpty++
		seen[value] = struct{}{}
	}

	if nonEmpty == 0 {
		return 0, false
	}
	return float64(len(seen)) / float64(nonEmpty), true
}
