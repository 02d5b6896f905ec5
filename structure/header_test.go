package structure

import (
	"testing"

	"github.com/tsawler/tablesense/model"
)

// makeTable builds a table from a grid of raw strings, the same way the
// pipeline builds one from a source grid.
func makeTable(grid [][]string) *model.TableData {
	table := model.NewTableData()
	for i, rowData := range grid {
		row := model.NewRow(i)
		for _, content := range rowData {
			row.AddCell(model.NewCell(content))
		}
		table.AddRow(row)
	}
	table.UpdateStatistics()
	return table
}

func TestDetectHeaderPositive(t *testing.T) {
	table := makeTable([][]string{
		{"Name", "Age", "Department"},
		{"John", "25", "Eng"},
		{"Jane", "30", "Mkt"},
	})

	d := NewHeaderDetector()
	result := d.Detect(table)

	if !result.IsHeader {
		t.Errorf("Expected header detection, got confidence %.3f", result.Confidence)
	}
	if result.Confidence <= 0.6 {
		t.Errorf("Confidence = %.3f, want > 0.6", result.Confidence)
	}
}

func TestDetectHeaderNegative(t *testing.T) {
	table := makeTable([][]string{
		{"1", "2", "3"},
		{"4", "5", "6"},
	})

	d := NewHeaderDetector()
	result := d.Detect(table)

	if result.IsHeader {
		t.Errorf("Expected no header on numeric grid, got confidence %.3f", result.Confidence)
	}
	if result.Confidence > 0.6 {
		t.Errorf("Confidence = %.3f, want <= 0.6", result.Confidence)
	}
}

func TestDetectHeaderEmptyTable(t *testing.T) {
	d := NewHeaderDetector()

	result := d.Detect(model.NewTableData())
	if result.IsHeader || result.Confidence != 0 {
		t.Errorf("Expected zero result on empty table, got %+v", result)
	}

	table := model.NewTableData()
	table.AddRow(model.NewRow(0))
	result = d.Detect(table)
	if result.IsHeader || result.Confidence != 0 {
		t.Errorf("Expected zero result on empty first row, got %+v", result)
	}
}

func TestDetectHeaderFormattingSignal(t *testing.T) {
	bold := func(content string) model.TableCell {
		return model.NewCellWithFormatting(content, &model.CellFormatting{Bold: true})
	}

	table := model.NewTableData()
	headerRow := model.NewRow(0)
	headerRow.AddCell(bold("Product"))
	headerRow.AddCell(bold("Price"))
	table.AddRow(headerRow)

	for i, rowData := range [][]string{{"Widget", "9.99"}, {"Gadget", "12.50"}} {
		row := model.NewRow(i + 1)
		for _, content := range rowData {
			row.AddCell(model.NewCell(content))
		}
		table.AddRow(row)
	}
	table.UpdateStatistics()

	d := NewHeaderDetector()
	result := d.Detect(table)

	if !result.IsHeader {
		t.Fatalf("Expected header detection, got confidence %.3f", result.Confidence)
	}

	var formattingScore float64
	found := false
	for _, sig := range result.Signals {
		if sig.Name == "formatting" {
			formattingScore = sig.Score
			found = true
		}
	}
	if !found {
		t.Fatal("Expected formatting signal to be computed")
	}
	if formattingScore != 1.0 {
		t.Errorf("Formatting score = %.3f, want 1.0", formattingScore)
	}
}

func TestDetectHeaderSkipsFormattingWithoutData(t *testing.T) {
	table := makeTable([][]string{
		{"Name", "Age", "Department"},
		{"John", "25", "Eng"},
	})

	d := NewHeaderDetector()
	result := d.Detect(table)

	for _, sig := range result.Signals {
		if sig.Name == "formatting" {
			t.Error("Formatting signal should be skipped when no cell carries formatting")
		}
	}
	if len(result.Signals) != 4 {
		t.Errorf("Signals = %d, want 4", len(result.Signals))
	}
}

func TestDetectHeaderSingleRow(t *testing.T) {
	table := makeTable([][]string{{"Name", "Age", "City"}})

	d := NewHeaderDetector()
	result := d.Detect(table)

	// Only content and uniqueness can be judged; both point at a header.
	if !result.IsHeader {
		t.Errorf("Expected header-only table to detect, got confidence %.3f", result.Confidence)
	}
	if len(result.Signals) != 2 {
		t.Errorf("Signals = %d, want 2", len(result.Signals))
	}
}

func TestDetectDoesNotModifyTable(t *testing.T) {
	table := makeTable([][]string{
		{"Name", "Age"},
		{"John", "25"},
	})

	d := NewHeaderDetector()
	result := d.Detect(table)
	if !result.IsHeader {
		t.Fatal("Expected header detection")
	}

	if table.HasHeader {
		t.Error("Detect should not set HasHeader")
	}
	if table.Headers != nil {
		t.Error("Detect should not populate Headers")
	}
	if table.Rows[0].Cells[0].Type != model.CellData {
		t.Error("Detect should not retype cells")
	}
}

func TestDetectHeaderCustomThreshold(t *testing.T) {
	table := makeTable([][]string{
		{"Name", "Age", "Department"},
		{"John", "25", "Eng"},
		{"Jane", "30", "Mkt"},
	})

	config := DefaultHeaderConfig()
	config.ConfidenceThreshold = 0.99
	d := NewHeaderDetectorWithConfig(config)

	if result := d.Detect(table); result.IsHeader {
		t.Errorf("Expected no header at threshold 0.99, got confidence %.3f", result.Confidence)
	}
}

func TestDetectHeaderDeterministic(t *testing.T) {
	table := makeTable([][]string{
		{"Name", "Age", "Department"},
		{"John", "25", "Eng"},
		{"Jane", "30", "Mkt"},
	})

	d := NewHeaderDetector()
	first := d.Detect(table)
	second := d.Detect(table)

	if first.Confidence != second.Confidence {
		t.Errorf("Confidence differs across runs: %.6f vs %.6f", first.Confidence, second.Confidence)
	}
	if first.IsHeader != second.IsHeader {
		t.Error("IsHeader differs across runs")
	}
}
