package tablesense_test

import (
	"fmt"
	"log"
	"os"

	"github.com/tsawler/tablesense"
	"github.com/tsawler/tablesense/render"
	"github.com/tsawler/tablesense/structure"
	"github.com/tsawler/tablesense/xlsx"
)

// These examples verify the README code samples compile correctly. The
// file-based ones are not run since they require documents; the grid-based
// ones run against their expected output.

func Example_fromGrid() {
	rows := [][]string{
		{"Name", "Age", "Department"},
		{"John", "25", "Eng"},
		{"Jane", "30", "Mkt"},
	}

	out, _, err := tablesense.FromGrid(rows).
		OutputFormat(render.FormatCSV).
		RenderString()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(out)
	// Output:
	// Name,Age,Department
	// John,25,Eng
	// Jane,30,Mkt
}

func Example_mergedCells() {
	rows := [][]string{
		{"Region", "", "Total"},
		{"North", "South", "1200"},
	}

	table, _, err := tablesense.FromGrid(rows).DetectHeaders(false).Table()
	if err != nil {
		log.Fatal(err)
	}

	anchor := table.GetCell(0, 0)
	fmt.Printf("%s spans %d columns\n", anchor.Content, anchor.ColSpan)
	// Output:
	// Region spans 2 columns
}

func Example_extractFile() {
	// Works with CSV, TSV, XLSX, HTML, ODT, and ODS files
	table, warnings, err := tablesense.Open("report.xlsx").Table()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Headers:", table.Headers)

	for _, w := range warnings {
		fmt.Println("Warning:", w.Message)
	}
}

func Example_extractWithOptions() {
	table, warnings, err := tablesense.Open("report.xlsx").
		MergedCells(tablesense.MergeExpand). // Copy anchor content into covered cells
		MaxRows(1000).                       // Cap very large sheets
		PreserveFormatting().                // Keep bold/italic markers
		Table()
	_ = table
	_ = warnings
	_ = err
}

func Example_renderMarkdown() {
	warnings, err := tablesense.Open("data.csv").
		OutputFormat(render.FormatMarkdown).
		Render(os.Stdout)
	_ = warnings
	_ = err
}

func Example_presets() {
	// Minimal: raw cells, no structure inference applied
	table, _, err := tablesense.Open("data.csv").Simple().Table()
	_ = table
	_ = err

	// Everything: headers, formatting, empty cells, JSON output
	out, _, err := tablesense.Open("report.xlsx").Full().RenderString()
	_ = out
	_ = err
}

func Example_multipleTables() {
	// Open extracts the first table; ReadGrids returns them all.
	grids, err := tablesense.ReadGrids("report.xlsx")
	if err != nil {
		log.Fatal(err)
	}

	for _, grid := range grids {
		table, _, err := tablesense.FromSource(grid).Table()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(table.Title, table.RowCount)
	}
}

func Example_lowerLevelPackages() {
	// The source packages and detectors are available directly.
	grids, err := xlsx.Open("report.xlsx")
	if err != nil {
		log.Fatal(err)
	}

	table, _, err := tablesense.FromSource(grids[0]).DetectHeaders(false).Table()
	if err != nil {
		log.Fatal(err)
	}

	result := structure.NewHeaderDetector().Detect(table)
	fmt.Printf("header confidence: %.2f\n", result.Confidence)

	ranges := structure.NewMergeDetector().DetectRanges(table)
	fmt.Println("merged ranges:", len(ranges))
}

func Example_warnings() {
	table, warnings, err := tablesense.Open("big.csv").MaxRows(500).Table()
	if err != nil {
		log.Fatal(err) // Fatal error
	}
	_ = table

	for _, w := range warnings {
		log.Println("Warning:", w.Message) // Non-fatal issues
	}

	// Format all warnings
	formatted := tablesense.FormatWarnings(warnings)
	_ = formatted
}

func Example_errorHandling() {
	// Panic on error (for scripts/tests)
	table := tablesense.MustTable(tablesense.Open("data.csv").Table())
	grids := tablesense.Must(tablesense.ReadGrids("report.xlsx"))
	_ = table
	_ = grids
}

func Example_fallback() {
	table, _, err := tablesense.Open("report.xlsx").Table()
	if err != nil {
		// Degrade to a placeholder instead of failing the document.
		fmt.Println(render.Fallback(0))
		return
	}
	fmt.Println(render.Fallback(table.RowCount))
}
