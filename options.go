package tablesense

import "github.com/tsawler/tablesense/render"

// ExtractionMode selects how much detail extraction carries through to the
// result. It is a fidelity hint: structure inference itself runs the same
// way in every mode, but ModeFormatted and ModeFull imply formatting
// preservation.
type ExtractionMode int

const (
	// ModeSimple extracts plain cell content only.
	ModeSimple ExtractionMode = iota
	// ModeStructured adds header detection and merged-cell structure.
	ModeStructured
	// ModeFormatted additionally applies styling markers to cell content.
	ModeFormatted
	// ModeFull retains everything the source provides.
	ModeFull
)

// String returns the string representation of the mode.
func (m ExtractionMode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeStructured:
		return "structured"
	case ModeFormatted:
		return "formatted"
	case ModeFull:
		return "full"
	default:
		return "unknown"
	}
}

// MergeMode selects how detected merged-cell ranges are applied.
type MergeMode int

const (
	// MergeIgnore leaves cells as they arrived; detection does not run.
	MergeIgnore MergeMode = iota
	// MergePreserve marks anchors with their spans and covered cells as
	// merged, keeping covered cells empty.
	MergePreserve
	// MergeExpand copies the anchor's content into every covered cell.
	MergeExpand
)

// String returns the string representation of the mode.
func (m MergeMode) String() string {
	switch m {
	case MergeIgnore:
		return "ignore"
	case MergePreserve:
		return "preserve"
	case MergeExpand:
		return "expand"
	default:
		return "unknown"
	}
}

// ExtractOptions holds configuration for table extraction.
type ExtractOptions struct {
	// Pipeline behavior
	mode               ExtractionMode
	detectHeaders      bool
	preserveFormatting bool
	includeEmptyCells  bool
	mergedCells        MergeMode
	maxRows            int // 0 means no limit

	// Result identity
	tableID string // random UUID assigned when empty
	title   string // overrides the source-provided name when set

	// Rendering
	outputFormat render.Format
	pretty       bool
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		mode:               ModeStructured,
		detectHeaders:      true,
		preserveFormatting: false,
		includeEmptyCells:  false,
		mergedCells:        MergePreserve,
		maxRows:            0, // no limit
		outputFormat:       render.FormatPlainText,
		pretty:             false,
	}
}

// clone creates a copy of ExtractOptions. Every field is a scalar, so a
// value copy is a deep copy.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}
